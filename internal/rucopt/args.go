// Package rucopt parses the generator's command line flags into a Workspace with a hand-rolled
// flag loop. Flags other than the target selector are parsed but ignored by the generator itself.
package rucopt

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Target selects the data-layout/triple header the Module Emitter prints.
type Target int

const (
	X86_64 Target = iota
	Mipsel
)

// Workspace bundles the parsed CLI flags and the source/output file paths.
type Workspace struct {
	Src     string
	Out     string
	Target  Target
	Verbose bool
	Verify  bool // -verify: run the rucverify static pass after generation.
}

const appVersion = "ruc ssa-gen 1.0"

// ParseArgs parses os.Args[1:] into a Workspace.
func ParseArgs() (Workspace, error) {
	return Parse(os.Args[1:])
}

// Parse parses the given argument slice into a Workspace. Split out from ParseArgs so tests
// can drive it without touching the real os.Args.
func Parse(args []string) (Workspace, error) {
	ws := Workspace{Target: X86_64}
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "--x86_64":
			ws.Target = X86_64
		case "--mipsel":
			ws.Target = Mipsel
		case "-o":
			if i1+1 >= len(args) {
				return ws, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return ws, fmt.Errorf("expected path to output file, got new flag %s", args[i1+1])
			}
			ws.Out = args[i1+1]
			i1++
		case "-vb":
			ws.Verbose = true
		case "-verify":
			ws.Verify = true
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		default:
			if strings.HasPrefix(args[i1], "-") {
				return ws, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			ws.Src = args[i1]
		}
	}
	return ws, nil
}

func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "--x86_64\tEmit the x86_64 data-layout/triple header (default).")
	_, _ = fmt.Fprintln(w, "--mipsel\tEmit the mipsel data-layout/triple header.")
	_, _ = fmt.Fprintln(w, "-o\tPath and name of the output file.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stdout.")
	_, _ = fmt.Fprintln(w, "-verify\tRun the post-emission structural validator after generation.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits.")
	_ = w.Flush()
}
