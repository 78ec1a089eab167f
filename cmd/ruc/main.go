// Command ruc drives the generator end to end: parse flags, hand the configured workspace to
// whatever upstream front end supplies a syntax tree, and stream the resulting IR to the chosen
// output. There is only ever one generator pass to run, so it calls rucgen.Encode directly and
// synchronously.
package main

import (
	"bytes"
	"fmt"
	"os"

	"ruc/internal/rucgen"
	"ruc/internal/rucio"
	"ruc/internal/rucopt"
	"ruc/internal/rucsem"
	"ruc/internal/rucverify"
)

// buildUnit is the seam where a lexer/parser/type-checker front end plugs in. That subsystem is
// an external collaborator out of scope for this generator; this stub reports that plainly
// instead of faking a tree.
func buildUnit(path string) (*rucsem.Unit, error) {
	if path == "" {
		return nil, fmt.Errorf("no source file given")
	}
	return nil, fmt.Errorf("no front end wired into this binary; %s was never parsed", path)
}

func run(ws rucopt.Workspace) error {
	syn, err := buildUnit(ws.Src)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := rucio.NewWriter(&buf)
	n := rucgen.Encode(ws, syn, w)
	if n < 0 {
		return fmt.Errorf("generator misconfigured: nothing written")
	}
	if n > 0 {
		fmt.Printf("generation completed with %d error(s)\n", n)
	}

	if ws.Verify {
		if rep := rucverify.Check(buf.String()); !rep.OK {
			for _, msg := range rep.Issues {
				fmt.Println("verify:", msg)
			}
			return fmt.Errorf("structural verification failed (%d issue(s))", len(rep.Issues))
		}
	}

	out := os.Stdout
	if ws.Out != "" {
		f, err := os.OpenFile(ws.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open output file: %s", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("could not write output: %s", err)
	}

	if ws.Verbose {
		fmt.Printf("target: %v, errors: %d\n", ws.Target, n)
	}
	return nil
}

func main() {
	ws, err := rucopt.ParseArgs()
	if err != nil {
		fmt.Println("Command line argument error:", err)
		os.Exit(1)
	}
	if err := run(ws); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
