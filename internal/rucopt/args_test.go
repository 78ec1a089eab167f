package rucopt

import "testing"

func TestParseBasicFlags(t *testing.T) {
	ws, err := Parse([]string{"prog.ruc", "-o", "out.ll", "-vb", "-verify"})
	if err != nil {
		t.Fatalf("Parse returned error: %s", err)
	}
	if ws.Src != "prog.ruc" {
		t.Errorf("Src = %q, want %q", ws.Src, "prog.ruc")
	}
	if ws.Out != "out.ll" {
		t.Errorf("Out = %q, want %q", ws.Out, "out.ll")
	}
	if !ws.Verbose {
		t.Error("Verbose = false, want true")
	}
	if !ws.Verify {
		t.Error("Verify = false, want true")
	}
	if ws.Target != X86_64 {
		t.Errorf("Target = %v, want default X86_64", ws.Target)
	}
}

func TestParseTargetSelection(t *testing.T) {
	ws, err := Parse([]string{"--mipsel", "prog.ruc"})
	if err != nil {
		t.Fatalf("Parse returned error: %s", err)
	}
	if ws.Target != Mipsel {
		t.Errorf("Target = %v, want Mipsel", ws.Target)
	}
}

func TestParseMissingOutputArgument(t *testing.T) {
	_, err := Parse([]string{"-o"})
	if err == nil {
		t.Fatal("Parse did not report an error for -o with no argument")
	}
}

func TestParseOutputFlagFollowedByAnotherFlag(t *testing.T) {
	_, err := Parse([]string{"-o", "-vb"})
	if err == nil {
		t.Fatal("Parse did not reject -o immediately followed by another flag")
	}
}

func TestParseUnknownFlag(t *testing.T) {
	_, err := Parse([]string{"--bogus"})
	if err == nil {
		t.Fatal("Parse did not report an error for an unrecognised flag")
	}
}

func TestParseDefaultsWhenNoArgs(t *testing.T) {
	ws, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse returned error: %s", err)
	}
	if ws.Src != "" || ws.Out != "" || ws.Verbose || ws.Verify || ws.Target != X86_64 {
		t.Errorf("Parse(nil) = %+v, want zero-ish Workspace", ws)
	}
}
