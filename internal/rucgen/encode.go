package rucgen

import (
	"ruc/internal/rucerr"
	"ruc/internal/rucio"
	"ruc/internal/rucir"
	"ruc/internal/rucopt"
	"ruc/internal/rucsem"
)

// Encode is the generator's entry point: walk syn's AST and stream LLVM-12-ish
// textual IR into out. Returns -1 on misconfiguration (no output is written), else the
// translation unit's accumulated error count best-effort failure semantics.
func Encode(ws rucopt.Workspace, syn *rucsem.Unit, out *rucio.Writer) int {
	if syn == nil || out == nil || syn.Root == nil || syn.Idents == nil || syn.Strings == nil {
		return -1
	}

	errs := rucerr.NewSink()
	st := rucir.NewState(errs)
	g := NewGen(out, st, syn)

	g.EmitModule(ws)
	_ = out.Flush()

	return errs.Len()
}
