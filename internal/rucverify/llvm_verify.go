//go:build rucverify

// This file is only built with `-tags rucverify`, since it cgo-links against a system LLVM
// install; the generator's default build and test suite must not require one.
package rucverify

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

func init() {
	llvmCheck = CheckLLVM
}

// CheckLLVM feeds text through the system LLVM's own IR reader, the strongest correctness
// oracle available for a hand-printed textual emitter: an independent well-formedness pass
// run after generation, backed by a real parser instead of a hand-rolled one.
func CheckLLVM(text string) Report {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	buf := llvm.NewMemoryBufferFromString(text)

	mod, err := ctx.ParseIR(buf)
	if err != nil {
		return fail([]string{fmt.Sprintf("llvm.ParseIR: %s", err)})
	}
	defer mod.Dispose()

	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		return fail([]string{fmt.Sprintf("llvm.VerifyModule: %s", err)})
	}
	return fail(nil)
}
