package rucir

import (
	"ruc/internal/rucerr"
	"ruc/internal/rucsem"
)

// Location is the caller's requested evaluation mode for an expression visit.
type Location int

const (
	LocReg Location = iota
	LocMem
	LocFree
)

// Needs collects the module-wide "was this builtin used" flags that gate epilogue extern
// declarations, one named field per builtin rather than a bitset or scattered booleans.
type Needs struct {
	Stacksave bool
	Abs       bool
	Fabs      bool
	IOFile    bool
}

// FuncState is the per-function subset of the emission state: whether this function used any
// dynamic-stack allocation (so Return knows to emit a matching stackrestore), its declared
// return type, and whether it is the fixed main entry point. IsMain only changes behaviour for
// a bare "return;" with no expression and for the synthesized fall-off-the-end exit, both of
// which fall back to "ret i32 0"; an explicit "return <expr>;" always reports its computed
// value using RetType, main included.
type FuncState struct {
	UsedDynamicStack bool
	DynStackKey      int // key passed to the function's first stacksave, conventionally -1.
	IsMain           bool
	RetType          rucsem.Type

	TrueLabel       string
	FalseLabel      string
	BreakLabel      string
	ContinueLabel   string
	TernaryEndLabel string
}

// State is the process-wide mutable emission context threaded by exclusive mutable reference
// through every visit.
type State struct {
	Regs   *Counter
	Labels *Counter
	Blocks *Counter

	Loc Location

	Arrays *ArrayRegistry
	Needs  Needs
	Errs   *rucerr.Sink

	Func *FuncState
}

// NewState returns a freshly initialised emission state for one translation unit. Register
// numbering starts at 1.
func NewState(errs *rucerr.Sink) *State {
	return &State{
		Regs:   NewCounter(1),
		Labels: NewCounter(0),
		Blocks: NewCounter(0),
		Arrays: NewArrayRegistry(),
		Errs:   errs,
	}
}

// EnterFunc resets the per-function state at the start of a new function definition with the
// given declared return type; isMain marks the fixed main entry point.
func (s *State) EnterFunc(retTy rucsem.Type, isMain bool) {
	s.Func = &FuncState{DynStackKey: -1, RetType: retTy, IsMain: isMain}
}

// PushLabels saves the current true/false/break/continue/ternary-end labels and installs new
// ones, returning a restore function: nested constructs call PushLabels, recurse, then call
// the returned restore.
func (s *State) PushLabels(tru, fls, brk, cnt, tEnd string) func() {
	saved := *s.Func
	if tru != "" {
		s.Func.TrueLabel = tru
	}
	if fls != "" {
		s.Func.FalseLabel = fls
	}
	if brk != "" {
		s.Func.BreakLabel = brk
	}
	if cnt != "" {
		s.Func.ContinueLabel = cnt
	}
	if tEnd != "" {
		s.Func.TernaryEndLabel = tEnd
	}
	return func() {
		s.Func.TrueLabel = saved.TrueLabel
		s.Func.FalseLabel = saved.FalseLabel
		s.Func.BreakLabel = saved.BreakLabel
		s.Func.ContinueLabel = saved.ContinueLabel
		s.Func.TernaryEndLabel = saved.TernaryEndLabel
	}
}
