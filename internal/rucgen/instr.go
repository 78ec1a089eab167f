package rucgen

import (
	"ruc/internal/rucio"
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// Gen bundles the collaborators every emitter (Expression, Statement, Declaration, Module)
// needs: the output writer, the emission state, the semantic unit being walked and the type
// printer. Composing Type Printer and Operator Printer with these low-level instruction
// helpers is what lets every other emitter stay a thin visitor over the AST.
type Gen struct {
	W     *rucio.Writer
	St    *rucir.State
	Unit  *rucsem.Unit
	Types *TypePrinter
}

// NewGen returns a Gen ready to drive one translation unit's emission.
func NewGen(w *rucio.Writer, st *rucir.State, unit *rucsem.Unit) *Gen {
	return &Gen{W: w, St: st, Unit: unit, Types: NewTypePrinter(&st.Needs)}
}

// freshReg allocates and returns a new SSA register name.
func (g *Gen) freshReg() string {
	return rucir.Reg(g.St.Regs.Next())
}

// newLabel allocates and returns a new synthetic label name.
func (g *Gen) newLabel() string {
	return rucir.Label(g.St.Labels.Next())
}

// emitLoad emits "<reg> = load <ty>, <ty>* <ptr>" and returns reg.
func (g *Gen) emitLoad(ty, ptr string) string {
	reg := g.freshReg()
	g.W.Write("  %s = load %s, %s* %s\n", reg, ty, ty, ptr)
	return reg
}

// emitStore emits "store <ty> <val>, <ty>* <ptr>".
func (g *Gen) emitStore(ty, val, ptr string) {
	g.W.Write("  store %s %s, %s* %s\n", ty, val, ty, ptr)
}

// emitAlloca emits "<slot> = alloca <ty>, align <n>" for a fixed-size local.
func (g *Gen) emitAlloca(slot, ty string, align int) {
	g.W.Write("  %s = alloca %s, align %d\n", slot, ty, align)
}

// emitAllocaDynamic emits "<slot> = alloca <ty>, i32 <sizeReg>" for a dynamic-count local.
func (g *Gen) emitAllocaDynamic(slot, ty, sizeReg string) {
	g.W.Write("  %s = alloca %s, i32 %s\n", slot, ty, sizeReg)
}

// emitBinary emits "<reg> = <op> <ty> <a>, <b>" and returns reg.
func (g *Gen) emitBinary(op, ty, a, b string) string {
	reg := g.freshReg()
	g.W.Write("  %s = %s %s %s, %s\n", reg, op, ty, a, b)
	return reg
}

// emitGEP emits an inbounds getelementptr with the given aggregate type, base pointer and
// index list, and returns the result register.
func (g *Gen) emitGEP(aggTy, baseTy, base string, indices []string) string {
	reg := g.freshReg()
	g.W.Write("  %s = getelementptr inbounds %s, %s* %s", reg, aggTy, baseTy, base)
	for _, idx := range indices {
		g.W.Write(", i32 %s", idx)
	}
	g.W.WriteString("\n")
	return reg
}

// emitBr emits an unconditional branch.
func (g *Gen) emitBr(target string) {
	g.W.Write("  br label %%%s\n", target)
}

// emitCondBr emits a conditional branch on the i1 register cond.
func (g *Gen) emitCondBr(cond, thn, els string) {
	g.W.Write("  br i1 %s, label %%%s, label %%%s\n", cond, thn, els)
}

// emitLabel emits a label line.
func (g *Gen) emitLabel(name string) {
	g.W.Label(name)
}

// emitRet emits a typed return.
func (g *Gen) emitRet(ty, val string) {
	g.W.Write("  ret %s %s\n", ty, val)
}

// emitRetVoid emits "ret void".
func (g *Gen) emitRetVoid() {
	g.W.Line("  ret void")
}

// emitZextI1ToI32 lifts a LOGIC i1 register to an i32 register: LOGIC answers are lifted to
// REG by zext i1 to i32 on demand.
func (g *Gen) emitZextI1ToI32(reg string) string {
	dst := g.freshReg()
	g.W.Write("  %s = zext i1 %s to i32\n", dst, reg)
	return dst
}

// emitSitofp emits an integer-to-float promotion and returns the result register, used by
// the usual arithmetic conversion whenever one operand of a binary op is floating.
func (g *Gen) emitSitofp(reg string) string {
	dst := g.freshReg()
	g.W.Write("  %s = sitofp i32 %s to double\n", dst, reg)
	return dst
}

// emitStacksave emits a stacksave call and stores the result under the given dynamic-stack key.
func (g *Gen) emitStacksave(key int) string {
	g.St.Needs.Stacksave = true
	reg := g.freshReg()
	g.W.Write("  %s = call i8* @llvm.stacksave()\n", reg)
	g.W.Write("  store i8* %s, i8** %s\n", reg, rucir.DynSlot(key))
	return reg
}

// emitStackrestore emits a load of the saved pointer under key and a stackrestore call.
func (g *Gen) emitStackrestore(key int) {
	reg := g.freshReg()
	g.W.Write("  %s = load i8*, i8** %s\n", reg, rucir.DynSlot(key))
	g.W.Write("  call void @llvm.stackrestore(i8* %s)\n", reg)
}
