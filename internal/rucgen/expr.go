package rucgen

import (
	"fmt"
	"strconv"

	"ruc/internal/rucerr"
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// maxCallArgs bounds the argument-evaluation buffer for a call.
const maxCallArgs = 128

// VisitExpr visits expression node n under the emission state's current location request and
// returns the resulting Answer This is the Expression Emitter.
func (g *Gen) VisitExpr(n *rucsem.Node) rucir.Answer {
	switch n.Kind {
	case rucsem.IDENTIFIER:
		return g.visitIdentifier(n)
	case rucsem.LITERAL:
		return g.visitLiteral(n)
	case rucsem.SUBSCRIPT:
		return g.visitSubscript(n)
	case rucsem.MEMBER:
		return g.visitMember(n)
	case rucsem.CALL:
		return g.visitCall(n)
	case rucsem.UNARY:
		return g.visitUnary(n)
	case rucsem.BINARY:
		return g.visitBinary(n)
	case rucsem.TERNARY:
		return g.visitTernary(n)
	case rucsem.CAST:
		return g.visitCast(n)
	default:
		// Unsupported AST classes are silently skipped: the front end has already rejected
		// ill-typed programs
		return rucir.Answer{}
	}
}

// visitIdentifier lowers an identifier reference.
func (g *Gen) visitIdentifier(n *rucsem.Node) rucir.Answer {
	id := n.Ident
	typ := id.Typ

	if g.St.Loc == rucir.LocMem {
		return rucir.MemAnswer(id.ID, typ)
	}

	slot := g.slotName(id)
	if typ.Kind == rucsem.Array {
		// A zero-index getelementptr yields a pointer to the first element.
		arrTy := g.arrayAllocType(id)
		reg := g.emitGEP(arrTy, arrTy, slot, []string{"0", "0"})
		return rucir.Reg1(reg, rucsem.PointerTo(typ.Deref()))
	}

	ty := g.Types.Print(typ)
	reg := g.emitLoad(ty, slot)
	return rucir.Reg1(reg, typ)
}

// slotName returns the named storage slot for identifier id: a local var/array slot or the
// global counterpart naming convention.
func (g *Gen) slotName(id *rucsem.Ident) string {
	if id.Typ.Kind == rucsem.Array {
		if desc := g.St.Arrays.Lookup(id.ID); desc != nil && !desc.Static {
			if g.Unit.Idents.IsLocal(id.ID) {
				return rucir.DynArrSlot(id.ID)
			}
			return rucir.GlobalArr(id.ID)
		}
		if g.Unit.Idents.IsLocal(id.ID) {
			return rucir.ArrSlot(id.ID)
		}
		return rucir.GlobalArr(id.ID)
	}
	if g.Unit.Idents.IsLocal(id.ID) {
		return rucir.VarSlot(id.ID)
	}
	return rucir.GlobalVar(id.ID)
}

// arrayAllocType returns the IR type of identifier id's backing allocation: the full nested
// static shape, or a flat element pointer base for a dynamic array.
func (g *Gen) arrayAllocType(id *rucsem.Ident) string {
	desc := g.St.Arrays.Lookup(id.ID)
	elem := id.Typ.Deref()
	if desc == nil || desc.Static {
		dims := constDims(desc)
		return g.Types.PrintArrayAlloc(elem, dims)
	}
	return g.Types.Print(elem)
}

func constDims(desc *rucir.ArrayDesc) []int {
	if desc == nil {
		return nil
	}
	dims := make([]int, 0, len(desc.Dims))
	for _, d := range desc.Dims {
		dims = append(dims, d.Const)
	}
	return dims
}

// visitLiteral lowers a literal. Storing a literal into an
// outstanding MEM request is the caller's job (Assignment and Declaration both evaluate their
// source under a plain value request and issue the store themselves), which keeps exactly one
// code path responsible for store emission instead of duplicating it here.
func (g *Gen) visitLiteral(n *rucsem.Node) rucir.Answer {
	switch n.Lit {
	case rucsem.LitInt:
		return rucir.IntConstAnswer(n.IntVal)
	case rucsem.LitFloat:
		return rucir.FloatConstAnswer(n.FloatVal)
	case rucsem.LitString:
		return rucir.StrAnswer(n.StrIdx)
	default:
		return rucir.NullAnswer()
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// visitSubscript lowers a subscript expression: walk the chain of subscripts to
// the base identifier, then emit getelementptr per dimension outermost-first.
func (g *Gen) visitSubscript(n *rucsem.Node) rucir.Answer {
	base, indices := flattenSubscript(n)
	id := base.Ident
	desc := g.St.Arrays.Lookup(id.ID)
	elem := id.Typ.Deref()

	outerLoc := g.St.Loc
	idxRegs := make([]string, 0, len(indices))
	for _, idxNode := range indices {
		saved := g.St.Loc
		g.St.Loc = rucir.LocReg
		ans := g.VisitExpr(idxNode)
		g.St.Loc = saved
		idxRegs = append(idxRegs, g.toOperandValue(ans, rucsem.Type{Kind: rucsem.Int}))
	}

	var ptrReg string
	if desc != nil && desc.Static {
		arrTy := g.Types.PrintArrayAlloc(elem, constDims(desc))
		gepIdx := append([]string{"0"}, idxRegs...)
		ptrReg = g.emitGEP(arrTy, arrTy, g.slotName(id), gepIdx)
	} else {
		// Dynamic: flat element pointer plus a single index register.
		elemTy := g.Types.Print(elem)
		ptrReg = g.emitGEP(elemTy, elemTy, g.slotName(id), idxRegs)
	}

	if outerLoc == rucir.LocMem {
		return rucir.MemRegAnswer(ptrReg, elem)
	}
	reg := g.emitLoad(g.Types.Print(elem), ptrReg)
	return rucir.Reg1(reg, elem)
}

// flattenSubscript walks a nested chain of SUBSCRIPT nodes down to the base IDENTIFIER,
// returning the base node and the index expressions outermost-first.
func flattenSubscript(n *rucsem.Node) (*rucsem.Node, []*rucsem.Node) {
	var indices []*rucsem.Node
	cur := n
	for cur.Kind == rucsem.SUBSCRIPT {
		indices = append([]*rucsem.Node{cur.Children[1]}, indices...)
		cur = cur.Children[0]
	}
	return cur, indices
}

// visitMember lowers a member access.
func (g *Gen) visitMember(n *rucsem.Node) rucir.Answer {
	base := n.Children[0]
	structTy := base.Typ
	var baseReg string
	var aggTy rucsem.Type
	if n.Arrow {
		saved := g.St.Loc
		g.St.Loc = rucir.LocReg
		ans := g.VisitExpr(base)
		g.St.Loc = saved
		baseReg = ans.Reg
		aggTy = structTy.Deref()
	} else {
		saved := g.St.Loc
		g.St.Loc = rucir.LocMem
		ans := g.VisitExpr(base)
		g.St.Loc = saved
		baseReg = g.memAddr(ans)
		aggTy = structTy
	}

	idx, fieldTy := fieldIndex(aggTy, n.Member)
	structIR := rucir.StructType(aggTy.TypeID)
	ptr := g.emitGEP(structIR, structIR, baseReg, []string{"0", strconv.Itoa(idx)})

	if g.St.Loc == rucir.LocMem {
		return rucir.MemRegAnswer(ptr, fieldTy)
	}
	reg := g.emitLoad(g.Types.Print(fieldTy), ptr)
	return rucir.Reg1(reg, fieldTy)
}

func fieldIndex(t rucsem.Type, name string) (int, rucsem.Type) {
	for i, f := range t.Fields {
		if f.Name == name {
			return i, f.Typ
		}
	}
	return 0, rucsem.Type{}
}

// memAddr returns the IR address string for a MEM-kind answer: either the named slot of an
// identifier, or a previously computed pointer register.
func (g *Gen) memAddr(ans rucir.Answer) string {
	if ans.MemReg != "" {
		return ans.MemReg
	}
	id := g.Unit.Idents.Get(ans.MemID)
	return g.slotName(id)
}

// visitCall lowers a function call.
func (g *Gen) visitCall(n *rucsem.Node) rucir.Answer {
	callee := n.Ident
	if callee.Typ.Kind == rucsem.Pointer {
		g.St.Errs.Report(rucerr.UnsupportedPointerToFunctionCall, n.Line, n.Pos,
			fmt.Sprintf("call through pointer %q is not supported", callee.Name))
		return rucir.Answer{}
	}
	argNodes := n.Children
	if len(argNodes) > maxCallArgs {
		g.St.Errs.Report(rucerr.TooManyArguments, n.Line, n.Pos,
			fmt.Sprintf("call to %q has %d arguments, limit is %d", callee.Name, len(argNodes), maxCallArgs))
		argNodes = argNodes[:maxCallArgs]
	}

	type argVal struct {
		typ rucsem.Type
		val string
	}
	args := make([]argVal, 0, len(argNodes))
	paramTypes := callee.Typ.Params
	for i1, a := range argNodes {
		var want rucsem.Type
		if i1 < len(paramTypes) {
			want = paramTypes[i1]
		}
		if a.Kind == rucsem.LITERAL && a.Lit == rucsem.LitString {
			idx := a.StrIdx
			length := g.Unit.Strings.Length(idx) + 1
			val := fmt.Sprintf("getelementptr inbounds ([%d x i8], [%d x i8]* %s, i32 0, i32 0)",
				length, length, rucir.GlobalStr(idx))
			args = append(args, argVal{typ: rucsem.PointerTo(rucsem.Type{Kind: rucsem.Char}), val: val})
			continue
		}
		saved := g.St.Loc
		g.St.Loc = rucir.LocReg
		ans := g.VisitExpr(a)
		g.St.Loc = saved
		val := g.toOperandValue(ans, want)
		args = append(args, argVal{typ: want, val: val})
	}

	call := "call"
	argList := ""
	for i1, a := range args {
		if i1 > 0 {
			argList += ", "
		}
		argList += g.Types.Print(a.typ) + " " + a.val
	}
	if callee.Typ.Ret != nil && callee.Typ.Ret.Kind != rucsem.Void {
		reg := g.freshReg()
		g.W.Write("  %s = %s %s @%s(%s)\n", reg, call, g.Types.Print(*callee.Typ.Ret), callee.Name, argList)
		return rucir.Reg1(reg, *callee.Typ.Ret)
	}
	g.W.Write("  %s void @%s(%s)\n", call, callee.Name, argList)
	return rucir.Answer{}
}

// toOperandValue materialises ans as a value string of the given target type, lifting LOGIC
// answers with zext and promoting integers to float usual arithmetic
// conversion when want is floating.
func (g *Gen) toOperandValue(ans rucir.Answer, want rucsem.Type) string {
	val, typ := g.materialize(ans)
	if want.Kind == rucsem.Float && typ.Kind != rucsem.Float {
		return g.promoteToFloatText(ans, val)
	}
	return val
}

// materialize returns a printable operand string and the effective type for ans, lifting
// LOGIC (i1) answers to i32 via zext.
func (g *Gen) materialize(ans rucir.Answer) (string, rucsem.Type) {
	switch ans.Kind {
	case rucir.AnsReg:
		return ans.Reg, ans.Typ
	case rucir.AnsConst:
		if ans.IsFloat {
			return formatFloat(ans.FloatConst), rucsem.Type{Kind: rucsem.Float}
		}
		return strconv.FormatInt(ans.IntConst, 10), rucsem.Type{Kind: rucsem.Int}
	case rucir.AnsLogic:
		return g.emitZextI1ToI32(ans.Reg), rucsem.Type{Kind: rucsem.Int}
	case rucir.AnsNull:
		return "null", rucsem.Type{Kind: rucsem.NullPtr}
	case rucir.AnsStr:
		return rucir.GlobalStr(ans.StrIdx), rucsem.PointerTo(rucsem.Type{Kind: rucsem.Char})
	default:
		return "0", rucsem.Type{Kind: rucsem.Int}
	}
}

// promoteToFloatText promotes an integer-typed value to double text, folding constants
// directly and emitting sitofp for register/logic values.
func (g *Gen) promoteToFloatText(ans rucir.Answer, intVal string) string {
	if ans.Kind == rucir.AnsConst && !ans.IsFloat {
		return formatFloat(float64(ans.IntConst))
	}
	return g.emitSitofp(intVal)
}

// visitCast implements the CAST expression class: evaluate the child, then convert between
// integer and floating representations as needed by n.Typ.
func (g *Gen) visitCast(n *rucsem.Node) rucir.Answer {
	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n.Children[0])
	g.St.Loc = saved

	val, typ := g.materialize(ans)
	if n.Typ.Kind == rucsem.Float && typ.Kind != rucsem.Float {
		return rucir.Reg1(g.promoteToFloatText(ans, val), rucsem.Type{Kind: rucsem.Float})
	}
	if n.Typ.Kind != rucsem.Float && typ.Kind == rucsem.Float {
		reg := g.freshReg()
		g.W.Write("  %s = fptosi double %s to i32\n", reg, val)
		return rucir.Reg1(reg, n.Typ)
	}
	return rucir.Reg1(val, n.Typ)
}
