package rucgen

import (
	"fmt"
	"strconv"

	"ruc/internal/rucerr"
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// declDims splits a declarator node's Children into its dimension-size expressions (nilable,
// outermost-first) and its optional initializer, per the convention documented on
// rucsem.Node.Compound.
func declDims(n *rucsem.Node) ([]*rucsem.Node, *rucsem.Node) {
	if !n.Compound {
		return n.Children, nil
	}
	last := len(n.Children) - 1
	return n.Children[:last], n.Children[last]
}

// visitLocalDecl lowers every declarator in a
// DECL statement node.
func (g *Gen) visitLocalDecl(n *rucsem.Node) {
	for _, decl := range n.Children {
		if decl.Ident.Typ.Kind == rucsem.Array {
			g.declareLocalArray(decl)
			continue
		}
		g.declareLocalScalar(decl)
	}
}

// declareLocalScalar lowers a scalar local: alloca, then, if an
// initializer is present, evaluate it under a plain value request and store.
func (g *Gen) declareLocalScalar(decl *rucsem.Node) {
	id := decl.Ident
	ty := g.Types.Print(id.Typ)
	g.emitAlloca(rucir.VarSlot(id.ID), ty, 4)

	_, init := declDims(decl)
	if init == nil {
		return
	}
	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(init)
	g.St.Loc = saved

	val := g.storeValue(ans, id.Typ)
	g.emitStore(ty, val, rucir.VarSlot(id.ID))
}

// declareLocalArray lowers a local array declaration and its initializer, if any.
func (g *Gen) declareLocalArray(decl *rucsem.Node) {
	id := decl.Ident
	dimNodes, init := declDims(decl)
	elem := id.Typ.Deref()

	dims, dynIdx, ok := g.resolveDims(decl, dimNodes)
	if !ok {
		return
	}

	if dynIdx < 0 {
		g.declareStaticArray(id, elem, dims, init)
		return
	}
	g.declareDynamicArray(id, elem, dims, dynIdx)
}

// resolveDims evaluates each dimension expression of an array declarator, classifying each as
// constant or dynamic, and enforces invariant that at most one dimension may be
// dynamic and it must be the outermost. Returns ok=false (after reporting an error) when the
// shape is rejected.
func (g *Gen) resolveDims(decl *rucsem.Node, dimNodes []*rucsem.Node) ([]rucir.Dim, int, bool) {
	dims := make([]rucir.Dim, len(dimNodes))
	dynIdx := -1
	for i, dn := range dimNodes {
		if dn == nil {
			continue
		}
		if dn.Kind == rucsem.LITERAL && dn.Lit == rucsem.LitInt {
			dims[i] = rucir.ConstDim(int(dn.IntVal))
			continue
		}
		saved := g.St.Loc
		g.St.Loc = rucir.LocReg
		ans := g.VisitExpr(dn)
		g.St.Loc = saved
		val, _ := g.materialize(ans)
		dims[i] = rucir.RegDim(val)
		if i != 0 {
			g.St.Errs.Report(rucerr.ArrayBordersCannotBeStaticDynamic, decl.Line, decl.Pos,
				fmt.Sprintf("dimension %d of array %q is dynamic but not outermost", i, decl.Ident.Name))
			return nil, -1, false
		}
		if dynIdx != -1 {
			g.St.Errs.Report(rucerr.SuchArrayIsNotSupported, decl.Line, decl.Pos,
				fmt.Sprintf("array %q has more than one dynamic dimension", decl.Ident.Name))
			return nil, -1, false
		}
		dynIdx = i
	}

	desc := &rucir.ArrayDesc{Static: dynIdx == -1, Dims: dims}
	g.St.Arrays.Declare(decl.Ident.ID, desc)
	return dims, dynIdx, true
}

// declareStaticArray allocates a fully constant-dimensioned local array and, if an initializer
// is present, stores each element (or each character, for string-literal initialization of a
// char array) via a per-slot getelementptr and typed store.
func (g *Gen) declareStaticArray(id *rucsem.Ident, elem rucsem.Type, dims []rucir.Dim, init *rucsem.Node) {
	dimInts := make([]int, len(dims))
	for i, d := range dims {
		dimInts[i] = d.Const
	}
	arrTy := g.Types.PrintArrayAlloc(elem, dimInts)
	slot := rucir.ArrSlot(id.ID)
	g.emitAlloca(slot, arrTy, 4)

	if init == nil {
		return
	}
	if init.Kind == rucsem.LITERAL && init.Lit == rucsem.LitString {
		g.initCharArrayFromString(slot, arrTy, init.StrIdx, dimInts[0])
		return
	}

	elemTy := g.Types.Print(elem)
	var walk func(n *rucsem.Node, prefix []string)
	walk = func(n *rucsem.Node, prefix []string) {
		for i, c := range n.Children {
			idx := append(append([]string{}, prefix...), strconv.Itoa(i))
			if c.Kind == rucsem.INITIALIZER {
				walk(c, idx)
				continue
			}
			saved := g.St.Loc
			g.St.Loc = rucir.LocReg
			ans := g.VisitExpr(c)
			g.St.Loc = saved
			val := g.storeValue(ans, elem)
			gepIdx := append([]string{"0"}, idx...)
			ptr := g.emitGEP(arrTy, arrTy, slot, gepIdx)
			g.emitStore(elemTy, val, ptr)
		}
	}
	walk(init, nil)
}

// initCharArrayFromString stores each character of a string literal (plus the trailing NUL) into
// a char array slot one byte at a time.
func (g *Gen) initCharArrayFromString(slot, arrTy string, strIdx, length int) {
	runes := []rune(g.Unit.Strings.Get(strIdx))
	for i := 0; i < length; i++ {
		var ch int64
		if i < len(runes) {
			ch = int64(runes[i])
		}
		ptr := g.emitGEP(arrTy, arrTy, slot, []string{"0", strconv.Itoa(i)})
		g.emitStore("i8", strconv.FormatInt(ch, 10), ptr)
	}
}

// declareDynamicArray implements single-dynamic-outer-dimension local array: an
// alloca sized by the runtime register, guarded by the function's first stacksave (key -1),
// matched by a stackrestore at return (emitted from visitReturn, or from visitFunction's
// synthesized exit when the body does not end in a return).
func (g *Gen) declareDynamicArray(id *rucsem.Ident, elem rucsem.Type, dims []rucir.Dim, dynIdx int) {
	innerDims := make([]int, 0, len(dims)-1)
	for i, d := range dims {
		if i == dynIdx {
			continue
		}
		innerDims = append(innerDims, d.Const)
	}
	allocTy := g.Types.PrintArrayAlloc(elem, innerDims)
	slot := rucir.DynArrSlot(id.ID)

	if !g.St.Func.UsedDynamicStack {
		g.St.Func.UsedDynamicStack = true
		g.St.Func.DynStackKey = -1
		g.emitAlloca(rucir.DynSlot(-1), "i8*", 8)
		g.emitStacksave(-1)
	}
	g.emitAllocaDynamic(slot, allocTy, dims[dynIdx].Reg)
}

// visitGlobalDecl lowers every scalar/array global declarator
// in a GLOBAL_DECL node.
func (g *Gen) visitGlobalDecl(n *rucsem.Node) {
	for _, decl := range n.Children {
		if decl.Ident.Typ.Kind == rucsem.Array {
			g.declareGlobalArray(decl)
			continue
		}
		g.declareGlobalScalar(decl)
	}
}

func (g *Gen) declareGlobalScalar(decl *rucsem.Node) {
	id := decl.Ident
	ty := g.Types.Print(id.Typ)
	_, init := declDims(decl)

	if text, ok := constText(init); ok {
		g.W.Write("%s = global %s %s\n", rucir.GlobalVar(id.ID), ty, text)
		return
	}
	g.W.Write("%s = common global %s %s\n", rucir.GlobalVar(id.ID), ty, zeroValue(id.Typ))
}

func (g *Gen) declareGlobalArray(decl *rucsem.Node) {
	id := decl.Ident
	dimNodes, init := declDims(decl)
	elem := id.Typ.Deref()

	dimInts := make([]int, len(dimNodes))
	for i, dn := range dimNodes {
		if dn != nil && dn.Kind == rucsem.LITERAL && dn.Lit == rucsem.LitInt {
			dimInts[i] = int(dn.IntVal)
		}
	}
	g.St.Arrays.Declare(id.ID, &rucir.ArrayDesc{Static: true, Dims: dimsFromConst(dimInts)})
	arrTy := g.Types.PrintArrayAlloc(elem, dimInts)

	if init == nil {
		g.W.Write("%s = common global %s zeroinitializer\n", rucir.GlobalArr(id.ID), arrTy)
		return
	}
	if init.Kind == rucsem.LITERAL && init.Lit == rucsem.LitString {
		runes := []rune(g.Unit.Strings.Get(init.StrIdx))
		sb := "["
		for i := 0; i < dimInts[0]; i++ {
			if i > 0 {
				sb += ", "
			}
			var ch int64
			if i < len(runes) {
				ch = int64(runes[i])
			}
			sb += "i8 " + strconv.FormatInt(ch, 10)
		}
		sb += "]"
		g.W.Write("%s = global %s %s\n", rucir.GlobalArr(id.ID), arrTy, sb)
		return
	}

	elemTy := g.Types.Print(elem)
	sb := "["
	for i, c := range init.Children {
		if i > 0 {
			sb += ", "
		}
		text, _ := constText(c)
		sb += elemTy + " " + text
	}
	sb += "]"
	g.W.Write("%s = global %s %s\n", rucir.GlobalArr(id.ID), arrTy, sb)
}

func dimsFromConst(cs []int) []rucir.Dim {
	out := make([]rucir.Dim, len(cs))
	for i, c := range cs {
		out[i] = rucir.ConstDim(c)
	}
	return out
}

// constText renders n as a literal IR constant, handling integer/float/null literals and a
// negated literal (unary "-" over a literal), for use in global-scope initializers where no
// instructions can be emitted. ok is false when n is not a compile-time constant expression.
func constText(n *rucsem.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	neg := false
	if n.Kind == rucsem.UNARY && n.Op == "-" {
		neg = true
		n = n.Children[0]
	}
	if n.Kind != rucsem.LITERAL {
		return "", false
	}
	switch n.Lit {
	case rucsem.LitInt:
		v := n.IntVal
		if neg {
			v = -v
		}
		return strconv.FormatInt(v, 10), true
	case rucsem.LitFloat:
		v := n.FloatVal
		if neg {
			v = -v
		}
		return formatFloat(v), true
	case rucsem.LitNull:
		return "null", true
	default:
		return "", false
	}
}

// zeroValue returns the zero-initializer text for t's common-global form.
func zeroValue(t rucsem.Type) string {
	if t.IsFloating() {
		return "0.0"
	}
	if t.IsPointer() {
		return "null"
	}
	return "0"
}

// visitFunction lowers a function definition: a parameter-slot prologue followed
// by the body as a function-body compound; main always ends in "ret i32 0", void functions get a
// trailing "ret void" when the body doesn't already end in one.
func (g *Gen) visitFunction(n *rucsem.Node) {
	fn := n.Ident
	isMain := g.Unit.Main != nil && fn.ID == g.Unit.Main.ID
	params := n.Children[:len(n.Children)-1]
	body := n.Children[len(n.Children)-1]

	g.St.EnterFunc(*fn.Typ.Ret, isMain)

	paramList := ""
	for i, p := range params {
		if i > 0 {
			paramList += ", "
		}
		paramList += g.Types.Print(p.Ident.Typ)
	}
	g.W.Write("define %s @%s(%s) {\n", g.Types.Print(*fn.Typ.Ret), fn.Name, paramList)

	for i, p := range params {
		ty := g.Types.Print(p.Ident.Typ)
		slot := rucir.VarSlot(p.Ident.ID)
		g.emitAlloca(slot, ty, 4)
		g.emitStore(ty, fmt.Sprintf("%%%d", i), slot)
	}

	g.visitCompound(body, true)

	if !bodyEndsInReturn(body) {
		if g.St.Func.UsedDynamicStack {
			g.emitStackrestore(g.St.Func.DynStackKey)
		}
		if isMain {
			g.emitRet("i32", "0")
		} else if fn.Typ.Ret.IsVoid() {
			g.emitRetVoid()
		}
	}
	g.W.Line("}")
}

// bodyEndsInReturn reports whether a function body's last direct statement is a return,
// avoiding emission of an unreachable second terminator in the same block.
func bodyEndsInReturn(body *rucsem.Node) bool {
	if len(body.Children) == 0 {
		return false
	}
	return body.Children[len(body.Children)-1].Kind == rucsem.RETURN
}
