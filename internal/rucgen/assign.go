package rucgen

import (
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// visitAssign lowers assignment: evaluate LHS under MEM, RHS under FREE; for compound forms,
// load the destination, emit the binary op, then store; respect the destination's declared
// element type for the store.
func (g *Gen) visitAssign(n *rucsem.Node) rucir.Answer {
	lhsNode := n.Children[0]
	rhsNode := n.Children[1]

	saved := g.St.Loc
	g.St.Loc = rucir.LocMem
	lhsAns := g.VisitExpr(lhsNode)
	g.St.Loc = saved

	addr := g.memAddr(lhsAns)
	destTy := lhsAns.Typ
	destIR := g.Types.Print(destTy)

	saved = g.St.Loc
	g.St.Loc = rucir.LocFree
	rhsAns := g.VisitExpr(rhsNode)
	g.St.Loc = saved

	if n.Op == "=" {
		val := g.storeValue(rhsAns, destTy)
		g.emitStore(destIR, val, addr)
		return rucir.Reg1(val, destTy)
	}

	// Compound assignment: load current value, apply the plain operator, store back.
	cur := g.emitLoad(destIR, addr)
	curAns := rucir.Reg1(cur, destTy)
	result := g.emitBinaryAnswer(n.Op, curAns, rhsAns)
	val := g.storeValue(result, destTy)
	g.emitStore(destIR, val, addr)
	return rucir.Reg1(val, destTy)
}

// storeValue materialises ans as a value string matching destTy's representation (integer,
// float or pointer-null), promoting or demoting as needed.
func (g *Gen) storeValue(ans rucir.Answer, destTy rucsem.Type) string {
	val, typ := g.materialize(ans)
	if destTy.IsFloating() && !typ.IsFloating() {
		return g.promoteToFloatText(ans, val)
	}
	if !destTy.IsFloating() && typ.IsFloating() && destTy.Kind != rucsem.NullPtr {
		reg := g.freshReg()
		g.W.Write("  %s = fptosi double %s to i32\n", reg, val)
		return reg
	}
	if destTy.IsPointer() && ans.Kind == rucir.AnsNull {
		return "null"
	}
	return val
}
