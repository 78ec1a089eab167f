package rucgen

import (
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// visitTernary lowers a ternary expression: allocate three labels (then, else, end); evaluate
// the condition via the common branch helper; in each arm, save the answer just before
// branching to end, using the arm's own nested ternary end label as the phi incoming label
// when that arm is itself a ternary; emit the phi at end; export the end label via
// state.Func.TernaryEndLabel for outer ternaries.
func (g *Gen) visitTernary(n *rucsem.Node) rucir.Answer {
	cond, thenExpr, elseExpr := n.Children[0], n.Children[1], n.Children[2]
	resultTy := g.staticType(n)

	thenL := g.newLabel()
	elseL := g.newLabel()
	endL := g.newLabel()

	g.emitCondition(cond, thenL, elseL)

	g.emitLabel(thenL)
	thenVal, thenIncoming := g.evalTernaryArm(thenExpr, resultTy, thenL)
	g.emitBr(endL)

	g.emitLabel(elseL)
	elseVal, elseIncoming := g.evalTernaryArm(elseExpr, resultTy, elseL)
	g.emitBr(endL)

	g.emitLabel(endL)
	reg := g.freshReg()
	ty := g.Types.Print(resultTy)
	g.W.Write("  %s = phi %s [ %s, %%%s ], [ %s, %%%s ]\n",
		reg, ty, thenVal, thenIncoming, elseVal, elseIncoming)

	g.St.Func.TernaryEndLabel = endL
	return rucir.Reg1(reg, resultTy)
}

// evalTernaryArm evaluates one ternary arm and returns its value text (promoted to resultTy
// when resultTy is floating) together with the phi incoming-edge label: the arm's own block
// label, or — when the arm is itself a ternary — that nested ternary's end label, since
// control actually reaches `end` from there.
func (g *Gen) evalTernaryArm(n *rucsem.Node, resultTy rucsem.Type, ownLabel string) (string, string) {
	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n)
	g.St.Loc = saved

	val, typ := g.materialize(ans)
	if resultTy.IsFloating() && !typ.IsFloating() {
		val = g.promoteToFloatText(ans, val)
	}

	label := ownLabel
	if n.Kind == rucsem.TERNARY {
		label = g.St.Func.TernaryEndLabel
	}
	return val, label
}
