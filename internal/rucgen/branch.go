package rucgen

import (
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// checkAndBranch is the shared "check and branch" routine: inspect ans'
// kind and dispatch to an unconditional or conditional branch to trueLabel/falseLabel.
func (g *Gen) checkAndBranch(ans rucir.Answer, trueLabel, falseLabel string) {
	switch ans.Kind {
	case rucir.AnsConst:
		nonzero := ans.IntConst != 0 || (ans.IsFloat && ans.FloatConst != 0)
		if nonzero {
			g.emitBr(trueLabel)
		} else {
			g.emitBr(falseLabel)
		}
	case rucir.AnsLogic:
		g.emitCondBr(ans.Reg, trueLabel, falseLabel)
	default:
		cond := g.truthy(ans)
		g.emitCondBr(cond, trueLabel, falseLabel)
	}
}

// emitCondition lowers condition expression n to a branch to trueLabel or falseLabel,
// recognising short-circuit && and || directly so the RHS is only evaluated on the live path,
// and "!" by swapping the target labels and recursing rather than materialising a value first.
func (g *Gen) emitCondition(n *rucsem.Node, trueLabel, falseLabel string) {
	if n.Kind == rucsem.BINARY {
		switch n.Op {
		case "&&":
			next := g.newLabel()
			g.emitCondition(n.Children[0], next, falseLabel)
			g.emitLabel(next)
			g.emitCondition(n.Children[1], trueLabel, falseLabel)
			return
		case "||":
			next := g.newLabel()
			g.emitCondition(n.Children[0], trueLabel, next)
			g.emitLabel(next)
			g.emitCondition(n.Children[1], trueLabel, falseLabel)
			return
		}
	}
	if n.Kind == rucsem.UNARY && n.Op == "!" {
		g.emitCondition(n.Children[0], falseLabel, trueLabel)
		return
	}

	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n)
	g.St.Loc = saved
	g.checkAndBranch(ans, trueLabel, falseLabel)
}
