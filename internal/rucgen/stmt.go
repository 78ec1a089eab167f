package rucgen

import (
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// VisitStmt dispatches statement node n to its emitter Unrecognised
// statement classes (switch/case/default — noted open item) are silently skipped,
// matching §4.9's "unknown/TODO AST shapes are silently skipped" failure mode.
func (g *Gen) VisitStmt(n *rucsem.Node) {
	switch n.Kind {
	case rucsem.COMPOUND:
		g.visitCompound(n, false)
	case rucsem.DECL:
		g.visitLocalDecl(n)
	case rucsem.EXPR:
		g.visitExprStmt(n)
	case rucsem.NULL:
		// No-op.
	case rucsem.IF:
		g.visitIf(n)
	case rucsem.WHILE:
		g.visitWhile(n)
	case rucsem.DO:
		g.visitDo(n)
	case rucsem.FOR:
		g.visitFor(n)
	case rucsem.GOTO:
		g.emitBr(rucir.SourceLabel(n.LabelID))
	case rucsem.CONTINUE:
		g.emitBr(g.St.Func.ContinueLabel)
	case rucsem.BREAK:
		g.emitBr(g.St.Func.BreakLabel)
	case rucsem.RETURN:
		g.visitReturn(n)
	case rucsem.LABEL:
		g.visitLabeled(n)
	case rucsem.SWITCH, rucsem.CASE, rucsem.DEFAULT:
		// Not lowered in the core; switch/case/default are recognised but left as an open item.
	default:
	}
}

// visitCompound lowers a compound statement: unless this is the outermost
// function-body block, wrap it in a stacksave/stackrestore pair keyed by a fresh block number
// so any variable-length array declared directly inside it is freed on every path out of the
// block.
func (g *Gen) visitCompound(n *rucsem.Node, isFuncBody bool) {
	if isFuncBody {
		for _, stmt := range n.Children {
			g.VisitStmt(stmt)
		}
		return
	}

	key := g.St.Blocks.Next()
	g.emitAlloca(rucir.DynSlot(key), "i8*", 8)
	g.emitStacksave(key)
	for _, stmt := range n.Children {
		g.VisitStmt(stmt)
	}
	g.emitStackrestore(key)
}

// visitExprStmt evaluates an expression purely for side effects, discarding its answer.
func (g *Gen) visitExprStmt(n *rucsem.Node) {
	saved := g.St.Loc
	g.St.Loc = rucir.LocFree
	g.VisitExpr(n.Children[0])
	g.St.Loc = saved
}

// visitIf lowers an if statement.
func (g *Gen) visitIf(n *rucsem.Node) {
	thenL := g.newLabel()
	elseL := g.newLabel()
	endL := g.newLabel()

	hasElse := len(n.Children) > 2 && n.Children[2] != nil
	falseTarget := endL
	if hasElse {
		falseTarget = elseL
	}
	g.emitCondition(n.Children[0], thenL, falseTarget)

	g.emitLabel(thenL)
	g.VisitStmt(n.Children[1])
	g.emitBr(endL)

	if hasElse {
		g.emitLabel(elseL)
		g.VisitStmt(n.Children[2])
		g.emitBr(endL)
	}

	g.emitLabel(endL)
}

// visitWhile lowers a while loop: (cond, body, end) labels, break=end,
// continue=cond.
func (g *Gen) visitWhile(n *rucsem.Node) {
	condL := g.newLabel()
	bodyL := g.newLabel()
	endL := g.newLabel()

	g.emitBr(condL)
	g.emitLabel(condL)
	g.emitCondition(n.Children[0], bodyL, endL)

	g.emitLabel(bodyL)
	restore := g.St.PushLabels("", "", endL, condL, "")
	g.VisitStmt(n.Children[1])
	restore()
	g.emitBr(condL)

	g.emitLabel(endL)
}

// visitDo lowers a do/while loop: (loop, cond, end) labels, body first with break=end,
// continue=cond, then the condition, which branches back to loop or on to end.
func (g *Gen) visitDo(n *rucsem.Node) {
	loopL := g.newLabel()
	condL := g.newLabel()
	endL := g.newLabel()

	g.emitBr(loopL)
	g.emitLabel(loopL)
	restore := g.St.PushLabels("", "", endL, condL, "")
	g.VisitStmt(n.Children[0])
	restore()
	g.emitBr(condL)

	g.emitLabel(condL)
	g.emitCondition(n.Children[1], loopL, endL)

	g.emitLabel(endL)
}

// visitFor lowers a for loop: (cond, body, incr, end) labels, break=end,
// continue=incr.
func (g *Gen) visitFor(n *rucsem.Node) {
	init, cond, incr, body := n.Children[0], n.Children[1], n.Children[2], n.Children[3]

	condL := g.newLabel()
	bodyL := g.newLabel()
	incrL := g.newLabel()
	endL := g.newLabel()

	if init != nil {
		g.VisitStmt(init)
	}
	g.emitBr(condL)

	g.emitLabel(condL)
	if cond != nil {
		g.emitCondition(cond, bodyL, endL)
	} else {
		g.emitBr(bodyL)
	}

	g.emitLabel(incrL)
	if incr != nil {
		saved := g.St.Loc
		g.St.Loc = rucir.LocFree
		g.VisitExpr(incr)
		g.St.Loc = saved
	}
	g.emitBr(condL)

	g.emitLabel(bodyL)
	restore := g.St.PushLabels("", "", endL, incrL, "")
	g.VisitStmt(body)
	restore()
	g.emitBr(incrL)

	g.emitLabel(endL)
}

// visitReturn lowers a return statement: restore the dynamic stack first if the
// function used one, then ret <type> <value> or ret void. An explicit "return <expr>;" always
// reports its actual computed value, including inside main — the "main always returns i32 0"
// rule governs only the synthesized fall-off-the-end exit a function body without
// a trailing explicit return gets, which visitFunction appends itself; a bare "return;" inside
// main still has no value to report, so that one case does fall back to the fixed i32 0.
func (g *Gen) visitReturn(n *rucsem.Node) {
	if g.St.Func.UsedDynamicStack {
		g.emitStackrestore(g.St.Func.DynStackKey)
	}

	hasExpr := len(n.Children) > 0 && n.Children[0] != nil
	if !hasExpr {
		if g.St.Func.IsMain {
			g.emitRet("i32", "0")
		} else {
			g.emitRetVoid()
		}
		return
	}

	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n.Children[0])
	g.St.Loc = saved

	retTy := g.St.Func.RetType
	val := g.storeValue(ans, retTy)
	g.emitRet(g.Types.Print(retTy), val)
}

// visitLabeled lowers a labeled statement: an unconditional branch to the label
// (terminating whatever block precedes it), the label itself, then the substatement.
func (g *Gen) visitLabeled(n *rucsem.Node) {
	name := rucir.SourceLabel(n.LabelID)
	g.emitBr(name)
	g.emitLabel(name)
	g.VisitStmt(n.Children[0])
}
