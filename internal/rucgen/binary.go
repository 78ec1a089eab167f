package rucgen

import (
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// visitBinary lowers a binary expression. Assignment is split out into
// assign.go
func (g *Gen) visitBinary(n *rucsem.Node) rucir.Answer {
	if n.Op == "=" || IsCompoundAssign(n.Op) {
		return g.visitAssign(n)
	}
	if n.Op == "&&" || n.Op == "||" {
		return g.visitShortCircuitValue(n)
	}

	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	lhs := g.VisitExpr(n.Children[0])
	rhs := g.VisitExpr(n.Children[1])
	g.St.Loc = saved

	return g.emitBinaryAnswer(n.Op, lhs, rhs)
}

// emitBinaryAnswer applies the usual arithmetic conversion to lhs/rhs (promoting the integer
// side via sitofp when the other is floating) and emits the corresponding
// instruction, returning a REG answer for arithmetic/bitwise ops or a LOGIC answer for
// comparisons.
func (g *Gen) emitBinaryAnswer(op string, lhs, rhs rucir.Answer) rucir.Answer {
	lv, lt := g.materialize(lhs)
	rv, rt := g.materialize(rhs)

	class := ClassInt
	ty := "i32"
	if lt.IsFloating() || rt.IsFloating() {
		class = ClassFloat
		ty = "double"
		if !lt.IsFloating() {
			lv = g.promoteToFloatText(lhs, lv)
		}
		if !rt.IsFloating() {
			rv = g.promoteToFloatText(rhs, rv)
		}
	}

	if IsComparison(op) {
		reg := g.freshReg()
		g.W.Write("  %s = %s %s %s, %s\n", reg, Predicate(op, class), ty, lv, rv)
		return rucir.Logic(reg)
	}

	reg := g.emitBinary(Opcode(op, class), ty, lv, rv)
	if class == ClassFloat {
		return rucir.Reg1(reg, rucsem.Type{Kind: rucsem.Float})
	}
	return rucir.Reg1(reg, rucsem.Type{Kind: rucsem.Int})
}

// visitShortCircuitValue materialises "a && b" / "a || b" as an i32 value when used outside a
// branch position, reusing emitCondition's exact short-circuit lowering, and
// testable property 9) and merging the two outcomes with a phi, in the same shape as the
// Ternary lowering sits right next to this for the same reason.
func (g *Gen) visitShortCircuitValue(n *rucsem.Node) rucir.Answer {
	trueL := g.newLabel()
	falseL := g.newLabel()
	endL := g.newLabel()

	g.emitCondition(n, trueL, falseL)

	g.emitLabel(trueL)
	g.emitBr(endL)

	g.emitLabel(falseL)
	g.emitBr(endL)

	g.emitLabel(endL)
	reg := g.freshReg()
	g.W.Write("  %s = phi i1 [ true, %%%s ], [ false, %%%s ]\n", reg, trueL, falseL)
	return rucir.Logic(reg)
}
