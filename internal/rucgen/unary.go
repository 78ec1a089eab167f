package rucgen

import (
	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// visitUnary dispatches a unary operator node to its lowering.
func (g *Gen) visitUnary(n *rucsem.Node) rucir.Answer {
	switch n.Op {
	case "++", "--":
		return g.visitIncDec(n)
	case "&":
		// Evaluates the operand as an address and reports that address as a pointer-typed REG
		// answer; a named slot is reported without emitting anything.
		saved := g.St.Loc
		g.St.Loc = rucir.LocMem
		ans := g.VisitExpr(n.Children[0])
		g.St.Loc = saved
		return rucir.Reg1(g.memAddr(ans), rucsem.PointerTo(ans.Typ))
	case "*":
		return g.visitDeref(n)
	case "-":
		return g.visitNeg(n)
	case "~":
		return g.visitBitnot(n)
	case "!":
		return g.visitLogicalNot(n)
	case "abs":
		return g.visitAbs(n)
	default:
		return rucir.Answer{}
	}
}

// visitIncDec implements pre/post ++/--: load, add/sub (or fadd/fsub) against
// literal 1, store; pre-forms report the post-op register, post-forms report the pre-op
// register.
func (g *Gen) visitIncDec(n *rucsem.Node) rucir.Answer {
	target := n.Children[0]
	post := len(n.Children) > 1 && n.Children[1] != nil && n.Children[1].Op == "post"

	saved := g.St.Loc
	g.St.Loc = rucir.LocMem
	memAns := g.VisitExpr(target)
	g.St.Loc = saved

	addr := g.memAddr(memAns)
	ty := g.Types.Print(memAns.Typ)
	pre := g.emitLoad(ty, addr)

	class := ClassInt
	one := "1"
	op := "+"
	if n.Op == "--" {
		op = "-"
	}
	if memAns.Typ.IsFloating() {
		class = ClassFloat
		one = "1.0"
	}
	post1 := g.emitBinary(Opcode(op, class), ty, pre, one)
	g.emitStore(ty, post1, addr)

	if post {
		return rucir.Reg1(pre, memAns.Typ)
	}
	return rucir.Reg1(post1, memAns.Typ)
}

// visitDeref implements "*": evaluates the pointer operand as a value; under a MEM request that
// pointer is returned as the address, otherwise the pointee is loaded through it.
func (g *Gen) visitDeref(n *rucsem.Node) rucir.Answer {
	child := n.Children[0]
	elem := child.Typ.Deref()

	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ptrAns := g.VisitExpr(child)
	g.St.Loc = saved

	ptrVal, _ := g.materialize(ptrAns)
	if saved == rucir.LocMem {
		return rucir.MemRegAnswer(ptrVal, elem)
	}
	reg := g.emitLoad(g.Types.Print(elem), ptrVal)
	return rucir.Reg1(reg, elem)
}

// visitNeg implements unary "-" against constant 0.
func (g *Gen) visitNeg(n *rucsem.Node) rucir.Answer {
	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n.Children[0])
	g.St.Loc = saved

	val, typ := g.materialize(ans)
	if typ.IsFloating() {
		reg := g.emitBinary("fsub", "double", "0.0", val)
		return rucir.Reg1(reg, rucsem.Type{Kind: rucsem.Float})
	}
	reg := g.emitBinary("sub nsw", "i32", "0", val)
	return rucir.Reg1(reg, rucsem.Type{Kind: rucsem.Int})
}

// visitBitnot implements unary "~" against constant -1.
func (g *Gen) visitBitnot(n *rucsem.Node) rucir.Answer {
	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n.Children[0])
	g.St.Loc = saved

	val, _ := g.materialize(ans)
	reg := g.emitBinary("xor", "i32", val, "-1")
	return rucir.Reg1(reg, rucsem.Type{Kind: rucsem.Int})
}

// visitLogicalNot implements "!" as a value: compare the operand against logical 0 and xor the
// i1 result against true, yielding a real LOGIC answer for value use. In branch position
// emitCondition never reaches this: it lowers "!x" by swapping the target labels instead.
func (g *Gen) visitLogicalNot(n *rucsem.Node) rucir.Answer {
	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n.Children[0])
	g.St.Loc = saved

	cond := g.truthy(ans)
	reg := g.emitBinary("xor", "i1", cond, "true")
	return rucir.Logic(reg)
}

// truthy returns an i1 register that is true iff ans is non-zero, lowering CONST/REG answers
// through icmp and passing LOGIC answers through unchanged.
func (g *Gen) truthy(ans rucir.Answer) string {
	switch ans.Kind {
	case rucir.AnsLogic:
		return ans.Reg
	case rucir.AnsConst:
		if ans.IsFloat {
			if ans.FloatConst != 0 {
				return "true"
			}
			return "false"
		}
		if ans.IntConst != 0 {
			return "true"
		}
		return "false"
	default:
		val, typ := g.materialize(ans)
		if typ.IsFloating() {
			return g.emitFcmp("one", val, "0.0")
		}
		return g.emitIcmp("ne", val, "0")
	}
}

func (g *Gen) emitIcmp(pred, a, b string) string {
	reg := g.freshReg()
	g.W.Write("  %s = icmp %s i32 %s, %s\n", reg, pred, a, b)
	return reg
}

func (g *Gen) emitFcmp(pred, a, b string) string {
	reg := g.freshReg()
	g.W.Write("  %s = fcmp %s double %s, %s\n", reg, pred, a, b)
	return reg
}

// visitAbs implements "|x|": integer form lowers to a call to @abs, floating to
// @llvm.fabs.f64, dispatched straight off the argument's static type.
func (g *Gen) visitAbs(n *rucsem.Node) rucir.Answer {
	saved := g.St.Loc
	g.St.Loc = rucir.LocReg
	ans := g.VisitExpr(n.Children[0])
	g.St.Loc = saved

	val, typ := g.materialize(ans)
	if typ.IsFloating() {
		g.St.Needs.Fabs = true
		reg := g.freshReg()
		g.W.Write("  %s = call double @llvm.fabs.f64(double %s)\n", reg, val)
		return rucir.Reg1(reg, rucsem.Type{Kind: rucsem.Float})
	}
	g.St.Needs.Abs = true
	reg := g.freshReg()
	g.W.Write("  %s = call i32 @abs(i32 %s)\n", reg, val)
	return rucir.Reg1(reg, rucsem.Type{Kind: rucsem.Int})
}
