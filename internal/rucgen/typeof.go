package rucgen

import "ruc/internal/rucsem"

// staticType infers the semantic type of expression node n without emitting any IR. The front
// end has already type-checked the program; this simply re-derives the same answer the type
// checker already computed, which the generator needs for ternary result typing before it
// can decide which arm of a branch needs a
// promotion instruction and which doesn't — that decision has to be made before either arm is
// emitted, so it cannot wait for Answer.Typ to come back from VisitExpr.
func (g *Gen) staticType(n *rucsem.Node) rucsem.Type {
	switch n.Kind {
	case rucsem.IDENTIFIER:
		return n.Ident.Typ
	case rucsem.LITERAL:
		switch n.Lit {
		case rucsem.LitFloat:
			return rucsem.Type{Kind: rucsem.Float}
		case rucsem.LitString:
			return rucsem.PointerTo(rucsem.Type{Kind: rucsem.Char})
		case rucsem.LitNull:
			return rucsem.Type{Kind: rucsem.NullPtr}
		default:
			return rucsem.Type{Kind: rucsem.Int}
		}
	case rucsem.CAST:
		return n.Typ
	case rucsem.CALL:
		if n.Ident.Typ.Ret != nil {
			return *n.Ident.Typ.Ret
		}
		return rucsem.Type{Kind: rucsem.Void}
	case rucsem.MEMBER:
		base := g.staticType(n.Children[0])
		if n.Arrow {
			base = base.Deref()
		}
		_, ft := fieldIndex(base, n.Member)
		return ft
	case rucsem.SUBSCRIPT:
		base, _ := flattenSubscript(n)
		return base.Ident.Typ.Deref()
	case rucsem.UNARY:
		switch n.Op {
		case "&":
			return rucsem.PointerTo(g.staticType(n.Children[0]))
		case "*":
			return g.staticType(n.Children[0]).Deref()
		case "!":
			return rucsem.Type{Kind: rucsem.Bool}
		default:
			return g.staticType(n.Children[0])
		}
	case rucsem.BINARY:
		if IsComparison(n.Op) || n.Op == "&&" || n.Op == "||" {
			return rucsem.Type{Kind: rucsem.Bool}
		}
		lt := g.staticType(n.Children[0])
		rt := g.staticType(n.Children[1])
		if lt.IsFloating() || rt.IsFloating() {
			return rucsem.Type{Kind: rucsem.Float}
		}
		return lt
	case rucsem.TERNARY:
		return g.staticType(n.Children[1])
	default:
		return rucsem.Type{Kind: rucsem.Int}
	}
}
