package rucsem

import "fmt"

// NodeKind differentiates expression and statement node classes. Unlike a flat iota range over every
// grammar production, this sticks to a small expression/statement vocabulary so the generator's
// switch statements read as an exhaustive match over exactly the node kinds that exist.
type NodeKind int

const (
	// Expression classes.
	CAST NodeKind = iota
	IDENTIFIER
	LITERAL
	SUBSCRIPT
	CALL
	MEMBER
	UNARY
	BINARY
	TERNARY
	INITIALIZER
	INLINE

	// Statement classes.
	DECL
	LABEL
	CASE
	DEFAULT
	COMPOUND
	EXPR
	NULL
	IF
	SWITCH
	WHILE
	DO
	FOR
	GOTO
	CONTINUE
	BREAK
	RETURN

	// Top level.
	FUNC_DEF
	GLOBAL_DECL
	UNIT
)

var nodeKindNames = [...]string{
	"CAST", "IDENTIFIER", "LITERAL", "SUBSCRIPT", "CALL", "MEMBER", "UNARY", "BINARY",
	"TERNARY", "INITIALIZER", "INLINE",
	"DECL", "LABEL", "CASE", "DEFAULT", "COMPOUND", "EXPR", "NULL", "IF", "SWITCH", "WHILE",
	"DO", "FOR", "GOTO", "CONTINUE", "BREAK", "RETURN",
	"FUNC_DEF", "GLOBAL_DECL", "UNIT",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return fmt.Sprintf("NodeKind(%d)", k)
	}
	return nodeKindNames[k]
}

// LiteralKind differentiates which of Node's literal fields (IntVal, FloatVal, StrIdx) is
// populated for a LITERAL node.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitNull
)

// Node is a single AST node: a polymorphic tree tagged by Kind, exactly mirroring the role of
// a node shape holding Typ/Line/Pos/Data/Entry/Children but specialised to expression and
// statement vocabulary rather than one flat per-production enum.
type Node struct {
	Kind     NodeKind
	Line     int
	Pos      int
	Children []*Node

	// Populated depending on Kind; exactly one interpretation per node is live at a time.
	Ident    *Ident      // IDENTIFIER, CALL callee, DECL target(s) live on Children instead.
	Lit      LiteralKind // LITERAL
	IntVal   int64       // LITERAL (LitInt)
	FloatVal float64     // LITERAL (LitFloat)
	StrIdx   int         // LITERAL (LitString)
	Op       string      // BINARY/UNARY operator spelling ("+", "-", "&&", "++", "!", ...)
	Member   string       // MEMBER field name
	Arrow    bool         // MEMBER: true for "->", false for "."
	Typ      Type         // CAST target type; also the declared type for DECL/FUNC_DEF
	Compound bool         // Not read for BINARY: compound assignment is spelled in Op ("+=", ...).
	// Compound is used on a DECL declarator to mean "the last Children entry is this
	// declarator's initializer" (a scalar expression, an INITIALIZER element list, or a
	// LitString literal for char-array initialization from a string).
	LabelID int // LABEL/GOTO: source label id (always printed negated)
}

// Statement-node shape conventions used by internal/rucgen, not enforced by this type:
//
//   - COMPOUND: Children are the statements of the block in order (DECL statements declare
//     block-local identifiers inline, grouped the same way other statement classes are).
//   - DECL / GLOBAL_DECL: Children are one "declarator" node per declared name. A declarator has
//     Ident set to the declared identifier and Typ set to its declared type; for an array
//     identifier, Children holds one size-expression per dimension outermost-first (nil entries
//     are legal and mean "infer this dimension from the initializer"), and Compound==true means
//     one further trailing Children entry is the initializer.
//   - FUNC_DEF: Ident is the function identifier (Typ.Params/Typ.Ret carry its signature).
//     Children are one declarator per parameter (Ident set, Typ the parameter type), followed by
//     exactly one COMPOUND node: the function body.
//   - IF: Children[0] condition, Children[1] then-branch, optional Children[2] else-branch.
//   - WHILE: Children[0] condition, Children[1] body.
//   - DO: Children[0] body, Children[1] condition.
//   - FOR: Children[0] init (nilable), Children[1] condition (nilable, absent means "true"),
//     Children[2] increment (nilable), Children[3] body.
//   - GOTO: LabelID is the target source label id. LABEL: LabelID is this label's own source id,
//     Children[0] is the labeled substatement.
//   - RETURN: Children optionally holds one value expression. EXPR: Children[0] is the expression.

// Dump recursively prints n and its children, indented by depth, for debugging generator
// output without needing the (out of scope) front end's own AST dumper.
func (n *Node) Dump(depth int) string {
	if n == nil {
		return fmt.Sprintf("%*c---> NIL\n", depth<<1, ' ')
	}
	s := fmt.Sprintf("%*c%s", depth<<1, ' ', n.Kind)
	switch n.Kind {
	case LITERAL:
		switch n.Lit {
		case LitInt:
			s += fmt.Sprintf(" [%d]", n.IntVal)
		case LitFloat:
			s += fmt.Sprintf(" [%g]", n.FloatVal)
		case LitString:
			s += fmt.Sprintf(" [str#%d]", n.StrIdx)
		}
	case IDENTIFIER:
		if n.Ident != nil {
			s += fmt.Sprintf(" [%s]", n.Ident.Name)
		}
	case BINARY, UNARY:
		s += fmt.Sprintf(" [%q]", n.Op)
	}
	s += "\n"
	for _, c := range n.Children {
		s += c.Dump(depth + 1)
	}
	return s
}

// Unit bundles the whole of the upstream semantic model: the identifier pool (which itself
// carries the type boundaries), the string pool, the AST root, the struct type table and the
// fixed main-function identifier. This is the "syntax" input every emitter is driven against, as a
// concrete Go value so the generator can be driven and tested without the real front end.
type Unit struct {
	Idents  *IdentPool
	Strings *StringPool
	Structs []Type // user struct type table, indexed by Type.TypeID
	Root    *Node  // UNIT node; Children are FUNC_DEF / GLOBAL_DECL nodes in source order
	Main    *Ident
}
