// Package rucgen is the SSA emission engine: the Type Printer, Operator Printer, Instruction
// Emitters, Expression/Statement/Declaration/Module Emitters walking an
// rucsem.Unit and streaming LLVM-12-ish textual IR into an rucio.Writer.
package rucgen

import (
	"strconv"
	"strings"

	"ruc/internal/rucir"
	"ruc/internal/rucsem"
)

// TypePrinter serialises semantic types to IR type syntax It is stateless
// except for the module-wide Needs flags it sets when a printed type requires an epilogue
// declaration (FILE).
type TypePrinter struct {
	needs *rucir.Needs
}

// NewTypePrinter returns a TypePrinter that flags needs as it encounters types requiring them.
func NewTypePrinter(needs *rucir.Needs) *TypePrinter {
	return &TypePrinter{needs: needs}
}

// Print returns the IR type syntax for t. Arrays and pointers decay to "<elem>*" outside of
// aggregate (struct-field/alloca) context; callers that need the full nested array shape for a
// local alloca use PrintArrayAlloc instead.
func (p *TypePrinter) Print(t rucsem.Type) string {
	switch t.Kind {
	case rucsem.Void:
		return "void"
	case rucsem.Bool:
		return "i1"
	case rucsem.Char:
		return "i8"
	case rucsem.Int:
		return "i32"
	case rucsem.Float:
		return "double"
	case rucsem.NullPtr:
		return "i8*"
	case rucsem.Vararg:
		return "..."
	case rucsem.File:
		p.needs.IOFile = true
		return "%struct._IO_FILE"
	case rucsem.Struct:
		return rucir.StructType(t.TypeID)
	case rucsem.Pointer, rucsem.Array:
		return p.Print(t.Deref()) + "*"
	case rucsem.Function:
		sb := strings.Builder{}
		sb.WriteString(p.Print(*t.Ret))
		sb.WriteString(" (")
		for i, param := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Print(param))
		}
		sb.WriteRune(')')
		return sb.String()
	default:
		return "void"
	}
}

// PrintArrayAlloc returns the nested array type syntax "[N1 x [N2 x ... T]]" for a fully
// constant-dimensioned static array allocation rule.
func (p *TypePrinter) PrintArrayAlloc(elem rucsem.Type, dims []int) string {
	if len(dims) == 0 {
		return p.Print(elem)
	}
	return "[" + strconv.Itoa(dims[0]) + " x " + p.PrintArrayAlloc(elem, dims[1:]) + "]"
}

// StructFieldList renders the field type list of a struct declaration, e.g. "{ i32, double }".
func (p *TypePrinter) StructFieldList(fields []rucsem.Field) string {
	sb := strings.Builder{}
	sb.WriteString("{ ")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Print(f.Typ))
	}
	sb.WriteString(" }")
	return sb.String()
}
