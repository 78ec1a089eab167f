// Package rucsem provides the semantic model consumed by the code generator: the type pool,
// identifier pool, string pool and the AST produced by the (out of scope) front end. It realises
// the read-only "syntax" contract that the generator is built against.
package rucsem

import "fmt"

// Kind differentiates the classes of semantic type known to the generator.
type Kind int

const (
	Void Kind = iota
	Bool
	Char
	Int
	Float
	NullPtr
	Pointer
	Array
	Struct
	Function
	File
	Vararg
)

var kindNames = [...]string{
	"void", "bool", "char", "int", "float", "null_ptr",
	"pointer", "array", "struct", "function", "file", "vararg",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// Field is a single named member of a Struct type.
type Field struct {
	Name string
	Typ  Type
}

// Type is a semantic type handle. Pointer and Array carry Elem; Struct carries Fields;
// Function carries Params and Ret. TypeID names the declared struct for %struct_opt.<id> printing.
type Type struct {
	Kind   Kind
	Elem   *Type
	Fields []Field
	Params []Type
	Ret    *Type
	TypeID int // for Struct: index into the struct type table.
}

// IsInteger reports whether t participates in integer arithmetic (bool/char/int all promote to i32 math).
func (t Type) IsInteger() bool {
	return t.Kind == Bool || t.Kind == Char || t.Kind == Int
}

// IsFloating reports whether t is the floating-point type.
func (t Type) IsFloating() bool {
	return t.Kind == Float
}

// IsPointer reports whether t is a pointer (including decayed array) type.
func (t Type) IsPointer() bool {
	return t.Kind == Pointer || t.Kind == Array
}

// IsNullPtr reports whether t is the type of the null-pointer literal.
func (t Type) IsNullPtr() bool {
	return t.Kind == NullPtr
}

// IsStruct reports whether t is a struct type.
func (t Type) IsStruct() bool {
	return t.Kind == Struct
}

// IsVoid reports whether t is void.
func (t Type) IsVoid() bool {
	return t.Kind == Void
}

// IsFile reports whether t is the FILE type.
func (t Type) IsFile() bool {
	return t.Kind == File
}

// Deref returns the pointee/element type of a Pointer or Array type, panicking otherwise;
// callers must check IsPointer first.
func (t Type) Deref() Type {
	if t.Elem == nil {
		panic(fmt.Sprintf("rucsem: Deref of non-pointer type %s", t.Kind))
	}
	return *t.Elem
}

// PointerTo returns the Pointer type with element t.
func PointerTo(t Type) Type {
	cp := t
	return Type{Kind: Pointer, Elem: &cp}
}

// ArrayOf returns the Array type with element t (dimension sizes live in the array registry,
// not on the type itself, matching the array-descriptor split used at declaration time).
func ArrayOf(t Type) Type {
	cp := t
	return Type{Kind: Array, Elem: &cp}
}
