package rucir

// Dim is one dimension of an array: either a compile-time constant size or a register
// reference holding a runtime-computed size.
type Dim struct {
	IsConst bool
	Const   int
	Reg     string // SSA register name, valid when !IsConst.
}

// ConstDim returns a constant Dim of size n.
func ConstDim(n int) Dim {
	return Dim{IsConst: true, Const: n}
}

// RegDim returns a dynamic Dim sized by register reg.
func RegDim(reg string) Dim {
	return Dim{Reg: reg}
}

// ArrayDesc is the per-array runtime shape descriptor. At most one dimension may be dynamic,
// and it must be the outermost one; otherwise Static is true and every Dims entry is constant.
type ArrayDesc struct {
	Static bool
	Dims   []Dim
}

// ArrayRegistry is the associative table keyed by source identifier id, populated at
// declaration time and consulted (never rebuilt) at use time by subscript, allocation and
// initialization emitters. A plain map keyed by id, rather than a sentinel-index convention.
type ArrayRegistry struct {
	descs map[int]*ArrayDesc
}

// NewArrayRegistry returns an empty registry.
func NewArrayRegistry() *ArrayRegistry {
	return &ArrayRegistry{descs: make(map[int]*ArrayDesc)}
}

// Declare records the shape of array identifier id.
func (r *ArrayRegistry) Declare(id int, desc *ArrayDesc) {
	r.descs[id] = desc
}

// Lookup returns the shape of array identifier id, or nil if id was never declared as an array.
func (r *ArrayRegistry) Lookup(id int) *ArrayDesc {
	return r.descs[id]
}
