package rucsem

// Ident is a single entry in the identifier pool: a declared name together with its semantic
// type, locality and (for enum-style constants) display value.
type Ident struct {
	ID      int
	Name    string
	Typ     Type
	Local   bool
	Display string // non-empty for enum field literals (the "display value" field).
}

// IdentPool holds every identifier known to the translation unit, indexed by id. Builtin
// functions occupy ids below BeginUserFunc; user struct types occupy ids at or above
// BeginUserType. Both boundaries are supplied by the front end and merely carried here.
type IdentPool struct {
	idents        []*Ident
	BeginUserType int
	BeginUserFunc int
	Main          *Ident
}

// NewIdentPool returns an empty pool with the given builtin-range boundaries.
func NewIdentPool(beginUserType, beginUserFunc int) *IdentPool {
	return &IdentPool{
		idents:        make([]*Ident, 0, 32),
		BeginUserType: beginUserType,
		BeginUserFunc: beginUserFunc,
	}
}

// Declare appends id to the pool and returns it. The caller assigns id.ID before calling.
func (p *IdentPool) Declare(id *Ident) *Ident {
	p.idents = append(p.idents, id)
	return id
}

// Get returns the identifier with the given id, or nil if out of range.
func (p *IdentPool) Get(id int) *Ident {
	if id < 0 || id >= len(p.idents) {
		return nil
	}
	return p.idents[id]
}

// GetType returns the declared type of identifier id.
func (p *IdentPool) GetType(id int) Type {
	if e := p.Get(id); e != nil {
		return e.Typ
	}
	return Type{}
}

// IsLocal reports whether identifier id was declared in a local (non-global) scope.
func (p *IdentPool) IsLocal(id int) bool {
	if e := p.Get(id); e != nil {
		return e.Local
	}
	return false
}

// GetSpelling returns the source-level name of identifier id.
func (p *IdentPool) GetSpelling(id int) string {
	if e := p.Get(id); e != nil {
		return e.Name
	}
	return ""
}

// GetDisplay returns the enum-field display literal of identifier id, if any.
func (p *IdentPool) GetDisplay(id int) string {
	if e := p.Get(id); e != nil {
		return e.Display
	}
	return ""
}

// IsBuiltinFunc reports whether id names a builtin function (below BeginUserFunc).
func (p *IdentPool) IsBuiltinFunc(id int) bool {
	return id < p.BeginUserFunc
}

// IsUserStruct reports whether id names a user-declared struct type (at or above BeginUserType).
func (p *IdentPool) IsUserStruct(id int) bool {
	return id >= p.BeginUserType
}
