package typeref

import (
	"reflect"
	"sync"
)

// MethodDecl is the declared signature of one method on a generic
// declaration. Return and parameter types may reference the declaration's
// variables.
type MethodDecl struct {
	Returns Type
	Params  []Type
}

// Decl is a registered generic declaration: its type parameters, declared
// generic supertypes, and per-member declared types. Member names are Go
// member names ("Items", "GetItems"), not property names.
type Decl struct {
	Name    string
	params  []*Variable
	supers  []Type
	fields  map[string]Type
	methods map[string]*MethodDecl
}

// NewDecl creates a declaration with the given type parameter names.
func NewDecl(name string, params ...string) *Decl {
	d := &Decl{
		Name:    name,
		fields:  make(map[string]Type),
		methods: make(map[string]*MethodDecl),
	}
	for _, p := range params {
		d.params = append(d.params, &Variable{Name: p, Owner: d})
	}

	return d
}

// Param returns the declared type parameter with the given name, or nil.
func (d *Decl) Param(name string) *Variable {
	for _, p := range d.params {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// Params returns the declared type parameters in declaration order.
func (d *Decl) Params() []*Variable {
	return d.params
}

// Bound sets the upper bounds of a declared type parameter.
func (d *Decl) Bound(param string, bounds ...Type) *Decl {
	if p := d.Param(param); p != nil {
		p.Bounds = bounds
	}

	return d
}

// Extends records a declared generic supertype. The supertype's arguments
// may reference this declaration's own variables.
func (d *Decl) Extends(super Type) *Decl {
	d.supers = append(d.supers, super)
	return d
}

// Field records the declared type of a field.
func (d *Decl) Field(name string, t Type) *Decl {
	d.fields[name] = t
	return d
}

// Method records the declared signature of a method.
func (d *Decl) Method(name string, returns Type, params ...Type) *Decl {
	d.methods[name] = &MethodDecl{Returns: returns, Params: params}
	return d
}

// FieldDecl returns the declared type of a field, if registered.
func (d *Decl) FieldDecl(name string) (Type, bool) {
	t, ok := d.fields[name]
	return t, ok
}

// MethodDecl returns the declared signature of a method, if registered.
func (d *Decl) MethodDecl(name string) (*MethodDecl, bool) {
	m, ok := d.methods[name]
	return m, ok
}

// Supers returns the declared generic supertypes.
func (d *Decl) Supers() []Type {
	return d.supers
}

// descendsFrom reports whether d is other or declares other anywhere in its
// supertype chain.
func (d *Decl) descendsFrom(other *Decl) bool {
	if d == other {
		return true
	}

	for _, s := range d.supers {
		if sd := declOf(s); sd != nil && sd.descendsFrom(other) {
			return true
		}
	}

	return false
}

// declOf returns the declaration a tree node refers to, or nil.
func declOf(t Type) *Decl {
	switch n := t.(type) {
	case *Parameterized:
		return n.Decl
	case *Class:
		if b, ok := BindingFor(n.T); ok {
			return b.Decl
		}

		return nil
	default:
		return nil
	}
}

var (
	instantiations sync.Map // reflect.Type -> *Parameterized
	extraSupers    sync.Map // reflect.Type -> []Type
	extraSupersMu  sync.Mutex
)

// Bind registers the generic view of a concrete runtime type, e.g. that the
// runtime type Parent[string] instantiates declaration Parent with argument
// string. Raw is filled in from t when unset.
func Bind(t reflect.Type, p *Parameterized) {
	if p.Raw == nil {
		p.Raw = t
	}

	instantiations.Store(t, p)
}

// BindSupers registers declared generic supertypes for a runtime type that
// does not embed them, supplementing the embedded-field derivation. Safe for
// concurrent registration; the stored slice is replaced, never mutated, so
// readers holding an earlier snapshot are unaffected.
func BindSupers(t reflect.Type, supers ...Type) {
	extraSupersMu.Lock()
	defer extraSupersMu.Unlock()

	existing, _ := extraSupers.Load(t)
	prev, _ := existing.([]Type)

	next := make([]Type, 0, len(prev)+len(supers))
	next = append(next, prev...)
	next = append(next, supers...)

	extraSupers.Store(t, next)
}

// BindingFor returns the registered instantiation view of a runtime type.
func BindingFor(t reflect.Type) (*Parameterized, bool) {
	v, ok := instantiations.Load(t)
	if !ok {
		return nil, false
	}

	return v.(*Parameterized), true
}

// supersOf lists the declared supertypes of a context node. For a concrete
// class they are derived from its embedded fields, mapped through the
// registry, plus any explicitly bound extras. For a parameterized node they
// are the declaration's own supers, still referencing its variables.
func supersOf(src Type) []Type {
	switch n := src.(type) {
	case *Parameterized:
		return n.Decl.supers
	case *Class:
		return supersOfClass(n.T)
	default:
		return nil
	}
}

func supersOfClass(t reflect.Type) []Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var supers []Type
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}

			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}

			if b, ok := BindingFor(ft); ok {
				supers = append(supers, b)
			} else {
				supers = append(supers, &Class{T: ft})
			}
		}
	}

	if extras, ok := extraSupers.Load(t); ok {
		supers = append(supers, extras.([]Type)...)
	}

	return supers
}
