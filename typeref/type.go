package typeref

import (
	"reflect"
	"strings"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Type is one node of a declared-type tree.
type Type interface {
	Kind() Kind
	String() string
}

// Class is a leaf node wrapping a concrete runtime type.
type Class struct {
	T reflect.Type
}

func (*Class) Kind() Kind { return KindClass }

func (c *Class) String() string { return c.T.String() }

// Parameterized applies type arguments to a generic declaration, e.g.
// Parent[T] applied to string. Raw is the concrete runtime instantiation
// when one exists; arguments may still contain variables while unresolved.
type Parameterized struct {
	Decl *Decl
	Raw  reflect.Type
	Args []Type
}

func (*Parameterized) Kind() Kind { return KindParameterized }

func (p *Parameterized) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		if a == nil {
			args[i] = "?"
			continue
		}

		args[i] = a.String()
	}

	return p.Decl.Name + "[" + strings.Join(args, ", ") + "]"
}

// Variable references a declared type parameter. Identity is pointer
// identity: two nodes denote the same parameter only if they are the same
// *Variable.
type Variable struct {
	Name   string
	Owner  *Decl
	Bounds []Type // declared upper bounds; empty means unbounded
}

func (*Variable) Kind() Kind { return KindVariable }

func (v *Variable) String() string {
	if v.Owner != nil {
		return v.Owner.Name + "." + v.Name
	}

	return v.Name
}

// Wildcard is an unknown type constrained by lower and upper bounds.
type Wildcard struct {
	Lower []Type
	Upper []Type
}

func (*Wildcard) Kind() Kind { return KindWildcard }

func (w *Wildcard) String() string {
	switch {
	case len(w.Lower) > 0:
		return "? super " + w.Lower[0].String()
	case len(w.Upper) > 0:
		return "? extends " + w.Upper[0].String()
	default:
		return "?"
	}
}

// Array is a list of an element type that may itself be generic.
type Array struct {
	Elem Type
}

func (*Array) Kind() Kind { return KindArray }

func (a *Array) String() string { return "[]" + a.Elem.String() }

// Of returns the reflect.Type captured by the type parameter. Unlike
// reflect.TypeOf it works for interface and composite types:
// Of[io.Reader](), Of[map[string][]int]().
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ClassOf returns a Class node for the type parameter.
func ClassOf[T any]() *Class {
	return &Class{T: Of[T]()}
}

// ReflectType collapses a resolved tree to the concrete runtime type it
// denotes: the raw instantiation for a parameterized node, a slice of the
// collapsed element for an array node, and the empty interface for anything
// still unresolved.
func ReflectType(t Type) reflect.Type {
	switch n := t.(type) {
	case *Class:
		return n.T
	case *Parameterized:
		if n.Raw != nil {
			return n.Raw
		}

		return anyType
	case *Array:
		return reflect.SliceOf(ReflectType(n.Elem))
	default:
		return anyType
	}
}
