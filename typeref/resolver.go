package typeref

import (
	"fmt"
	"reflect"
)

// ResolveFieldType resolves the declared type of a field of declaring
// against the invocation context src.
func ResolveFieldType(declaring *Decl, field string, src Type) (Type, error) {
	t, ok := declaring.FieldDecl(field)
	if !ok {
		return nil, fmt.Errorf("typeref: no declared field %q on %s", field, declaring.Name)
	}

	return Resolve(t, src, declaring)
}

// ResolveReturnType resolves the declared return type of a method of
// declaring against the invocation context src.
func ResolveReturnType(declaring *Decl, method string, src Type) (Type, error) {
	m, ok := declaring.MethodDecl(method)
	if !ok {
		return nil, fmt.Errorf("typeref: no declared method %q on %s", method, declaring.Name)
	}

	return Resolve(m.Returns, src, declaring)
}

// ResolveParamTypes resolves the declared parameter types of a method of
// declaring against the invocation context src.
func ResolveParamTypes(declaring *Decl, method string, src Type) ([]Type, error) {
	m, ok := declaring.MethodDecl(method)
	if !ok {
		return nil, fmt.Errorf("typeref: no declared method %q on %s", method, declaring.Name)
	}

	result := make([]Type, len(m.Params))
	for i, p := range m.Params {
		r, err := Resolve(p, src, declaring)
		if err != nil {
			return nil, err
		}

		result[i] = r
	}

	return result, nil
}

// Resolve resolves a declared type against the invocation context src,
// where declaring is the declaration that syntactically owns the member the
// type came from. Concrete class nodes pass through unchanged.
func Resolve(t Type, src Type, declaring *Decl) (Type, error) {
	switch n := t.(type) {
	case *Variable:
		return resolveVar(n, src, declaring)
	case *Parameterized:
		return resolveParameterized(n, src, declaring)
	case *Array:
		return resolveArray(n, src, declaring)
	case *Wildcard:
		return resolveWildcard(n, src, declaring)
	default:
		return t, nil
	}
}

func resolveParameterized(p *Parameterized, src Type, declaring *Decl) (Type, error) {
	args := make([]Type, len(p.Args))
	for i, arg := range p.Args {
		r, err := Resolve(arg, src, declaring)
		if err != nil {
			return nil, err
		}

		args[i] = r
	}

	return &Parameterized{Decl: p.Decl, Raw: p.Raw, Args: args}, nil
}

func resolveArray(a *Array, src Type, declaring *Decl) (Type, error) {
	elem, err := Resolve(a.Elem, src, declaring)
	if err != nil {
		return nil, err
	}

	if c, ok := elem.(*Class); ok {
		return &Class{T: reflect.SliceOf(c.T)}, nil
	}

	return &Array{Elem: elem}, nil
}

func resolveWildcard(w *Wildcard, src Type, declaring *Decl) (Type, error) {
	lower, err := resolveBounds(w.Lower, src, declaring)
	if err != nil {
		return nil, err
	}

	upper, err := resolveBounds(w.Upper, src, declaring)
	if err != nil {
		return nil, err
	}

	return &Wildcard{Lower: lower, Upper: upper}, nil
}

func resolveBounds(bounds []Type, src Type, declaring *Decl) ([]Type, error) {
	if len(bounds) == 0 {
		return nil, nil
	}

	result := make([]Type, len(bounds))
	for i, b := range bounds {
		r, err := Resolve(b, src, declaring)
		if err != nil {
			return nil, err
		}

		result[i] = r
	}

	return result, nil
}

// resolveVar walks from the context type up its declared supertype chain
// until reaching the declaring declaration, substituting type arguments at
// each step. When the chain never yields a binding, the variable's first
// declared bound applies, then the universal any type.
func resolveVar(v *Variable, src Type, declaring *Decl) (Type, error) {
	src = normalize(src)

	switch src.(type) {
	case *Class, *Parameterized:
	default:
		return nil, fmt.Errorf("typeref: context must be a class or parameterized type, got %T", src)
	}

	if p, ok := src.(*Parameterized); ok && p.Decl == declaring {
		for i, pv := range declaring.params {
			if pv == v && i < len(p.Args) && p.Args[i] != nil {
				return p.Args[i], nil
			}
		}

		return varFallback(v), nil
	}

	for _, super := range supersOf(src) {
		result, err := scanSuper(v, src, declaring, super)
		if err != nil {
			return nil, err
		}

		if result != nil {
			return result, nil
		}
	}

	return varFallback(v), nil
}

func varFallback(v *Variable) Type {
	if len(v.Bounds) > 0 {
		return v.Bounds[0]
	}

	return &Class{T: anyType}
}

// normalize swaps a class node for its registered instantiation view, so a
// runtime type like Parent[string] participates as a parameterized node
// carrying concrete arguments.
func normalize(src Type) Type {
	if c, ok := src.(*Class); ok {
		if b, ok := BindingFor(c.T); ok {
			return b
		}
	}

	return src
}

func scanSuper(v *Variable, src Type, declaring *Decl, super Type) (Type, error) {
	switch s := super.(type) {
	case *Parameterized:
		if srcParam, ok := src.(*Parameterized); ok {
			s = translateParentVars(srcParam, s)
		}

		if declaring == s.Decl {
			for i, pv := range s.Decl.params {
				if pv == v && i < len(s.Args) && s.Args[i] != nil {
					return s.Args[i], nil
				}
			}
		}

		if s.Decl.descendsFrom(declaring) {
			return resolveVar(v, s, declaring)
		}
	case *Class:
		if d := declOf(s); d != nil && d.descendsFrom(declaring) {
			return resolveVar(v, s, declaring)
		}
	}

	return nil, nil
}

// translateParentVars substitutes the context's own type arguments into a
// declared supertype whose arguments may reference the context
// declaration's variables under different names than the leaf uses.
func translateParentVars(src *Parameterized, parent *Parameterized) *Parameterized {
	srcVars := src.Decl.params
	args := make([]Type, len(parent.Args))
	changed := false

	for i, arg := range parent.Args {
		args[i] = arg

		pv, ok := arg.(*Variable)
		if !ok {
			continue
		}

		for j, sv := range srcVars {
			if sv == pv && j < len(src.Args) {
				args[i] = src.Args[j]
				changed = true
			}
		}
	}

	if !changed {
		return parent
	}

	return &Parameterized{Decl: parent.Decl, Raw: parent.Raw, Args: args}
}
