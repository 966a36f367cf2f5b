package declgen

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// loadMode specifies what information to load from packages.
const loadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedImports |
	packages.NeedDeps

// Package holds everything declgen found in one scanned package.
type Package struct {
	Path     string
	Name     string
	Decls    []Decl
	Bindings []Binding
}

// Decl is one exported generic struct declaration.
type Decl struct {
	Name   string
	Params []string
	Fields []Field
	Supers []Super
}

// Field is a field whose type references the declaration's type
// parameters. Fields with fully concrete types need no registration and
// are not collected.
type Field struct {
	Name string
	Type *TypeExpr
}

// TypeExpr is the shape of a parameter-referencing field type: either a
// direct parameter reference or a slice of one. Pointers are looked
// through.
type TypeExpr struct {
	Param string
	Elem  *TypeExpr
}

// Super is an embedded generic supertype of a generic declaration.
type Super struct {
	Decl string
	Args []SuperArg
}

// SuperArg is one type argument of an embedded supertype: a reference to
// the embedding declaration's own parameter, or a concrete type.
type SuperArg struct {
	Param string
	Type  string
}

// Binding is a concrete instantiation of a same-package generic
// declaration, discovered as an embedded field of a plain struct.
type Binding struct {
	Decl string
	Type string
	Args []string
}

// Load scans the packages matched by the given patterns.
func Load(patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{Mode: loadMode}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	result := make([]*Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		result = append(result, scanPackage(pkg))
	}

	return result, nil
}

func scanPackage(pkg *packages.Package) *Package {
	p := &Package{Path: pkg.PkgPath, Name: pkg.Name}
	qual := types.RelativeTo(pkg.Types)
	scope := pkg.Types.Scope()

	declared := make(map[string]bool)
	seenBindings := make(map[string]bool)

	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}

		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}

		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		if named.TypeParams().Len() > 0 {
			d := scanDecl(named, st, qual)
			declared[d.Name] = true
			p.Decls = append(p.Decls, d)

			continue
		}

		p.Bindings = append(p.Bindings, scanBindings(st, pkg.Types, qual, seenBindings)...)
	}

	// instantiations of foreign declarations cannot reference a decl var
	kept := p.Bindings[:0]
	for _, b := range p.Bindings {
		if declared[b.Decl] {
			kept = append(kept, b)
		}
	}
	p.Bindings = kept

	return p
}

func scanDecl(named *types.Named, st *types.Struct, qual types.Qualifier) Decl {
	d := Decl{Name: named.Obj().Name()}

	params := make(map[*types.TypeParam]string)
	tps := named.TypeParams()
	for i := 0; i < tps.Len(); i++ {
		tp := tps.At(i)
		d.Params = append(d.Params, tp.Obj().Name())
		params[tp] = tp.Obj().Name()
	}

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			if s, ok := scanSuper(f.Type(), params, qual); ok {
				d.Supers = append(d.Supers, s)
			}

			continue
		}

		if !f.Exported() {
			continue
		}

		if expr, ok := typeExprOf(f.Type(), params); ok {
			d.Fields = append(d.Fields, Field{Name: f.Name(), Type: expr})
		}
	}

	return d
}

func typeExprOf(t types.Type, params map[*types.TypeParam]string) (*TypeExpr, bool) {
	switch n := t.(type) {
	case *types.TypeParam:
		name, ok := params[n]
		if !ok {
			return nil, false
		}

		return &TypeExpr{Param: name}, true
	case *types.Slice:
		elem, ok := typeExprOf(n.Elem(), params)
		if !ok {
			return nil, false
		}

		return &TypeExpr{Elem: elem}, true
	case *types.Pointer:
		return typeExprOf(n.Elem(), params)
	default:
		return nil, false
	}
}

func scanSuper(t types.Type, params map[*types.TypeParam]string, qual types.Qualifier) (Super, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := t.(*types.Named)
	if !ok || named.TypeArgs().Len() == 0 {
		return Super{}, false
	}

	s := Super{Decl: named.Obj().Name()}
	args := named.TypeArgs()
	for i := 0; i < args.Len(); i++ {
		arg := args.At(i)
		if tp, ok := arg.(*types.TypeParam); ok {
			if name, ok := params[tp]; ok {
				s.Args = append(s.Args, SuperArg{Param: name})
				continue
			}
		}

		s.Args = append(s.Args, SuperArg{Type: types.TypeString(arg, qual)})
	}

	return s, true
}

func scanBindings(st *types.Struct, pkg *types.Package, qual types.Qualifier, seen map[string]bool) []Binding {
	var bindings []Binding

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}

		t := f.Type()
		if p, ok := t.(*types.Pointer); ok {
			t = p.Elem()
		}

		named, ok := t.(*types.Named)
		if !ok || named.TypeArgs().Len() == 0 || named.Obj().Pkg() != pkg {
			continue
		}

		b := Binding{
			Decl: named.Obj().Name(),
			Type: types.TypeString(t, qual),
		}

		args := named.TypeArgs()
		for j := 0; j < args.Len(); j++ {
			b.Args = append(b.Args, types.TypeString(args.At(j), qual))
		}

		if seen[b.Type] {
			continue
		}
		seen[b.Type] = true

		bindings = append(bindings, b)
	}

	return bindings
}
