package reflector

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"metareflect/property"
	"metareflect/typeref"
)

// Reflector holds the property metadata of one struct type, digested once at
// construction: accessor methods grouped per property with conflicts
// resolved, direct field access for properties without methods, and a
// case-insensitive name index.
type Reflector struct {
	typ             reflect.Type
	readable        []string
	writable        []string
	getters         map[string]Invoker
	setters         map[string]Invoker
	getTypes        map[string]reflect.Type
	setTypes        map[string]reflect.Type
	getGenerics     map[string]typeref.Type
	caseInsensitive map[string]string
	ctor            func() reflect.Value
}

// accessorCandidate is one discovered accessor method for a property. decl
// is the struct type whose method set produced it, fpath the embedded-field
// path from the root to that struct.
type accessorCandidate struct {
	method string
	fpath  []int
	typ    reflect.Type
	decl   reflect.Type
}

// New digests a type into a Reflector. Pointer types are introspected
// through their element type.
func New(t reflect.Type) *Reflector {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r := &Reflector{
		typ:         t,
		getters:     make(map[string]Invoker),
		setters:     make(map[string]Invoker),
		getTypes:    make(map[string]reflect.Type),
		setTypes:    make(map[string]reflect.Type),
		getGenerics: make(map[string]typeref.Type),
	}

	r.addDefaultConstructor(t)

	if t.Kind() == reflect.Struct {
		getters, setters := collectAccessorCandidates(t)
		r.resolveGetterConflicts(getters)
		r.resolveSetterConflicts(setters)
		r.addFields(t, nil)
	}

	r.readable = make([]string, 0, len(r.getters))
	for name := range r.getters {
		r.readable = append(r.readable, name)
	}
	slices.Sort(r.readable)

	r.writable = make([]string, 0, len(r.setters))
	for name := range r.setters {
		r.writable = append(r.writable, name)
	}
	slices.Sort(r.writable)

	r.caseInsensitive = make(map[string]string, len(r.readable)+len(r.writable))
	for _, name := range r.writable {
		r.caseInsensitive[strings.ToUpper(name)] = name
	}
	for _, name := range r.readable {
		r.caseInsensitive[strings.ToUpper(name)] = name
	}

	return r
}

func (r *Reflector) addDefaultConstructor(t reflect.Type) {
	switch t.Kind() {
	case reflect.Struct:
		r.ctor = func() reflect.Value { return reflect.New(t) }
	case reflect.Map:
		r.ctor = func() reflect.Value { return reflect.MakeMap(t) }
	case reflect.Slice:
		r.ctor = func() reflect.Value { return reflect.MakeSlice(t, 0, 0) }
	}
}

// collectAccessorCandidates gathers getter and setter methods per property
// from the type's method set and the method sets of its embedded structs.
// Signature dedup keeps the shallowest declaration of each method.
func collectAccessorCandidates(t reflect.Type) (getters, setters map[string][]accessorCandidate) {
	getters = make(map[string][]accessorCandidate)
	setters = make(map[string][]accessorCandidate)
	seen := make(map[string]bool)

	var walk func(t reflect.Type, fpath []int)
	walk = func(t reflect.Type, fpath []int) {
		pt := reflect.PointerTo(t)
		for i := 0; i < pt.NumMethod(); i++ {
			m := pt.Method(i)
			sig := methodSignature(m)
			if seen[sig] {
				continue
			}
			seen[sig] = true

			switch {
			case property.IsGetter(m.Name) && m.Type.NumIn() == 1 && m.Type.NumOut() == 1:
				name := property.MethodToProperty(m.Name)
				getters[name] = append(getters[name], accessorCandidate{
					method: m.Name,
					fpath:  slices.Clone(fpath),
					typ:    m.Type.Out(0),
					decl:   t,
				})
			case property.IsSetter(m.Name) && m.Type.NumIn() == 2 && m.Type.NumOut() == 0:
				name := property.MethodToProperty(m.Name)
				setters[name] = append(setters[name], accessorCandidate{
					method: m.Name,
					fpath:  slices.Clone(fpath),
					typ:    m.Type.In(1),
					decl:   t,
				})
			}
		}

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}

			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}

			if ft.Kind() == reflect.Struct {
				walk(ft, append(slices.Clone(fpath), i))
			}
		}
	}

	walk(t, nil)

	return getters, setters
}

// methodSignature renders a method as returnType#name:paramTypes, the key
// used to recognize the same method re-promoted from an embedded struct.
func methodSignature(m reflect.Method) string {
	var b strings.Builder
	if m.Type.NumOut() > 0 {
		b.WriteString(m.Type.Out(0).String())
	}

	b.WriteByte('#')
	b.WriteString(m.Name)

	for i := 1; i < m.Type.NumIn(); i++ {
		if i == 1 {
			b.WriteByte(':')
		} else {
			b.WriteByte(',')
		}

		b.WriteString(m.Type.In(i).String())
	}

	return b.String()
}

// resolveGetterConflicts elects one getter per property. Identical types
// conflict unless boolean, where the Is-form wins. Otherwise the candidate
// with the more specific type wins, and unrelated types conflict.
func (r *Reflector) resolveGetterConflicts(cands map[string][]accessorCandidate) {
	for name, list := range cands {
		winner := list[0]
		ambiguous := false

		for _, c := range list[1:] {
			switch {
			case c.typ == winner.typ:
				if c.typ.Kind() != reflect.Bool {
					ambiguous = true
				} else if strings.HasPrefix(c.method, "Is") {
					winner = c
				}
			case assignable(c.typ, winner.typ):
				// the current winner carries the narrower type, keep it
			case assignable(winner.typ, c.typ):
				winner = c
			default:
				ambiguous = true
			}
		}

		if ambiguous {
			r.getters[name] = &ambiguousInvoker{
				typ: winner.typ,
				err: fmt.Errorf("illegal overloaded getters with ambiguous types for property %q in %s", name, r.typ),
			}
			r.getTypes[name] = winner.typ

			continue
		}

		r.getters[name] = &methodInvoker{name: winner.method, fpath: winner.fpath, typ: winner.typ}
		r.getTypes[name] = winner.typ

		if g, ok := genericReturnType(r.typ, winner.decl, winner.method); ok {
			r.getGenerics[name] = g
			r.getTypes[name] = typeref.ReflectType(g)
		}
	}
}

// resolveSetterConflicts elects one setter per property. A setter whose
// parameter matches the resolved getter type wins outright; otherwise the
// candidates narrow each other down, and unrelated parameter types conflict.
func (r *Reflector) resolveSetterConflicts(cands map[string][]accessorCandidate) {
	for name, list := range cands {
		getterType, hasGetter := r.getTypes[name]
		_, getterAmbiguous := r.getters[name].(*ambiguousInvoker)

		var match *accessorCandidate
		var ambErr error

		for i := range list {
			c := &list[i]
			if hasGetter && !getterAmbiguous && c.typ == getterType {
				match = c
				break
			}

			if ambErr == nil {
				match, ambErr = pickBetterSetter(match, c, name, r.typ)
			}
		}

		if match == nil {
			r.setters[name] = &ambiguousInvoker{typ: list[0].typ, err: ambErr}
			r.setTypes[name] = list[0].typ

			continue
		}

		r.setters[name] = &methodInvoker{name: match.method, fpath: match.fpath, typ: match.typ}
		r.setTypes[name] = match.typ

		if g, ok := genericParamType(r.typ, match.decl, match.method); ok {
			r.setTypes[name] = typeref.ReflectType(g)
		}
	}
}

func pickBetterSetter(a, b *accessorCandidate, prop string, owner reflect.Type) (*accessorCandidate, error) {
	if a == nil {
		return b, nil
	}

	switch {
	case assignable(a.typ, b.typ):
		return b, nil
	case assignable(b.typ, a.typ):
		return a, nil
	}

	return nil, fmt.Errorf("ambiguous setters defined for property %q in %s with types %s and %s",
		prop, owner, a.typ, b.typ)
}

// addFields backfills direct field access for properties that have no
// accessor method. Fields of the type itself are claimed before descending
// into embedded structs, so shallower declarations win.
func (r *Reflector) addFields(t reflect.Type, fpath []int) {
	var embedded [][]int

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(slices.Clone(fpath), i)

		if f.Anonymous {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}

			if ft.Kind() == reflect.Struct {
				embedded = append(embedded, path)
				continue
			}
		}

		if !f.IsExported() {
			continue
		}

		name := property.FieldToProperty(f.Name)

		if _, ok := r.setters[name]; !ok {
			r.setters[name] = &setFieldInvoker{fpath: path, typ: f.Type}
			r.setTypes[name] = f.Type

			if g, ok := genericFieldType(r.typ, t, f.Name); ok {
				r.setTypes[name] = typeref.ReflectType(g)
			}
		}

		if _, ok := r.getters[name]; !ok {
			r.getters[name] = &getFieldInvoker{fpath: path, typ: f.Type}
			r.getTypes[name] = f.Type

			if g, ok := genericFieldType(r.typ, t, f.Name); ok {
				r.getGenerics[name] = g
				r.getTypes[name] = typeref.ReflectType(g)
			}
		}
	}

	for _, path := range embedded {
		ft := t.Field(path[len(path)-1]).Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		r.addFields(ft, path)
	}
}

// assignable reports whether a value of type sub can serve where super is
// declared: identical types, or sub implementing a super interface.
func assignable(super, sub reflect.Type) bool {
	if super == sub {
		return true
	}

	if super.Kind() == reflect.Interface {
		return sub.Implements(super) || reflect.PointerTo(sub).Implements(super)
	}

	return false
}

// Type is the introspected type, with any pointer indirection removed.
func (r *Reflector) Type() reflect.Type { return r.typ }

// HasDefaultConstructor reports whether NewInstance can produce a fresh
// value of the type.
func (r *Reflector) HasDefaultConstructor() bool { return r.ctor != nil }

// NewInstance creates a fresh value: a pointer to a zero struct, an empty
// map, or an empty slice.
func (r *Reflector) NewInstance() (reflect.Value, error) {
	if r.ctor == nil {
		return reflect.Value{}, fmt.Errorf("no default constructor for %s", r.typ)
	}

	return r.ctor(), nil
}

// HasGetter reports whether the property is readable.
func (r *Reflector) HasGetter(name string) bool {
	_, ok := r.getters[name]
	return ok
}

// HasSetter reports whether the property is writable.
func (r *Reflector) HasSetter(name string) bool {
	_, ok := r.setters[name]
	return ok
}

// GetInvoker returns the read handle for a property.
func (r *Reflector) GetInvoker(name string) (Invoker, error) {
	inv, ok := r.getters[name]
	if !ok {
		return nil, r.noGetter(name)
	}

	return inv, nil
}

// SetInvoker returns the write handle for a property.
func (r *Reflector) SetInvoker(name string) (Invoker, error) {
	inv, ok := r.setters[name]
	if !ok {
		return nil, r.noSetter(name)
	}

	return inv, nil
}

// GetterType returns the type a property read produces.
func (r *Reflector) GetterType(name string) (reflect.Type, error) {
	t, ok := r.getTypes[name]
	if !ok {
		return nil, r.noGetter(name)
	}

	return t, nil
}

// SetterType returns the type a property write expects.
func (r *Reflector) SetterType(name string) (reflect.Type, error) {
	t, ok := r.setTypes[name]
	if !ok {
		return nil, r.noSetter(name)
	}

	return t, nil
}

func (r *Reflector) noGetter(name string) error {
	if s, ok := property.Nearest(name, r.readable); ok {
		return fmt.Errorf("there is no getter for property named %q in %s (did you mean %q?)", name, r.typ, s)
	}

	return fmt.Errorf("there is no getter for property named %q in %s", name, r.typ)
}

func (r *Reflector) noSetter(name string) error {
	if s, ok := property.Nearest(name, r.writable); ok {
		return fmt.Errorf("there is no setter for property named %q in %s (did you mean %q?)", name, r.typ, s)
	}

	return fmt.Errorf("there is no setter for property named %q in %s", name, r.typ)
}

// GetterGenericType returns the declared-type tree of a property read, when
// the declaring type is registered with the typeref registry.
func (r *Reflector) GetterGenericType(name string) (typeref.Type, bool) {
	g, ok := r.getGenerics[name]
	return g, ok
}

// GetterNames lists the readable properties in sorted order.
func (r *Reflector) GetterNames() []string { return r.readable }

// SetterNames lists the writable properties in sorted order.
func (r *Reflector) SetterNames() []string { return r.writable }

// FindPropertyName maps a name of any casing to the canonical property
// name, or returns the empty string.
func (r *Reflector) FindPropertyName(name string) string {
	return r.caseInsensitive[strings.ToUpper(name)]
}

// declWith locates the registered generic declaration that carries the
// given member, searching the type itself and its embedded structs.
func declWith(t reflect.Type, member string, isField bool) *typeref.Decl {
	if b, ok := typeref.BindingFor(t); ok {
		if isField {
			if _, ok := b.Decl.FieldDecl(member); ok {
				return b.Decl
			}
		} else if _, ok := b.Decl.MethodDecl(member); ok {
			return b.Decl
		}
	}

	if t.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if d := declWith(ft, member, isField); d != nil {
			return d
		}
	}

	return nil
}

func genericReturnType(root, declaring reflect.Type, method string) (typeref.Type, bool) {
	d := declWith(declaring, method, false)
	if d == nil {
		return nil, false
	}

	g, err := typeref.ResolveReturnType(d, method, &typeref.Class{T: root})
	if err != nil || g == nil {
		return nil, false
	}

	return g, true
}

func genericParamType(root, declaring reflect.Type, method string) (typeref.Type, bool) {
	d := declWith(declaring, method, false)
	if d == nil {
		return nil, false
	}

	params, err := typeref.ResolveParamTypes(d, method, &typeref.Class{T: root})
	if err != nil || len(params) != 1 || params[0] == nil {
		return nil, false
	}

	return params[0], true
}

func genericFieldType(root, declaring reflect.Type, field string) (typeref.Type, bool) {
	d := declWith(declaring, field, true)
	if d == nil {
		return nil, false
	}

	g, err := typeref.ResolveFieldType(d, field, &typeref.Class{T: root})
	if err != nil || g == nil {
		return nil, false
	}

	return g, true
}
