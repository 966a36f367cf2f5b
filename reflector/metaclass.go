package reflector

import (
	"reflect"
	"strings"

	"metareflect/property"
	"metareflect/typeref"
)

// MetaClass answers property-path queries against a type's metadata alone.
// Paths use dot notation with optional [index] suffixes; an index drills
// into the element type of a slice, array, or map property.
type MetaClass struct {
	factory   Factory
	reflector *Reflector
}

// MetaClassFor builds a MetaClass for a type, sourcing Reflectors from the
// given factory.
func MetaClassFor(t reflect.Type, factory Factory) *MetaClass {
	return &MetaClass{factory: factory, reflector: factory.Find(t)}
}

// Reflector exposes the underlying type metadata.
func (mc *MetaClass) Reflector() *Reflector { return mc.reflector }

// MetaClassForProperty descends into the type of a direct property.
func (mc *MetaClass) MetaClassForProperty(name string) (*MetaClass, error) {
	t, err := mc.reflector.GetterType(name)
	if err != nil {
		return nil, err
	}

	return MetaClassFor(t, mc.factory), nil
}

func (mc *MetaClass) metaClassForToken(tok property.Tokenizer) (*MetaClass, error) {
	t, err := mc.getterTypeForToken(tok)
	if err != nil {
		return nil, err
	}

	return MetaClassFor(t, mc.factory), nil
}

// getterTypeForToken resolves one path segment to a type. An indexed
// segment yields the collection's element type, preferring a registered
// generic view over the runtime element type.
func (mc *MetaClass) getterTypeForToken(tok property.Tokenizer) (reflect.Type, error) {
	if tok.HasIndex() {
		if g, ok := mc.reflector.GetterGenericType(tok.Name()); ok {
			switch n := g.(type) {
			case *typeref.Parameterized:
				if len(n.Args) == 1 && n.Args[0] != nil {
					return typeref.ReflectType(n.Args[0]), nil
				}
			case *typeref.Array:
				return typeref.ReflectType(n.Elem), nil
			}
		}

		t, err := mc.reflector.GetterType(tok.Name())
		if err != nil {
			return nil, err
		}

		switch t.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return t.Elem(), nil
		}

		return t, nil
	}

	return mc.reflector.GetterType(tok.Name())
}

// HasGetter reports whether the whole path is readable on the type.
func (mc *MetaClass) HasGetter(name string) bool {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		return mc.reflector.HasGetter(tok.Name())
	}

	if !mc.reflector.HasGetter(tok.Name()) {
		return false
	}

	next, err := mc.metaClassForToken(tok)
	if err != nil {
		return false
	}

	return next.HasGetter(tok.Children())
}

// HasSetter reports whether the whole path is writable on the type.
func (mc *MetaClass) HasSetter(name string) bool {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		return mc.reflector.HasSetter(tok.Name())
	}

	if !mc.reflector.HasSetter(tok.Name()) {
		return false
	}

	next, err := mc.MetaClassForProperty(tok.Name())
	if err != nil {
		return false
	}

	return next.HasSetter(tok.Children())
}

// GetterType resolves the type produced by reading the path.
func (mc *MetaClass) GetterType(name string) (reflect.Type, error) {
	tok := property.NewTokenizer(name)
	if tok.HasNext() {
		next, err := mc.metaClassForToken(tok)
		if err != nil {
			return nil, err
		}

		return next.GetterType(tok.Children())
	}

	return mc.getterTypeForToken(tok)
}

// SetterType resolves the type expected when writing the path.
func (mc *MetaClass) SetterType(name string) (reflect.Type, error) {
	tok := property.NewTokenizer(name)
	if tok.HasNext() {
		next, err := mc.MetaClassForProperty(tok.Name())
		if err != nil {
			return nil, err
		}

		return next.SetterType(tok.Children())
	}

	return mc.reflector.SetterType(tok.Name())
}

// GetInvoker returns the read handle for a direct property.
func (mc *MetaClass) GetInvoker(name string) (Invoker, error) {
	return mc.reflector.GetInvoker(name)
}

// SetInvoker returns the write handle for a direct property.
func (mc *MetaClass) SetInvoker(name string) (Invoker, error) {
	return mc.reflector.SetInvoker(name)
}

// GetterNames lists the readable direct properties.
func (mc *MetaClass) GetterNames() []string { return mc.reflector.GetterNames() }

// SetterNames lists the writable direct properties.
func (mc *MetaClass) SetterNames() []string { return mc.reflector.SetterNames() }

// HasDefaultConstructor reports whether the type can be instantiated fresh.
func (mc *MetaClass) HasDefaultConstructor() bool {
	return mc.reflector.HasDefaultConstructor()
}

// FindProperty normalizes a loosely cased path to canonical property names,
// segment by segment. With useCamelCase, underscores are stripped first, so
// "user_name" finds "userName". Any segment that fails to resolve aborts the
// walk and yields the empty string, never a partial path.
func (mc *MetaClass) FindProperty(name string, useCamelCase bool) string {
	if useCamelCase {
		name = strings.ReplaceAll(name, "_", "")
	}

	var sb strings.Builder
	if !mc.buildProperty(name, &sb) {
		return ""
	}

	return sb.String()
}

func (mc *MetaClass) buildProperty(name string, sb *strings.Builder) bool {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		prop := mc.reflector.FindPropertyName(name)
		if prop == "" {
			return false
		}

		sb.WriteString(prop)

		return true
	}

	prop := mc.reflector.FindPropertyName(tok.Name())
	if prop == "" {
		return false
	}

	sb.WriteString(prop)
	sb.WriteByte('.')

	next, err := mc.MetaClassForProperty(prop)
	if err != nil {
		return false
	}

	return next.buildProperty(tok.Children(), sb)
}
