package meta

import (
	"fmt"
	"reflect"
)

// ObjectFactory creates intermediate values while a write materializes the
// missing parts of a property path.
type ObjectFactory interface {
	// Create produces a fresh value of the given type.
	Create(t reflect.Type) (any, error)
	// IsCollection reports whether values of the type take positional
	// elements.
	IsCollection(t reflect.Type) bool
}

// DefaultObjectFactory creates empty maps, empty slices, and pointers to
// zero structs. The empty interface materializes as map[string]any, the
// usual shape of freeform path data.
type DefaultObjectFactory struct{}

func (DefaultObjectFactory) Create(t reflect.Type) (any, error) {
	switch {
	case t == anyType:
		return map[string]any{}, nil
	case t.Kind() == reflect.Map:
		return reflect.MakeMap(t).Interface(), nil
	case t.Kind() == reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface(), nil
	case t.Kind() == reflect.Struct:
		return reflect.New(t).Interface(), nil
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()).Interface(), nil
	}

	return nil, fmt.Errorf("cannot instantiate %s", t)
}

func (DefaultObjectFactory) IsCollection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// ObjectWrapperFactory supplies custom wrappers for objects the built-in
// bean, map, and list wrappers should not handle.
type ObjectWrapperFactory interface {
	HasWrapperFor(object any) bool
	WrapperFor(meta *MetaObject, object any) ObjectWrapper
}

// DefaultWrapperFactory wraps nothing, leaving every object to the
// built-in wrappers.
type DefaultWrapperFactory struct{}

func (DefaultWrapperFactory) HasWrapperFor(any) bool { return false }

func (DefaultWrapperFactory) WrapperFor(*MetaObject, any) ObjectWrapper { return nil }
