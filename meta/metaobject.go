package meta

import (
	"fmt"
	"reflect"
	"sync"

	"metareflect/property"
	"metareflect/reflector"
)

// MetaObject navigates property paths over a live object graph. It holds
// the wrapper for its root object and spawns child MetaObjects as paths
// descend, preserving addressability so writes reach the original storage.
type MetaObject struct {
	value          reflect.Value
	wrapper        ObjectWrapper
	objectFactory  ObjectFactory
	wrapperFactory ObjectWrapperFactory
	reflectors     reflector.Factory
}

// Null is the sentinel navigation returns when it reaches a nil value.
// Reads on Null yield nil and writes fail.
var Null = &MetaObject{}

// ForObject wraps an object with explicit collaborators. A nil object
// yields Null.
func ForObject(object any, objectFactory ObjectFactory, wrapperFactory ObjectWrapperFactory, reflectors reflector.Factory) *MetaObject {
	if object == nil {
		return Null
	}

	return forValue(reflect.ValueOf(object), objectFactory, wrapperFactory, reflectors)
}

var (
	systemOnce       sync.Once
	systemReflectors *reflector.DefaultFactory
)

func systemReflectorFactory() *reflector.DefaultFactory {
	systemOnce.Do(func() {
		systemReflectors = reflector.NewFactory()
	})

	return systemReflectors
}

// SystemMetaObject wraps an object with the package defaults: the default
// object factory, no custom wrappers, and a process-wide reflector cache.
func SystemMetaObject(object any) *MetaObject {
	return ForObject(object, DefaultObjectFactory{}, DefaultWrapperFactory{}, systemReflectorFactory())
}

func forValue(v reflect.Value, objectFactory ObjectFactory, wrapperFactory ObjectWrapperFactory, reflectors reflector.Factory) *MetaObject {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Null
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return Null
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return Null
		}
	}

	m := &MetaObject{
		value:          v,
		objectFactory:  objectFactory,
		wrapperFactory: wrapperFactory,
		reflectors:     reflectors,
	}

	obj := v.Interface()

	if w, ok := obj.(ObjectWrapper); ok {
		m.wrapper = w
		return m
	}

	if wrapperFactory != nil && wrapperFactory.HasWrapperFor(obj) {
		if w := wrapperFactory.WrapperFor(m, obj); w != nil {
			m.wrapper = w
			return m
		}
	}

	elem := v
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Map:
		m.wrapper = &mapWrapper{baseWrapper{m}, elem}
	case reflect.Slice, reflect.Array:
		m.wrapper = &sliceWrapper{baseWrapper{m}, elem}
	default:
		m.wrapper = &beanWrapper{baseWrapper{m}, v, reflector.MetaClassFor(v.Type(), reflectors)}
	}

	return m
}

// IsNull reports whether this MetaObject stands for a nil value.
func (m *MetaObject) IsNull() bool { return m.wrapper == nil }

// Original returns the wrapped object.
func (m *MetaObject) Original() any {
	if m.IsNull() {
		return nil
	}

	return valueInterface(m.value)
}

// Value returns the wrapped value for reflective callers.
func (m *MetaObject) Value() reflect.Value { return m.value }

// metaFor wraps a child value with this MetaObject's collaborators.
func (m *MetaObject) metaFor(v reflect.Value) *MetaObject {
	if !v.IsValid() {
		return Null
	}

	return forValue(v, m.objectFactory, m.wrapperFactory, m.reflectors)
}

// metaObjectForToken descends one path segment, index included.
func (m *MetaObject) metaObjectForToken(tok property.Tokenizer) (*MetaObject, error) {
	v, err := m.wrapper.Get(tok)
	if err != nil {
		return nil, err
	}

	return m.metaFor(v), nil
}

// MetaObjectForProperty descends a whole path and wraps the value found
// there, yielding Null as soon as the path crosses a nil link.
func (m *MetaObject) MetaObjectForProperty(name string) (*MetaObject, error) {
	if m.IsNull() {
		return Null, nil
	}

	tok := property.NewTokenizer(name)

	next, err := m.metaObjectForToken(tok)
	if err != nil {
		return nil, err
	}

	if !tok.HasNext() || next.IsNull() {
		return next, nil
	}

	return next.MetaObjectForProperty(tok.Children())
}

// GetValue reads the value at a path. Crossing a nil link yields nil; an
// unknown property or a bad index is an error.
func (m *MetaObject) GetValue(name string) (any, error) {
	if m.IsNull() {
		return nil, nil
	}

	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		v, err := m.wrapper.Get(tok)
		if err != nil {
			return nil, err
		}

		return valueInterface(v), nil
	}

	next, err := m.metaObjectForToken(tok)
	if err != nil {
		return nil, err
	}

	if next.IsNull() {
		return nil, nil
	}

	return next.GetValue(tok.Children())
}

// SetValue writes the value at a path. Nil links on the way are
// instantiated through the object factory, except when the value being
// written is nil, which turns the whole write into a no-op.
func (m *MetaObject) SetValue(name string, value any) error {
	if m.IsNull() {
		return fmt.Errorf("cannot set property %q on nil object", name)
	}

	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		var v reflect.Value
		if value != nil {
			v = reflect.ValueOf(value)
		}

		return m.wrapper.Set(tok, v)
	}

	next, err := m.metaObjectForToken(tok)
	if err != nil {
		return err
	}

	if next.IsNull() {
		if value == nil {
			return nil
		}

		next, err = m.wrapper.Instantiate(tok, m.objectFactory)
		if err != nil {
			return err
		}
	}

	return next.SetValue(tok.Children(), value)
}

// FindProperty normalizes a loosely cased path against the wrapped type.
func (m *MetaObject) FindProperty(name string, useCamelCase bool) string {
	if m.IsNull() {
		return ""
	}

	return m.wrapper.FindProperty(name, useCamelCase)
}

// GetterNames lists the readable properties of the root object.
func (m *MetaObject) GetterNames() []string {
	if m.IsNull() {
		return nil
	}

	return m.wrapper.GetterNames()
}

// SetterNames lists the writable properties of the root object.
func (m *MetaObject) SetterNames() []string {
	if m.IsNull() {
		return nil
	}

	return m.wrapper.SetterNames()
}

// GetterType resolves the type a path read produces, preferring the types
// of values actually present.
func (m *MetaObject) GetterType(name string) (reflect.Type, error) {
	if m.IsNull() {
		return nil, fmt.Errorf("cannot resolve property %q on nil object", name)
	}

	return m.wrapper.GetterType(name)
}

// SetterType resolves the type a path write expects.
func (m *MetaObject) SetterType(name string) (reflect.Type, error) {
	if m.IsNull() {
		return nil, fmt.Errorf("cannot resolve property %q on nil object", name)
	}

	return m.wrapper.SetterType(name)
}

// HasGetter reports whether the path is readable.
func (m *MetaObject) HasGetter(name string) bool {
	return !m.IsNull() && m.wrapper.HasGetter(name)
}

// HasSetter reports whether the path is writable.
func (m *MetaObject) HasSetter(name string) bool {
	return !m.IsNull() && m.wrapper.HasSetter(name)
}

// IsCollection reports whether the root object takes positional elements.
func (m *MetaObject) IsCollection() bool {
	return !m.IsNull() && m.wrapper.IsCollection()
}

// Add appends one element to a wrapped collection.
func (m *MetaObject) Add(element any) error {
	if m.IsNull() {
		return fmt.Errorf("cannot add to nil object")
	}

	return m.wrapper.Add(reflect.ValueOf(element))
}

// AddAll appends elements to a wrapped collection.
func (m *MetaObject) AddAll(elements []any) error {
	if m.IsNull() {
		return fmt.Errorf("cannot add to nil object")
	}

	values := make([]reflect.Value, len(elements))
	for i, e := range elements {
		values[i] = reflect.ValueOf(e)
	}

	return m.wrapper.AddAll(values)
}

// ObjectFactory exposes the factory used to materialize nil links.
func (m *MetaObject) ObjectFactory() ObjectFactory { return m.objectFactory }

// WrapperFactory exposes the custom wrapper source.
func (m *MetaObject) WrapperFactory() ObjectWrapperFactory { return m.wrapperFactory }

// ReflectorFactory exposes the reflector cache in use.
func (m *MetaObject) ReflectorFactory() reflector.Factory { return m.reflectors }
