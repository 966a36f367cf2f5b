package meta

import (
	"fmt"
	"reflect"
	"slices"

	"metareflect/property"
)

// mapWrapper serves map objects, treating keys as property names. Every
// name is writable; reading an absent key yields nil.
type mapWrapper struct {
	baseWrapper
	value reflect.Value
}

func (w *mapWrapper) Get(tok property.Tokenizer) (reflect.Value, error) {
	if tok.HasIndex() {
		coll, err := w.keyValue(tok.Name())
		if err != nil {
			return reflect.Value{}, err
		}

		return w.collectionValue(tok, coll)
	}

	return w.keyValue(tok.Name())
}

// keyValue reads one key, or the map itself for the empty name, which is
// how a bare "[key]" segment addresses the wrapped map.
func (w *mapWrapper) keyValue(name string) (reflect.Value, error) {
	if name == "" {
		return w.value, nil
	}

	key, err := mapKey(w.value.Type().Key(), name)
	if err != nil {
		return reflect.Value{}, err
	}

	return w.value.MapIndex(key), nil
}

func (w *mapWrapper) Set(tok property.Tokenizer, value reflect.Value) error {
	if tok.HasIndex() {
		coll, err := w.keyValue(tok.Name())
		if err != nil {
			return err
		}

		return w.setCollectionValue(tok, coll, value)
	}

	key, err := mapKey(w.value.Type().Key(), tok.Name())
	if err != nil {
		return err
	}

	v, err := assignValue(value, w.value.Type().Elem())
	if err != nil {
		return fmt.Errorf("key %q: %w", tok.Name(), err)
	}

	w.value.SetMapIndex(key, v)

	return nil
}

// FindProperty passes names through unchanged: map keys have no canonical
// casing to normalize to.
func (w *mapWrapper) FindProperty(name string, _ bool) string { return name }

func (w *mapWrapper) GetterNames() []string {
	names := make([]string, 0, w.value.Len())
	for _, k := range w.value.MapKeys() {
		names = append(names, fmt.Sprint(valueInterface(k)))
	}

	slices.Sort(names)

	return names
}

func (w *mapWrapper) SetterNames() []string { return w.GetterNames() }

// GetterType reports the dynamic type of the value under a key, or the
// empty interface for absent keys.
func (w *mapWrapper) GetterType(name string) (reflect.Type, error) {
	tok := property.NewTokenizer(name)
	if tok.HasNext() {
		next, err := w.meta.metaObjectForToken(tok)
		if err != nil || next.IsNull() {
			return anyType, nil
		}

		return next.GetterType(tok.Children())
	}

	v, err := w.keyValue(tok.Name())
	if err != nil {
		return nil, err
	}

	if val := valueInterface(v); val != nil {
		return reflect.TypeOf(val), nil
	}

	return anyType, nil
}

func (w *mapWrapper) SetterType(name string) (reflect.Type, error) {
	tok := property.NewTokenizer(name)
	if tok.HasNext() {
		next, err := w.meta.metaObjectForToken(tok)
		if err != nil || next.IsNull() {
			return anyType, nil
		}

		return next.SetterType(tok.Children())
	}

	return w.value.Type().Elem(), nil
}

func (w *mapWrapper) HasGetter(name string) bool {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		return tok.Name() == "" || w.containsKey(tok.Name())
	}

	if !w.containsKey(tok.Name()) {
		return false
	}

	next, err := w.meta.metaObjectForToken(tok)
	if err != nil {
		return false
	}

	if next.IsNull() {
		return true
	}

	return next.HasGetter(tok.Children())
}

// HasSetter is always true: any key can be written.
func (w *mapWrapper) HasSetter(string) bool { return true }

func (w *mapWrapper) containsKey(name string) bool {
	key, err := mapKey(w.value.Type().Key(), name)
	if err != nil {
		return false
	}

	return w.value.MapIndex(key).IsValid()
}

func (w *mapWrapper) Instantiate(tok property.Tokenizer, factory ObjectFactory) (*MetaObject, error) {
	obj, err := factory.Create(w.value.Type().Elem())
	if err != nil {
		return nil, fmt.Errorf("cannot set value of key %q because it is nil and cannot be instantiated: %w",
			tok.IndexedName(), err)
	}

	if err := w.Set(property.NewTokenizer(tok.Name()), reflect.ValueOf(obj)); err != nil {
		return nil, err
	}

	return w.meta.metaObjectForToken(tok)
}

func (w *mapWrapper) IsCollection() bool { return false }

func (w *mapWrapper) Add(reflect.Value) error {
	return fmt.Errorf("%s is not a collection", w.value.Type())
}

func (w *mapWrapper) AddAll([]reflect.Value) error {
	return fmt.Errorf("%s is not a collection", w.value.Type())
}
