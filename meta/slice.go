package meta

import (
	"fmt"
	"reflect"

	"metareflect/property"
)

// sliceWrapper serves slices and arrays. Elements are addressed purely by
// position ("[2]"); named properties are rejected. Growing the collection
// with Add requires the slice to be reachable through a pointer.
type sliceWrapper struct {
	baseWrapper
	value reflect.Value
}

func (w *sliceWrapper) Get(tok property.Tokenizer) (reflect.Value, error) {
	if tok.Name() != "" || !tok.HasIndex() {
		return reflect.Value{}, w.notAProperty(tok.IndexedName())
	}

	return w.collectionValue(tok, w.value)
}

func (w *sliceWrapper) Set(tok property.Tokenizer, value reflect.Value) error {
	if tok.Name() != "" || !tok.HasIndex() {
		return w.notAProperty(tok.IndexedName())
	}

	return w.setCollectionValue(tok, w.value, value)
}

func (w *sliceWrapper) FindProperty(string, bool) string { return "" }

func (w *sliceWrapper) GetterNames() []string { return nil }

func (w *sliceWrapper) SetterNames() []string { return nil }

func (w *sliceWrapper) GetterType(name string) (reflect.Type, error) {
	tok := property.NewTokenizer(name)
	if tok.HasNext() {
		next, err := w.meta.metaObjectForToken(tok)
		if err != nil {
			return nil, err
		}

		if next.IsNull() {
			return w.value.Type().Elem(), nil
		}

		return next.GetterType(tok.Children())
	}

	if tok.Name() == "" && tok.HasIndex() {
		return w.value.Type().Elem(), nil
	}

	return nil, w.notAProperty(name)
}

func (w *sliceWrapper) SetterType(name string) (reflect.Type, error) {
	return w.GetterType(name)
}

func (w *sliceWrapper) HasGetter(name string) bool {
	tok := property.NewTokenizer(name)
	if tok.Name() != "" || !tok.HasIndex() {
		return false
	}

	if !tok.HasNext() {
		return true
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

func (w *sliceWrapper) HasSetter(name string) bool {
	return w.HasGetter(name)
}

func (w *sliceWrapper) Instantiate(tok property.Tokenizer, factory ObjectFactory) (*MetaObject, error) {
	if tok.Name() != "" || !tok.HasIndex() {
		return nil, w.notAProperty(tok.IndexedName())
	}

	obj, err := factory.Create(w.value.Type().Elem())
	if err != nil {
		return nil, fmt.Errorf("cannot set element %q because it is nil and cannot be instantiated: %w",
			tok.IndexedName(), err)
	}

	if err := w.Set(tok, reflect.ValueOf(obj)); err != nil {
		return nil, err
	}

	return w.meta.metaObjectForToken(tok)
}

func (w *sliceWrapper) IsCollection() bool { return true }

func (w *sliceWrapper) Add(element reflect.Value) error {
	return w.AddAll([]reflect.Value{element})
}

func (w *sliceWrapper) AddAll(elements []reflect.Value) error {
	if w.value.Kind() != reflect.Slice {
		return fmt.Errorf("cannot grow %s", w.value.Type())
	}

	if !w.value.CanSet() {
		return fmt.Errorf("cannot grow %s: slice is not reachable through a pointer", w.value.Type())
	}

	grown := w.value
	for _, e := range elements {
		v, err := assignValue(e, w.value.Type().Elem())
		if err != nil {
			return err
		}

		grown = reflect.Append(grown, v)
	}

	w.value.Set(grown)

	return nil
}

func (w *sliceWrapper) notAProperty(name string) error {
	return fmt.Errorf("list of %s takes only [index] access, not property %q", w.value.Type().Elem(), name)
}
