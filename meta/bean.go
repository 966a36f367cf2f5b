package meta

import (
	"fmt"
	"reflect"

	"metareflect/property"
	"metareflect/reflector"
)

// beanWrapper serves struct objects through their Reflector metadata.
// Writes reach fields through accessor methods or directly, so the wrapped
// value should be held behind a pointer for sets to land.
type beanWrapper struct {
	baseWrapper
	value     reflect.Value
	metaClass *reflector.MetaClass
}

func (w *beanWrapper) Get(tok property.Tokenizer) (reflect.Value, error) {
	if tok.HasIndex() {
		coll, err := w.propertyValue(tok.Name())
		if err != nil {
			return reflect.Value{}, err
		}

		return w.collectionValue(tok, coll)
	}

	return w.propertyValue(tok.Name())
}

func (w *beanWrapper) Set(tok property.Tokenizer, value reflect.Value) error {
	if tok.HasIndex() {
		coll, err := w.propertyValue(tok.Name())
		if err != nil {
			return err
		}

		return w.setCollectionValue(tok, coll, value)
	}

	inv, err := w.metaClass.SetInvoker(tok.Name())
	if err != nil {
		return err
	}

	v, err := assignValue(value, inv.Type())
	if err != nil {
		return fmt.Errorf("property %q: %w", tok.Name(), err)
	}

	_, err = inv.Invoke(w.value, v)

	return err
}

func (w *beanWrapper) propertyValue(name string) (reflect.Value, error) {
	inv, err := w.metaClass.GetInvoker(name)
	if err != nil {
		return reflect.Value{}, err
	}

	return inv.Invoke(w.value)
}

func (w *beanWrapper) FindProperty(name string, useCamelCase bool) string {
	return w.metaClass.FindProperty(name, useCamelCase)
}

func (w *beanWrapper) GetterNames() []string { return w.metaClass.GetterNames() }

func (w *beanWrapper) SetterNames() []string { return w.metaClass.SetterNames() }

// GetterType prefers the runtime type of the value actually present over
// the declared property type, falling back to type metadata across nil
// links.
func (w *beanWrapper) GetterType(name string) (reflect.Type, error) {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		return w.metaClass.GetterType(name)
	}

	next, err := w.meta.metaObjectForToken(tok)
	if err != nil || next.IsNull() {
		return w.metaClass.GetterType(name)
	}

	return next.GetterType(tok.Children())
}

func (w *beanWrapper) SetterType(name string) (reflect.Type, error) {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		return w.metaClass.SetterType(name)
	}

	next, err := w.meta.metaObjectForToken(tok)
	if err != nil || next.IsNull() {
		return w.metaClass.SetterType(name)
	}

	return next.SetterType(tok.Children())
}

func (w *beanWrapper) HasGetter(name string) bool {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		return w.metaClass.HasGetter(name)
	}

	if !w.metaClass.HasGetter(tok.Name()) {
		return false
	}

	next, err := w.meta.metaObjectForToken(tok)
	if err != nil {
		return false
	}

	if next.IsNull() {
		return w.metaClass.HasGetter(name)
	}

	return next.HasGetter(tok.Children())
}

func (w *beanWrapper) HasSetter(name string) bool {
	tok := property.NewTokenizer(name)
	if !tok.HasNext() {
		return w.metaClass.HasSetter(name)
	}

	if !w.metaClass.HasSetter(tok.Name()) {
		return false
	}

	next, err := w.meta.metaObjectForToken(tok)
	if err != nil {
		return false
	}

	if next.IsNull() {
		return w.metaClass.HasSetter(name)
	}

	return next.HasSetter(tok.Children())
}

func (w *beanWrapper) Instantiate(tok property.Tokenizer, factory ObjectFactory) (*MetaObject, error) {
	t, err := w.metaClass.SetterType(tok.Name())
	if err != nil {
		return nil, err
	}

	obj, err := factory.Create(t)
	if err != nil {
		return nil, fmt.Errorf("cannot set value of property %q because it is nil and cannot be instantiated: %w",
			tok.IndexedName(), err)
	}

	if err := w.Set(property.NewTokenizer(tok.Name()), reflect.ValueOf(obj)); err != nil {
		return nil, err
	}

	return w.meta.metaObjectForToken(tok)
}

func (w *beanWrapper) IsCollection() bool { return false }

func (w *beanWrapper) Add(reflect.Value) error {
	return fmt.Errorf("%s is not a collection", w.value.Type())
}

func (w *beanWrapper) AddAll([]reflect.Value) error {
	return fmt.Errorf("%s is not a collection", w.value.Type())
}
