package meta

import (
	"fmt"
	"reflect"
	"strconv"

	"metareflect/property"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// ObjectWrapper adapts one kind of object to the property access protocol
// MetaObject walks over. Get and Set consume a single path segment; the
// query methods accept whole dotted paths and recurse through the owning
// MetaObject.
type ObjectWrapper interface {
	Get(tok property.Tokenizer) (reflect.Value, error)
	Set(tok property.Tokenizer, value reflect.Value) error

	FindProperty(name string, useCamelCase bool) string
	GetterNames() []string
	SetterNames() []string
	GetterType(name string) (reflect.Type, error)
	SetterType(name string) (reflect.Type, error)
	HasGetter(name string) bool
	HasSetter(name string) bool

	// Instantiate fills the slot the token names with a fresh value from
	// the factory and returns the MetaObject over the filled slot.
	Instantiate(tok property.Tokenizer, factory ObjectFactory) (*MetaObject, error)

	IsCollection() bool
	Add(element reflect.Value) error
	AddAll(elements []reflect.Value) error
}

// baseWrapper carries the owning MetaObject and the collection indexing
// shared by the built-in wrappers.
type baseWrapper struct {
	meta *MetaObject
}

// collectionValue reads one indexed element out of a map, slice, or array.
// A missing map key yields an invalid value, which reads as nil; a slice
// index out of range is an error.
func (b *baseWrapper) collectionValue(tok property.Tokenizer, coll reflect.Value) (reflect.Value, error) {
	coll, err := derefCollection(tok, coll)
	if err != nil {
		return reflect.Value{}, err
	}

	switch coll.Kind() {
	case reflect.Map:
		key, err := mapKey(coll.Type().Key(), tok.Index())
		if err != nil {
			return reflect.Value{}, err
		}

		return coll.MapIndex(key), nil
	default:
		i, err := sliceIndex(tok, coll)
		if err != nil {
			return reflect.Value{}, err
		}

		return coll.Index(i), nil
	}
}

// setCollectionValue writes one indexed element of a map, slice, or array.
func (b *baseWrapper) setCollectionValue(tok property.Tokenizer, coll, value reflect.Value) error {
	coll, err := derefCollection(tok, coll)
	if err != nil {
		return err
	}

	switch coll.Kind() {
	case reflect.Map:
		key, err := mapKey(coll.Type().Key(), tok.Index())
		if err != nil {
			return err
		}

		v, err := assignValue(value, coll.Type().Elem())
		if err != nil {
			return err
		}

		coll.SetMapIndex(key, v)

		return nil
	default:
		i, err := sliceIndex(tok, coll)
		if err != nil {
			return err
		}

		slot := coll.Index(i)
		if !slot.CanSet() {
			return fmt.Errorf("element %d of property %q is not settable", i, tok.Name())
		}

		v, err := assignValue(value, slot.Type())
		if err != nil {
			return err
		}

		slot.Set(v)

		return nil
	}
}

func derefCollection(tok property.Tokenizer, coll reflect.Value) (reflect.Value, error) {
	for coll.Kind() == reflect.Interface || coll.Kind() == reflect.Pointer {
		if coll.IsNil() {
			return reflect.Value{}, fmt.Errorf("cannot index into nil property %q", tok.Name())
		}

		coll = coll.Elem()
	}

	if !coll.IsValid() {
		return reflect.Value{}, fmt.Errorf("cannot index into nil property %q", tok.Name())
	}

	switch coll.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return coll, nil
	default:
		return reflect.Value{}, fmt.Errorf("property %q of type %s does not take an index", tok.Name(), coll.Type())
	}
}

func sliceIndex(tok property.Tokenizer, coll reflect.Value) (int, error) {
	i, err := strconv.Atoi(tok.Index())
	if err != nil {
		return 0, fmt.Errorf("index %q of property %q is not a number", tok.Index(), tok.Name())
	}

	if i < 0 || i >= coll.Len() {
		return 0, fmt.Errorf("index %d of property %q is out of range for length %d", i, tok.Name(), coll.Len())
	}

	return i, nil
}

// mapKey converts a path segment to a key of the map's key type.
func mapKey(keyType reflect.Type, raw string) (reflect.Value, error) {
	switch {
	case keyType.Kind() == reflect.String:
		return reflect.ValueOf(raw).Convert(keyType), nil
	case keyType == anyType:
		return reflect.ValueOf(raw), nil
	case isIntKind(keyType.Kind()):
		n, err := strconv.Atoi(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("key %q is not valid for map key type %s", raw, keyType)
		}

		return reflect.ValueOf(n).Convert(keyType), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported map key type %s", keyType)
	}
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// assignValue shapes a value for a target slot: exact and assignable types
// pass through, a pointer is dereferenced when the slot wants its element,
// and numeric values convert between numeric types. An invalid value
// becomes the slot's zero value, which is how nil writes land.
func assignValue(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(target), nil
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(target), nil
		}

		v = v.Elem()
	}

	if v.Type().AssignableTo(target) {
		return v, nil
	}

	if v.Kind() == reflect.Pointer && v.Type().Elem() == target {
		return v.Elem(), nil
	}

	if isNumeric(v.Kind()) && isNumeric(target.Kind()) && v.Type().ConvertibleTo(target) {
		return v.Convert(target), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot assign value of type %s to %s", v.Type(), target)
}

func isNumeric(k reflect.Kind) bool {
	return isIntKind(k) || k == reflect.Float32 || k == reflect.Float64
}

// valueInterface unwraps a reflect.Value for callers, folding invalid and
// nil values into a plain nil.
func valueInterface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}

	return v.Interface()
}
