package reflector

import (
	"fmt"
	"reflect"
)

// Invoker reads or writes one property slot on a target value.
type Invoker interface {
	// Invoke performs the access. Getters ignore args and return the
	// property value; setters consume exactly one argument and return an
	// invalid value.
	Invoke(target reflect.Value, args ...reflect.Value) (reflect.Value, error)
	// Type is the property type the invoker transports.
	Type() reflect.Type
}

// methodInvoker calls an accessor method. fpath locates the embedded value
// that declares the method when it is shadowed on the outer type.
type methodInvoker struct {
	name  string
	fpath []int
	typ   reflect.Type
}

func (m *methodInvoker) Invoke(target reflect.Value, args ...reflect.Value) (reflect.Value, error) {
	recv, err := fieldAt(target, m.fpath, len(args) > 0)
	if err != nil {
		return reflect.Value{}, err
	}

	if recv.Kind() != reflect.Pointer && recv.CanAddr() {
		recv = recv.Addr()
	}

	fn := recv.MethodByName(m.name)
	if !fn.IsValid() {
		return reflect.Value{}, fmt.Errorf("method %s is not reachable on %s", m.name, target.Type())
	}

	out := fn.Call(args)
	if len(out) == 0 {
		return reflect.Value{}, nil
	}

	return out[0], nil
}

func (m *methodInvoker) Type() reflect.Type { return m.typ }

// getFieldInvoker reads a field directly, for properties without a getter
// method. A nil pointer on the way yields the property type's zero value.
type getFieldInvoker struct {
	fpath []int
	typ   reflect.Type
}

func (g *getFieldInvoker) Invoke(target reflect.Value, _ ...reflect.Value) (reflect.Value, error) {
	v := target
	for _, i := range g.fpath {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Zero(g.typ), nil
			}

			v = v.Elem()
		}

		v = v.Field(i)
	}

	return v, nil
}

func (g *getFieldInvoker) Type() reflect.Type { return g.typ }

// setFieldInvoker writes a field directly, allocating nil embedded pointers
// along the path. The target must be addressable, which in practice means
// the root object is held behind a pointer.
type setFieldInvoker struct {
	fpath []int
	typ   reflect.Type
}

func (s *setFieldInvoker) Invoke(target reflect.Value, args ...reflect.Value) (reflect.Value, error) {
	if len(args) != 1 {
		return reflect.Value{}, fmt.Errorf("setter expects exactly one argument, got %d", len(args))
	}

	v, err := fieldAt(target, s.fpath, true)
	if err != nil {
		return reflect.Value{}, err
	}

	if !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("property field of type %s is not settable on %s", s.typ, target.Type())
	}

	v.Set(args[0])

	return reflect.Value{}, nil
}

func (s *setFieldInvoker) Type() reflect.Type { return s.typ }

// ambiguousInvoker stands in for a property whose accessors could not be
// reconciled. Any invocation reports the conflict.
type ambiguousInvoker struct {
	typ reflect.Type
	err error
}

func (a *ambiguousInvoker) Invoke(reflect.Value, ...reflect.Value) (reflect.Value, error) {
	return reflect.Value{}, a.err
}

func (a *ambiguousInvoker) Type() reflect.Type { return a.typ }

// fieldAt walks an embedded-field index path. With alloc set, nil pointers
// on the path are allocated so the final slot is reachable for writing.
func fieldAt(target reflect.Value, fpath []int, alloc bool) (reflect.Value, error) {
	v := target
	for _, i := range fpath {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("nil embedded pointer on path in %s", target.Type())
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(i)
	}

	return v, nil
}
