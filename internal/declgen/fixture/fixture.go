// Package fixture holds generic types scanned by the declgen tests.
package fixture

type Pair[K comparable, V any] struct {
	Key K
	Val V
}

type Stack[E any] struct {
	Items []E
}

// Versioned exercises embedded generic supertypes: its history inherits
// the element type.
type Versioned[T any] struct {
	Stack[T]
	Current T
}

type Labeled struct {
	Pair[string, int]
	Name string
}

type History struct {
	Stack[float64]
}
