// Package typeref models declared member types as an explicit tree and
// resolves generic type variables against a concrete invocation context.
//
// Go's reflect erases the declared type-parameter structure of generic
// types: reflect only ever sees fully instantiated types. To answer
// questions like "what is T of Parent[T] when accessed through Child",
// generic declarations are registered explicitly (typically from an init
// function) and resolution runs as a pure function over the registered
// trees.
//
// Key types:
//   - Type: tagged tree node (Class, Parameterized, Variable, Wildcard, Array)
//   - Decl: a registered generic declaration with params, supertypes, members
//   - Resolve / ResolveFieldType / ResolveReturnType / ResolveParamTypes
//   - Of[T]: compile-time capture of a composite type as a reflect.Type
package typeref
