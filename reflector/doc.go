// Package reflector provides cached property-oriented introspection of Go
// types:
//
//   - Reflector digests a struct type once into property metadata: getter and
//     setter methods, field fallbacks, property types, and a case-insensitive
//     name index
//   - Invoker is the uniform read/write handle a Reflector hands out for one
//     property slot
//   - Factory builds Reflectors and caches them per type, with a switch to
//     turn caching off
//   - MetaClass answers dotted-path property queries against type metadata
//     alone, without any instance
//
// Accessor methods follow the Get/Is/Set naming convention. A property served
// by both a method pair and a field prefers the methods. Embedded structs are
// walked recursively and the shallowest declaration of a property wins.
package reflector
