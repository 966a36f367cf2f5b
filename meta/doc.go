// Package meta provides uniform property-path access to live objects:
//
//   - MetaObject walks dotted, indexed paths ("order.items[0].name") over
//     any mix of structs, maps, and slices, reading and writing leaf values
//   - ObjectWrapper adapts one object kind to the common access protocol;
//     bean, map, and list wrappers ship with the package and custom ones
//     plug in through ObjectWrapperFactory
//   - ObjectFactory creates intermediate objects so that writes through nil
//     links materialize the missing parts of the path
//
// Reads through a nil link yield nil. Writes through a nil link instantiate
// the link first, unless the value being written is itself nil, in which
// case the write is a no-op.
package meta
