// Package property splits dotted, bracket-indexed property paths into
// segments and maps accessor method names onto property names.
//
// Key types:
//   - Tokenizer: one path segment plus the remaining children, iterable
//     via HasNext/Next
//   - IsGetter/IsSetter/MethodToProperty: accessor naming conventions
package property
