// Package declgen scans Go packages for generic struct declarations and
// their concrete instantiations, and renders the typeref registration code
// that makes them resolvable at runtime:
//
//   - Load parses packages through go/packages and collects every exported
//     generic struct, the fields that reference its type parameters, its
//     embedded generic supertypes, and each concrete instantiation embedded
//     by a plain struct
//   - Render emits a gofmt-formatted Go file with one registered
//     typeref.Decl per generic struct and an init function binding the
//     instantiations
//
// Only instantiations of declarations from the same package are bound;
// cross-package registrations have to be written by hand.
package declgen
