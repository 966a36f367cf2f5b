package typeref

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind discriminates the variants of the declared-type tree.
type Kind int

const (
	KindClass Kind = iota
	KindParameterized
	KindVariable
	KindWildcard
	KindArray

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
