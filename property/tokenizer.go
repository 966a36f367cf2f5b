package property

import "strings"

// Tokenizer holds one segment of a dotted, optionally bracket-indexed
// property path such as "order[0].item[0].name". It is an immutable value;
// Next returns a fresh Tokenizer for the remaining path.
//
// Malformed input (empty segments, trailing dots, unmatched brackets) is not
// sanitized. Callers must supply well-formed paths; anything else yields
// undefined segment boundaries.
type Tokenizer struct {
	name        string
	indexedName string
	index       string
	children    string
}

// NewTokenizer splits fullName on the first '.' into the current segment and
// the remaining children. Within the segment, "name[index]" is split into
// the bare name and the index; IndexedName keeps the pre-split segment.
func NewTokenizer(fullName string) Tokenizer {
	var t Tokenizer

	if delim := strings.IndexByte(fullName, '.'); delim > -1 {
		t.name = fullName[:delim]
		t.children = fullName[delim+1:]
	} else {
		t.name = fullName
	}

	t.indexedName = t.name
	if delim := strings.IndexByte(t.name, '['); delim > -1 {
		t.index = t.name[delim+1 : len(t.name)-1]
		t.name = t.name[:delim]
	}

	return t
}

// Name returns the bare property name of this segment, without any index.
func (t Tokenizer) Name() string { return t.name }

// IndexedName returns the segment as written, including a bracket index.
func (t Tokenizer) IndexedName() string { return t.indexedName }

// Index returns the bracket index of this segment: a list position for
// "items[2]" or a map key for "params[driver]". Empty when absent.
func (t Tokenizer) Index() string { return t.index }

// HasIndex reports whether this segment carries a bracket index.
func (t Tokenizer) HasIndex() bool { return t.indexedName != t.name }

// Children returns the remaining path after this segment, or "" on the
// terminal segment.
func (t Tokenizer) Children() string { return t.children }

// HasNext reports whether more segments follow this one.
func (t Tokenizer) HasNext() bool { return t.children != "" }

// Next returns the tokenizer for the remaining path. Calling Next on the
// terminal segment yields a tokenizer for the empty path.
func (t Tokenizer) Next() Tokenizer { return NewTokenizer(t.children) }
