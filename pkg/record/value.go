// Package record provides the data model for template-extracted records:
// a two-shape field value, a record accumulator with merge semantics, and
// a positional record-set comparator used for template regression testing.
package record

import (
	"strconv"
	"strings"
)

// Value is a field value holding either a single string or an ordered list
// of strings. The zero value is an empty single string. Shape transitions
// happen only through Record's merge operations.
type Value struct {
	single string
	list   []string
	isList bool
}

// Single returns a single-string value.
func Single(s string) Value {
	return Value{single: s}
}

// List returns a list value with the given elements in order.
// Duplicates are permitted.
func List(elems ...string) Value {
	return Value{list: elems, isList: true}
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool {
	return v.isList
}

// Strings returns the value's elements: a one-element slice for a single
// value, the underlying elements for a list. The returned slice must not
// be mutated.
func (v Value) Strings() []string {
	if v.isList {
		return v.list
	}
	return []string{v.single}
}

// clone returns a value whose list storage is independent of v's, so
// records never share a backing array.
func (v Value) clone() Value {
	if v.isList {
		v.list = append([]string(nil), v.list...)
	}
	return v
}

// Equal reports structural equality: shapes must match, single values
// compare by string equality, lists elementwise including order.
func (v Value) Equal(other Value) bool {
	if v.isList != other.isList {
		return false
	}
	if !v.isList {
		return v.single == other.single
	}
	if len(v.list) != len(other.list) {
		return false
	}
	for i, e := range v.list {
		if e != other.list[i] {
			return false
		}
	}
	return true
}

// String renders the value for display: a single value as its string, a
// list as a bracketed listing of its quoted elements.
func (v Value) String() string {
	if !v.isList {
		return v.single
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range v.list {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(e))
	}
	b.WriteByte(']')
	return b.String()
}
