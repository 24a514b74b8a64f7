package record

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

// Record is one extracted row of named fields. Field names are unique;
// iteration order carries no meaning. Key identifies the record and is
// assigned directly by the parsing engine from fields flagged as
// identifying; it is never derived here and never serialized.
type Record struct {
	fields map[string]Value

	// Key is the engine-assigned record key. Excluded from the wire
	// form in both directions.
	Key string
}

// New creates an empty record.
func New() *Record {
	return &Record{fields: make(map[string]Value)}
}

func (r *Record) ensure() {
	if r.fields == nil {
		r.fields = make(map[string]Value)
	}
}

// Insert writes a single string into the named field, growing it
// monotonically:
//
//   - absent field: becomes Single(value)
//   - existing single: promoted to List([old, value])
//   - existing list: value appended
//
// Note the asymmetry with AppendValue, which overwrites on
// single-over-single instead of promoting. Template compatibility
// depends on both behaviors staying exactly as they are.
func (r *Record) Insert(name, value string) {
	r.ensure()
	old, ok := r.fields[name]
	switch {
	case !ok:
		r.fields[name] = Single(value)
	case old.isList:
		old.list = append(old.list, value)
		r.fields[name] = old
	default:
		r.fields[name] = List(old.single, value)
	}
}

// ShapeConflictError reports an unrecoverable merge: appending a list
// value onto a field currently holding a single value. The caller must
// abort the enclosing record or parse run.
type ShapeConflictError struct {
	Field    string
	Existing Value
	Incoming Value
}

func (e *ShapeConflictError) Error() string {
	return fmt.Sprintf("cannot append list %s to single %q in field %q",
		e.Incoming, e.Existing.single, e.Field)
}

// AppendValue merges a whole value into the named field:
//
//   - absent field: stored as-is
//   - single over single: overwritten, last write wins
//   - list over single: fatal, returns *ShapeConflictError
//   - single over list: pushed onto the list
//   - list over list: concatenated in order
//
// This is deliberately not Insert's promotion policy; see Insert.
func (r *Record) AppendValue(name string, v Value) error {
	r.ensure()
	old, ok := r.fields[name]
	if !ok {
		r.fields[name] = v.clone()
		return nil
	}
	if !old.isList {
		if v.isList {
			return &ShapeConflictError{Field: name, Existing: old, Incoming: v}
		}
		r.fields[name] = v
		return nil
	}
	old.list = append(old.list, v.Strings()...)
	r.fields[name] = old
	return nil
}

// OverwriteFrom replaces every field present in other with a copy of
// other's value, leaving fields absent from other untouched. This is the
// carry-over overlay: a later partial record's fields take precedence
// over an earlier accumulated one. Values are copied, not aliased, so
// mutating either record afterwards never reaches into the other.
func (r *Record) OverwriteFrom(other *Record) {
	r.ensure()
	for k, v := range other.fields {
		r.fields[k] = v.clone()
	}
}

// Remove deletes the named field if present.
func (r *Record) Remove(name string) {
	delete(r.fields, name)
}

// Get returns the field's current value.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Keys iterates over the field names in no particular order. The
// sequence is a live view and is not restartable across mutations.
func (r *Record) Keys() iter.Seq[string] {
	return maps.Keys(r.fields)
}

// All iterates over the fields in no particular order. The sequence is a
// live view and is not restartable across mutations.
func (r *Record) All() iter.Seq2[string, Value] {
	return maps.All(r.fields)
}

// Equal reports whether both records hold the same fields with equal
// values. Key is out-of-band and not compared.
func (r *Record) Equal(other *Record) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for k, v := range r.fields {
		ov, ok := other.fields[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the record, Key included.
func (r *Record) Clone() *Record {
	out := &Record{fields: make(map[string]Value, len(r.fields)), Key: r.Key}
	for k, v := range r.fields {
		out.fields[k] = v.clone()
	}
	return out
}

// LowercaseKeys returns a copy of the record with every field name
// lowercased. Names that collide after lowercasing merge under
// AppendValue's rules, so a single-over-list collision surfaces the same
// shape conflict AppendValue would.
func (r *Record) LowercaseKeys() (*Record, error) {
	out := New()
	out.Key = r.Key
	for k, v := range r.fields {
		if err := out.AppendValue(strings.ToLower(k), v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
