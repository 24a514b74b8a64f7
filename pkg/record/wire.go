package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// The wire form of a record is a flat mapping from field name to value.
// A value's wire shape is polymorphic by arity: a bare string denotes a
// single value, a sequence denotes a list, disambiguated at read time by
// the literal's shape. Key never crosses the serialization boundary in
// either direction.
//
// encoding/json and yaml.v3 both emit map keys in sorted order, which
// gives reproducible output without ordering the in-memory map.

// MarshalJSON encodes the value in its wire shape.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.single)
}

// UnmarshalJSON decodes a wire value, inferring the shape from the
// literal: a JSON string becomes a single value, a JSON array a list.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = Value{list: list, isList: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field value must be a string or list of strings: %w", err)
	}
	*v = Value{single: s}
	return nil
}

// MarshalYAML encodes the value in its wire shape.
func (v Value) MarshalYAML() (any, error) {
	if v.isList {
		if v.list == nil {
			return []string{}, nil
		}
		return v.list, nil
	}
	return v.single, nil
}

// UnmarshalYAML decodes a wire value by node kind: scalar for a single
// value, sequence for a list.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*v = Value{list: list, isList: true}
		return nil
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = Value{single: s}
		return nil
	default:
		return fmt.Errorf("line %d: field value must be a scalar or sequence", node.Line)
	}
}

// MarshalJSON encodes the record as a flat field map, Key excluded.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

// UnmarshalJSON decodes a flat field map. Key is left untouched.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := make(map[string]Value)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

// MarshalYAML encodes the record as a flat field map, Key excluded.
func (r *Record) MarshalYAML() (any, error) {
	if r.fields == nil {
		return map[string]Value{}, nil
	}
	return r.fields, nil
}

// UnmarshalYAML decodes a flat field map. Key is left untouched.
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	fields := make(map[string]Value)
	if err := node.Decode(&fields); err != nil {
		return err
	}
	r.fields = fields
	return nil
}
