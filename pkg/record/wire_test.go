package record

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRecordJSONRoundTrip(t *testing.T) {
	r := New()
	if err := r.AppendValue("x", List("p", "q")); err != nil {
		t.Fatal(err)
	}
	r.Insert("y", "z")
	r.Key = "p"

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Flat map, value shape polymorphic by arity, no key field.
	want := `{"x":["p","q"],"y":"z"}`
	if string(data) != want {
		t.Errorf("wire form = %s, want %s", data, want)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !back.Equal(r) {
		t.Error("round trip changed fields")
	}
	if back.Key != "" {
		t.Errorf("record key survived the wire: %q", back.Key)
	}

	v, _ := back.Get("x")
	if !v.IsList() || !v.Equal(List("p", "q")) {
		t.Errorf("list shape lost: %s", v)
	}
	v, _ = back.Get("y")
	if v.IsList() || !v.Equal(Single("z")) {
		t.Errorf("single shape lost: %s", v)
	}
}

func TestRecordYAMLRoundTrip(t *testing.T) {
	r := New()
	if err := r.AppendValue("x", List("p", "q")); err != nil {
		t.Fatal(err)
	}
	r.Insert("y", "z")
	r.Key = "p"

	data, err := yaml.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "key") {
		t.Errorf("record key leaked into yaml: %s", data)
	}

	var back Record
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !back.Equal(r) {
		t.Errorf("round trip changed fields: %s", data)
	}
	if back.Key != "" {
		t.Errorf("record key survived the wire: %q", back.Key)
	}
}

func TestValueUnmarshalJSONShapes(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`"z"`), &v); err != nil {
		t.Fatal(err)
	}
	if !v.Equal(Single("z")) {
		t.Errorf("expected Single(z), got %s", v)
	}

	if err := json.Unmarshal([]byte(`["p","q"]`), &v); err != nil {
		t.Fatal(err)
	}
	if !v.Equal(List("p", "q")) {
		t.Errorf("expected List(p, q), got %s", v)
	}

	if err := json.Unmarshal([]byte(`[]`), &v); err != nil {
		t.Fatal(err)
	}
	if !v.IsList() || len(v.Strings()) != 0 {
		t.Errorf("expected empty list, got %s", v)
	}

	// Shapes other than string and string-list are rejected.
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Error("expected error for object value")
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &v); err == nil {
		t.Error("expected error for non-string list")
	}
}

func TestValueUnmarshalYAMLShapes(t *testing.T) {
	var v Value
	if err := yaml.Unmarshal([]byte(`z`), &v); err != nil {
		t.Fatal(err)
	}
	if !v.Equal(Single("z")) {
		t.Errorf("expected Single(z), got %s", v)
	}

	if err := yaml.Unmarshal([]byte("- p\n- q\n"), &v); err != nil {
		t.Fatal(err)
	}
	if !v.Equal(List("p", "q")) {
		t.Errorf("expected List(p, q), got %s", v)
	}

	if err := yaml.Unmarshal([]byte("a: 1\n"), &v); err == nil {
		t.Error("expected error for mapping value")
	}
}

func TestEmptyRecordWire(t *testing.T) {
	data, err := json.Marshal(New())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("empty record wire form = %s", data)
	}

	var zero Record
	data, err = json.Marshal(&zero)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("zero record wire form = %s", data)
	}
}
