package record

import "testing"

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"single", Single("up"), "up"},
		{"empty single", Single(""), ""},
		{"list", List("p", "q"), `["p", "q"]`},
		{"one element list", List("p"), `["p"]`},
		{"empty list", List(), "[]"},
		{"list quoting", List(`a"b`), `["a\"b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal singles", Single("x"), Single("x"), true},
		{"differing singles", Single("x"), Single("y"), false},
		{"equal lists", List("a", "b"), List("a", "b"), true},
		{"order matters", List("a", "b"), List("b", "a"), false},
		{"length differs", List("a"), List("a", "b"), false},
		{"shapes differ", Single("a"), List("a"), false},
		{"empty list vs empty single", List(), Single(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueStrings(t *testing.T) {
	if got := Single("x").Strings(); len(got) != 1 || got[0] != "x" {
		t.Errorf("Single.Strings() = %v", got)
	}
	if got := List("a", "b").Strings(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List.Strings() = %v", got)
	}
}

func TestValueIsList(t *testing.T) {
	if Single("x").IsList() {
		t.Error("Single reported as list")
	}
	if !List().IsList() {
		t.Error("empty List not reported as list")
	}
}
