package featcheck

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSatisfiedSet_AddIsIdempotent(t *testing.T) {
	s := NewSatisfiedSet()
	if !s.Add("a") {
		t.Error("first Add(a) = false, want true")
	}
	if s.Add("a") {
		t.Error("second Add(a) = true, want false")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("List() = %v, want [a]", got)
	}
}

func TestSatisfiedSet_ZeroValue(t *testing.T) {
	var s SatisfiedSet
	if s.Contains("a") {
		t.Error("zero set Contains(a) = true")
	}
	s.Add("a")
	if !s.Contains("a") {
		t.Error("Contains(a) = false after Add")
	}
}

func TestSatisfiedSet_Queries(t *testing.T) {
	s := NewSatisfiedSet("os_linux", "a", "b")

	tests := []struct {
		name      string
		ids       []string
		all       bool
		intersect []string
		missing   []string
	}{
		{name: "empty", ids: nil, all: true},
		{name: "subset", ids: []string{"b", "a"}, all: true, intersect: []string{"b", "a"}},
		{name: "partial", ids: []string{"a", "c"}, all: false, intersect: []string{"a"}, missing: []string{"c"}},
		{name: "disjoint", ids: []string{"d", "c"}, all: false, missing: []string{"d", "c"}},
		{name: "duplicates", ids: []string{"c", "a", "c", "a"}, all: false, intersect: []string{"a"}, missing: []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ContainsAll(tt.ids); got != tt.all {
				t.Errorf("ContainsAll(%v) = %v, want %v", tt.ids, got, tt.all)
			}
			if got := s.Intersect(tt.ids); !reflect.DeepEqual(got, tt.intersect) {
				t.Errorf("Intersect(%v) = %v, want %v", tt.ids, got, tt.intersect)
			}
			if got := s.Missing(tt.ids); !reflect.DeepEqual(got, tt.missing) {
				t.Errorf("Missing(%v) = %v, want %v", tt.ids, got, tt.missing)
			}
		})
	}
}

func TestSatisfiedSet_Order(t *testing.T) {
	s := NewSatisfiedSet("os_linux", "zlib", "alsa")

	if got, want := s.List(), []string{"os_linux", "zlib", "alsa"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got, want := s.Sorted(), []string{"alsa", "os_linux", "zlib"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}

	// List returns a copy.
	l := s.List()
	l[0] = "mutated"
	if !s.Contains("os_linux") || s.Contains("mutated") {
		t.Error("mutating List() result changed the set")
	}
}

func TestSatisfiedSet_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewSatisfiedSet("b", "a"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `["a","b"]` {
		t.Errorf("Marshal() = %s, want [\"a\",\"b\"]", data)
	}

	data, err = json.Marshal(NewSatisfiedSet())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("Marshal(empty) = %s, want []", data)
	}
}
