package featcheck

import (
	"encoding/json"
	"slices"
)

// SatisfiedSet holds the identifiers of features that have been satisfied
// during a configuration run.
//
// The set only grows: identifiers are added, never removed. It is not safe
// for concurrent use; sharing one set between concurrent [Resolve] calls
// requires external synchronization.
type SatisfiedSet struct {
	ids   map[string]struct{}
	order []string
}

// NewSatisfiedSet returns a set seeded with ids.
func NewSatisfiedSet(ids ...string) *SatisfiedSet {
	s := &SatisfiedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was not already present.
func (s *SatisfiedSet) Add(id string) bool {
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Contains reports whether id is in the set.
func (s *SatisfiedSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// ContainsAll reports whether every element of ids is in the set.
// It returns true for an empty ids.
func (s *SatisfiedSet) ContainsAll(ids []string) bool {
	for _, id := range ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Intersect returns the elements of ids present in the set, in the order
// they appear in ids and without duplicates.
func (s *SatisfiedSet) Intersect(ids []string) []string {
	return s.filter(ids, true)
}

// Missing returns the elements of ids absent from the set, in the order
// they appear in ids and without duplicates.
func (s *SatisfiedSet) Missing(ids []string) []string {
	return s.filter(ids, false)
}

func (s *SatisfiedSet) filter(ids []string, present bool) []string {
	var out []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s.Contains(id) == present {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of identifiers in the set.
func (s *SatisfiedSet) Len() int {
	return len(s.order)
}

// List returns the identifiers in insertion order.
func (s *SatisfiedSet) List() []string {
	return slices.Clone(s.order)
}

// Sorted returns the identifiers in lexical order.
func (s *SatisfiedSet) Sorted() []string {
	out := s.List()
	slices.Sort(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s *SatisfiedSet) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}
