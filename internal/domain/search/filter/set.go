package filter

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
)

// Set is an ordered list of selected filters with at most one filter per tag.
// Sets are never mutated in place: every operation returns a fresh Set.
type Set []Filter

// NewSet validates uniqueness by tag and creates a Set.
func NewSet(filters ...Filter) (Set, error) {
	if len(filters) > MaxFilters {
		return nil, fmt.Errorf("too many filters (max %d)", MaxFilters)
	}
	seen := make(map[string]struct{}, len(filters))
	out := make(Set, 0, len(filters))
	for _, f := range filters {
		k := f.key()
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("duplicate filter for tag %q", f.Tag)
		}
		seen[k] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

// Find returns the filter selected for tag.
func (s Set) Find(tag string) (Filter, bool) {
	k := taxonomy.Normalize(tag)
	for _, f := range s {
		if f.key() == k {
			return f, true
		}
	}
	return Filter{}, false
}

// Toggle removes tag when it is selected, otherwise appends it with None.
func (s Set) Toggle(category, tag string) Set {
	if _, ok := s.Find(tag); ok {
		return s.Remove(tag)
	}
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	return append(out, Filter{Category: category, Tag: tag, Modifier: None})
}

// Cycle advances the modifier of the filter selected for tag.
func (s Set) Cycle(tag string) Set {
	k := taxonomy.Normalize(tag)
	out := make(Set, len(s))
	for i, f := range s {
		if f.key() == k {
			f.Modifier = f.Modifier.Next()
		}
		out[i] = f
	}
	return out
}

// Remove drops the filter selected for tag.
func (s Set) Remove(tag string) Set {
	k := taxonomy.Normalize(tag)
	out := make(Set, 0, len(s))
	for _, f := range s {
		if f.key() != k {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether no filter is selected.
func (s Set) IsEmpty() bool { return len(s) == 0 }
