package filter

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
)

// MaxFilters is the maximum number of selected filters in one set.
const MaxFilters = 64

// Modifier is the semantic role of a selected tag.
type Modifier string

// Modifier constants.
const (
	// None filters within a category are OR-ed.
	None Modifier = "none"
	// Include filters within a category are AND-ed.
	Include Modifier = "include"
	// Exclude filters veto any entity carrying the tag.
	Exclude Modifier = "exclude"
)

// IsValid checks if the modifier is one of the supported values.
func (m Modifier) IsValid() bool {
	return m == None || m == Include || m == Exclude
}

// Next returns the following modifier in the cycle none -> include -> exclude -> none.
func (m Modifier) Next() Modifier {
	switch m {
	case None:
		return Include
	case Include:
		return Exclude
	default:
		return None
	}
}

// ParseModifier parses a modifier name. Empty means None.
func ParseModifier(s string) (Modifier, error) {
	if s == "" {
		return None, nil
	}
	m := Modifier(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid modifier %q", s)
	}
	return m, nil
}

// Filter is a selected (category, tag, modifier) triple.
type Filter struct {
	Category string
	Tag      string
	Modifier Modifier
}

// New validates and creates a Filter.
func New(category, tag string, m Modifier) (Filter, error) {
	if category == "" {
		return Filter{}, fmt.Errorf("filter category is required")
	}
	if tag == "" {
		return Filter{}, fmt.Errorf("filter tag is required for category %q", category)
	}
	if m == "" {
		m = None
	}
	if !m.IsValid() {
		return Filter{}, fmt.Errorf("invalid modifier %q for tag %q", m, tag)
	}
	return Filter{Category: category, Tag: tag, Modifier: m}, nil
}

func (f Filter) key() string { return taxonomy.Normalize(f.Tag) }
