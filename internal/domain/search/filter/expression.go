package filter

import (
	"github.com/kailas-cloud/facetdex/internal/domain/entity"
)

// Group holds one category's filters partitioned by modifier.
// Tags are stored normalized.
type Group struct {
	must    []string
	should  []string
	mustNot []string
}

// Must returns the include tags.
func (g Group) Must() []string { return g.must }

// Should returns the none-modifier tags.
func (g Group) Should() []string { return g.should }

// MustNot returns the exclude tags.
func (g Group) MustNot() []string { return g.mustNot }

// IsEmpty reports whether the group has no conditions.
func (g Group) IsEmpty() bool {
	return len(g.must) == 0 && len(g.should) == 0 && len(g.mustNot) == 0
}

// Matches evaluates exclude veto, include conjunction, then none disjunction.
func (g Group) Matches(values entity.ValueSet) bool {
	for _, t := range g.mustNot {
		if _, ok := values[t]; ok {
			return false
		}
	}
	for _, t := range g.must {
		if _, ok := values[t]; !ok {
			return false
		}
	}
	if len(g.should) == 0 {
		return true
	}
	for _, t := range g.should {
		if _, ok := values[t]; ok {
			return true
		}
	}
	return false
}

// Expression is a Set compiled into per-category groups.
type Expression struct {
	groups map[string]Group
}

// Compile partitions a Set by category and modifier.
func Compile(s Set) Expression {
	if len(s) == 0 {
		return Expression{}
	}
	groups := make(map[string]Group)
	for _, f := range s {
		g := groups[f.Category]
		switch f.Modifier {
		case Include:
			g.must = append(g.must, f.key())
		case Exclude:
			g.mustNot = append(g.mustNot, f.key())
		default:
			g.should = append(g.should, f.key())
		}
		groups[f.Category] = g
	}
	return Expression{groups: groups}
}

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.groups) == 0 }

// Group returns the compiled group for a category.
func (e Expression) Group(category string) Group { return e.groups[category] }

// HasMust reports whether category has at least one include filter.
func (e Expression) HasMust(category string) bool {
	return len(e.groups[category].must) > 0
}

// MatchesCategory evaluates the category's filters; no filters always matches.
func (e Expression) MatchesCategory(values entity.ValueSet, category string) bool {
	g, ok := e.groups[category]
	if !ok {
		return true
	}
	return g.Matches(values)
}

// MatchesAll ANDs MatchesCategory over categories. Groups for categories
// outside the list are ignored.
func (e Expression) MatchesAll(values entity.ValueSet, categories []string) bool {
	if len(e.groups) == 0 {
		return true
	}
	for _, c := range categories {
		if !e.MatchesCategory(values, c) {
			return false
		}
	}
	return true
}

// MatchesCategory compiles s and evaluates a single category.
func MatchesCategory(values entity.ValueSet, category string, s Set) bool {
	return Compile(s).MatchesCategory(values, category)
}

// MatchesAll compiles s and evaluates every category.
func MatchesAll(values entity.ValueSet, categories []string, s Set) bool {
	return Compile(s).MatchesAll(values, categories)
}
