// Package facets computes which taxonomy tags remain selectable given the
// current filters and text matches.
package facets

import (
	"github.com/kailas-cloud/facetdex/internal/domain/entity"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
)

// Calculator computes available tags against a fixed taxonomy.
type Calculator struct {
	tax *taxonomy.Taxonomy
}

// New creates a Calculator.
func New(tax *taxonomy.Taxonomy) *Calculator {
	return &Calculator{tax: tax}
}

// Compute evaluates every entity in the store.
func (c *Calculator) Compute(entities EntityReader, filters filter.Set) Available {
	expr := filter.Compile(filters)
	a := Empty(c.tax)
	for i := range entities.Len() {
		c.collect(a, entities.At(i), expr)
	}
	c.addSelected(a, filters)
	return a
}

// ComputeWithin evaluates only the entities named by ids. Unknown ids are
// skipped and repeated ids count once.
func (c *Calculator) ComputeWithin(entities EntityReader, filters filter.Set, ids []string) Available {
	expr := filter.Compile(filters)
	a := Empty(c.tax)
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		e, ok := entities.Get(id)
		if !ok {
			continue
		}
		c.collect(a, e, expr)
	}
	c.addSelected(a, filters)
	return a
}

// collect adds the tags e contributes to each category. An entity counts
// toward category C when it satisfies the filters of every other category,
// and also C's own filters when C has an include filter.
func (c *Calculator) collect(a Available, e *entity.Entity, expr filter.Expression) {
	cats := c.tax.Categories()
	values := e.Values()

	matches := make([]bool, len(cats))
	failed, lastFailed := 0, -1
	for i, cat := range cats {
		matches[i] = expr.MatchesCategory(values, cat.ID())
		if !matches[i] {
			failed++
			lastFailed = i
		}
	}
	if failed > 1 {
		return
	}

	for i, cat := range cats {
		if failed == 1 && lastFailed != i {
			continue
		}
		if expr.HasMust(cat.ID()) && !matches[i] {
			continue
		}
		set := a[cat.ID()]
		for _, child := range cat.Children() {
			if values.Has(child) {
				set.add(child)
			}
		}
	}
}

// addSelected keeps every selected tag visible so it can be deselected.
func (c *Calculator) addSelected(a Available, filters filter.Set) {
	for _, f := range filters {
		cat, ok := c.tax.Category(f.Category)
		if !ok {
			continue
		}
		tag := f.Tag
		if canon, ok := cat.Canonical(f.Tag); ok {
			tag = canon
		}
		a[f.Category].add(tag)
	}
}
