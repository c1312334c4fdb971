package facets

import (
	"slices"

	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
)

// Tags is a set of tags keyed by normalized value. Values hold the display form.
type Tags map[string]string

// Has reports whether tag is in the set, compared case-insensitively.
func (t Tags) Has(tag string) bool {
	_, ok := t[taxonomy.Normalize(tag)]
	return ok
}

func (t Tags) add(tag string) {
	k := taxonomy.Normalize(tag)
	if _, ok := t[k]; !ok {
		t[k] = tag
	}
}

// Available maps every taxonomy category to the tags still selectable in it.
type Available map[string]Tags

// Empty returns an Available with every category present and no tags.
func Empty(tax *taxonomy.Taxonomy) Available {
	a := make(Available, len(tax.Categories()))
	for _, c := range tax.Categories() {
		a[c.ID()] = make(Tags)
	}
	return a
}

// Has reports whether tag is available in category.
func (a Available) Has(category, tag string) bool {
	return a[category].Has(tag)
}

// Len returns the total number of available tags across categories.
func (a Available) Len() int {
	n := 0
	for _, t := range a {
		n += len(t)
	}
	return n
}

// Group is one category's available tags in display order.
type Group struct {
	Category string
	Tags     []string
}

// Ordered lists the available tags per category in taxonomy order. Tags that
// are not children of their category (selected but unknown) follow the
// children, sorted.
func (a Available) Ordered(tax *taxonomy.Taxonomy) []Group {
	out := make([]Group, 0, len(tax.Categories()))
	for _, c := range tax.Categories() {
		set := a[c.ID()]
		g := Group{Category: c.ID(), Tags: make([]string, 0, len(set))}
		seen := make(map[string]struct{}, len(set))
		for _, child := range c.Children() {
			k := taxonomy.Normalize(child)
			if _, ok := set[k]; ok {
				g.Tags = append(g.Tags, set[k])
				seen[k] = struct{}{}
			}
		}
		var extra []string
		for k, v := range set {
			if _, ok := seen[k]; !ok {
				extra = append(extra, v)
			}
		}
		slices.Sort(extra)
		g.Tags = append(g.Tags, extra...)
		out = append(out, g)
	}
	return out
}
