// Package entity models a searchable document and its taggable value set.
package entity

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
)

// Link is an outbound reference attached to an entity.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Entity is an immutable document from the catalog.
type Entity struct {
	id          string
	typ         string
	name        string
	description string
	tags        []string
	facets      map[string][]string
	links       []Link
	values      ValueSet
}

// New validates and creates an Entity. The value set is extracted once here.
func New(
	id, typ, name, description string,
	tags []string, facets map[string][]string, links []Link,
) (Entity, error) {
	if id == "" {
		return Entity{}, fmt.Errorf("entity id is required")
	}
	e := Entity{
		id:          id,
		typ:         typ,
		name:        name,
		description: description,
		tags:        tags,
		facets:      facets,
		links:       links,
	}
	e.values = ValuesOf(typ, tags, facets)
	return e, nil
}

// ID returns the primary key.
func (e *Entity) ID() string { return e.id }

// Type returns the entity type (e.g. "person").
func (e *Entity) Type() string { return e.typ }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Description returns the display description.
func (e *Entity) Description() string { return e.description }

// Tags returns the raw tag list.
func (e *Entity) Tags() []string { return e.tags }

// Facets returns facet values keyed by facet name.
func (e *Entity) Facets() map[string][]string { return e.facets }

// Links returns the entity links.
func (e *Entity) Links() []Link { return e.links }

// Values returns the memoized lower-cased value set.
func (e *Entity) Values() ValueSet { return e.values }

// ValueSet is the set of normalized taggable values of an entity.
type ValueSet map[string]struct{}

// Has reports whether the set contains tag, compared case-insensitively.
func (s ValueSet) Has(tag string) bool {
	_, ok := s[taxonomy.Normalize(tag)]
	return ok
}

// Len returns the number of distinct values.
func (s ValueSet) Len() int { return len(s) }

// ValuesOf pools type, tags and facet strings of an entity, lower-cased.
func ValuesOf(typ string, tags []string, facets map[string][]string) ValueSet {
	n := len(tags) + 1
	for _, vs := range facets {
		n += len(vs)
	}
	values := make(ValueSet, n)
	if typ != "" {
		values[taxonomy.Normalize(typ)] = struct{}{}
	}
	for _, t := range tags {
		values[taxonomy.Normalize(t)] = struct{}{}
	}
	for _, vs := range facets {
		for _, v := range vs {
			values[taxonomy.Normalize(v)] = struct{}{}
		}
	}
	return values
}
