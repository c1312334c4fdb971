package result

import "github.com/kailas-cloud/facetdex/internal/domain/entity"

// Result is a single search hit projected for display.
type Result struct {
	id          string
	typ         string
	name        string
	description string
	tags        []string
	links       []entity.Link
	score       float64
}

// New creates a search result.
func New(
	id, typ, name, description string,
	tags []string, links []entity.Link, score float64,
) Result {
	return Result{
		id: id, typ: typ, name: name, description: description,
		tags: tags, links: links, score: score,
	}
}

// FromEntity projects an entity with the given score.
func FromEntity(e *entity.Entity, score float64) Result {
	return New(e.ID(), e.Type(), e.Name(), e.Description(), e.Tags(), e.Links(), score)
}

// ID returns the entity identifier.
func (r *Result) ID() string { return r.id }

// Type returns the entity type.
func (r *Result) Type() string { return r.typ }

// Name returns the display name.
func (r *Result) Name() string { return r.name }

// Description returns the display description.
func (r *Result) Description() string { return r.description }

// Tags returns the entity tags.
func (r *Result) Tags() []string { return r.tags }

// Links returns the entity links.
func (r *Result) Links() []entity.Link { return r.links }

// Score returns the relevance score (0 in browse mode).
func (r *Result) Score() float64 { return r.score }
