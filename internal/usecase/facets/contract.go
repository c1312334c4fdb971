package facets

import "github.com/kailas-cloud/facetdex/internal/domain/entity"

// EntityReader iterates the loaded entities in load order and resolves ids.
type EntityReader interface {
	Len() int
	At(i int) *entity.Entity
	Get(id string) (*entity.Entity, bool)
}
