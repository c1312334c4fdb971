// Package entity holds the in-memory entity store built once from the payload.
package entity

import (
	domentity "github.com/kailas-cloud/facetdex/internal/domain/entity"
)

// Store is a read-only, insertion-ordered collection of entities.
type Store struct {
	entities []domentity.Entity
	byID     map[string]int
}

// New builds a store. Entities must have unique ids; later duplicates are ignored.
func New(entities []domentity.Entity) *Store {
	s := &Store{
		entities: make([]domentity.Entity, 0, len(entities)),
		byID:     make(map[string]int, len(entities)),
	}
	for i := range entities {
		id := entities[i].ID()
		if _, dup := s.byID[id]; dup {
			continue
		}
		s.byID[id] = len(s.entities)
		s.entities = append(s.entities, entities[i])
	}
	return s
}

// Len returns the number of entities.
func (s *Store) Len() int { return len(s.entities) }

// At returns the entity at position i in load order.
func (s *Store) At(i int) *domentity.Entity { return &s.entities[i] }

// Get looks up an entity by id.
func (s *Store) Get(id string) (*domentity.Entity, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.entities[i], true
}
