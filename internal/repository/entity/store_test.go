package entity

import (
	"testing"

	domentity "github.com/kailas-cloud/facetdex/internal/domain/entity"
)

func mustEntity(t *testing.T, id, name string) domentity.Entity {
	t.Helper()
	e, err := domentity.New(id, "movie", name, "", nil, nil, nil)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	return e
}

func TestStore_OrderAndLookup(t *testing.T) {
	s := New([]domentity.Entity{
		mustEntity(t, "b", "Beta"),
		mustEntity(t, "a", "Alpha"),
		mustEntity(t, "b", "Beta again"),
	})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.At(0).ID() != "b" || s.At(1).ID() != "a" {
		t.Errorf("order = %s, %s", s.At(0).ID(), s.At(1).ID())
	}
	e, ok := s.Get("b")
	if !ok || e.Name() != "Beta" {
		t.Errorf("Get(b) = %v, %v", e, ok)
	}
	if _, ok := s.Get("zzz"); ok {
		t.Error("unexpected hit")
	}
}

func TestStore_Empty(t *testing.T) {
	s := New(nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d", s.Len())
	}
}
