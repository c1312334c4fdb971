package result

import (
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain/entity"
)

func TestNew(t *testing.T) {
	links := []entity.Link{{URL: "https://example.org", Title: "x", Type: "web"}}
	r := New("p1", "person", "Al Pacino", "actor", []string{"theater"}, links, 4.5)

	if r.ID() != "p1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Type() != "person" || r.Name() != "Al Pacino" || r.Description() != "actor" {
		t.Error("display fields mismatch")
	}
	if r.Score() != 4.5 {
		t.Errorf("Score() = %f", r.Score())
	}
	if len(r.Tags()) != 1 || len(r.Links()) != 1 {
		t.Error("tags/links mismatch")
	}
}

func TestFromEntity(t *testing.T) {
	e, err := entity.New("m1", "movie", "Heat", "crime film", []string{"crime"}, nil, nil)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	r := FromEntity(&e, 0)
	if r.ID() != "m1" || r.Name() != "Heat" || r.Score() != 0 {
		t.Errorf("projection = %+v", r)
	}
	if r.Tags()[0] != "crime" {
		t.Errorf("tags = %v", r.Tags())
	}
}
