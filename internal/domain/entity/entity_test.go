package entity

import "testing"

func TestNew_RequiresID(t *testing.T) {
	if _, err := New("", "person", "x", "", nil, nil, nil); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestValues_PoolsTypeTagsFacets(t *testing.T) {
	e, err := New("1", "Person", "Al Pacino", "actor",
		[]string{"Theater", "crime"},
		map[string][]string{
			"genre":  {"Drama", "CRIME"},
			"medium": {"Film"},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := e.Values()
	for _, want := range []string{"person", "theater", "crime", "drama", "film"} {
		if _, ok := v[want]; !ok {
			t.Errorf("missing value %q", want)
		}
	}
	if v.Len() != 5 {
		t.Errorf("len = %d, want 5", v.Len())
	}
}

func TestValueSet_HasIsCaseInsensitive(t *testing.T) {
	v := ValuesOf("Movie", []string{"Crime"}, nil)
	if !v.Has("CRIME") || !v.Has("movie") {
		t.Error("expected case-insensitive match")
	}
	if v.Has("drama") {
		t.Error("unexpected match")
	}
}

func TestValuesOf_EmptyTypeSkipped(t *testing.T) {
	v := ValuesOf("", nil, nil)
	if v.Len() != 0 {
		t.Errorf("len = %d, want 0", v.Len())
	}
}

func TestAccessors(t *testing.T) {
	links := []Link{{URL: "https://example.org", Title: "Home", Type: "web"}}
	e, err := New("m1", "movie", "Heat", "1995 crime film", []string{"crime"}, nil, links)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID() != "m1" || e.Type() != "movie" || e.Name() != "Heat" {
		t.Error("accessor mismatch")
	}
	if e.Description() != "1995 crime film" {
		t.Errorf("description = %q", e.Description())
	}
	if len(e.Links()) != 1 || e.Links()[0].Title != "Home" {
		t.Errorf("links = %v", e.Links())
	}
	if len(e.Tags()) != 1 || e.Facets() != nil {
		t.Error("tags/facets mismatch")
	}
}
