package facetdex

import (
	"context"
	"errors"
	"testing"
)

func resultIDs(v View) []string {
	out := make([]string, len(v.Results))
	for i, r := range v.Results {
		out[i] = r.ID
	}
	return out
}

func TestSession_Defaults(t *testing.T) {
	s := newTestClient(t).NewSession()
	if s.ID() == "" {
		t.Error("session id must be set")
	}
	if s.Query() != "" || len(s.Filters()) != 0 {
		t.Errorf("new session not empty: %q %v", s.Query(), s.Filters())
	}
	if s.SortBy() != SortRelevance || s.SortDirection() != Desc {
		t.Errorf("sort = %s %s", s.SortBy(), s.SortDirection())
	}

	view, err := s.View(context.Background())
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(view.Results) != 0 {
		t.Errorf("empty state must yield no results, got %v", resultIDs(view))
	}
}

func TestSession_TagInteractions(t *testing.T) {
	s := newTestClient(t).NewSession()
	ctx := context.Background()

	if err := s.ToggleTag("genre", "crime"); err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	view, err := s.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(view.Results) != 4 {
		t.Errorf("crime results = %v", resultIDs(view))
	}

	s.CycleModifier("crime")
	if f := s.Filters(); len(f) != 1 || f[0].Modifier != ModifierInclude {
		t.Fatalf("filters after cycle = %+v", f)
	}
	s.CycleModifier("crime")
	view, err = s.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	for _, r := range view.Results {
		if r.ID == "heat" || r.ID == "the-godfather" {
			t.Errorf("excluded crime entity %s in results", r.ID)
		}
	}

	s.RemoveFilter("crime")
	if len(s.Filters()) != 0 {
		t.Errorf("filters after remove = %+v", s.Filters())
	}

	if err := s.SetFilters([]Filter{{Category: "type", Tag: "person"}, {Category: "role", Tag: "actor"}}); err != nil {
		t.Fatalf("SetFilters: %v", err)
	}
	view, err = s.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if ids := resultIDs(view); len(ids) != 1 || ids[0] != "al-pacino" {
		t.Errorf("person+actor = %v", ids)
	}

	s.ClearFilters()
	if len(s.Filters()) != 0 {
		t.Error("ClearFilters left filters behind")
	}
}

func TestSession_QueryAndSort(t *testing.T) {
	s := newTestClient(t).NewSession()
	ctx := context.Background()

	if err := s.SetQuery("pacino"); err != nil {
		t.Fatalf("SetQuery: %v", err)
	}
	if err := s.SetSortBy(SortAlphabetical); err != nil {
		t.Fatalf("SetSortBy: %v", err)
	}
	if err := s.SetSortDirection(Asc); err != nil {
		t.Fatalf("SetSortDirection: %v", err)
	}
	view, err := s.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	want := []string{"al-pacino", "heat", "the-godfather"}
	got := resultIDs(view)
	if len(got) != len(want) {
		t.Fatalf("results = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("results = %v, want %v", got, want)
			break
		}
	}

	s.ToggleSortDirection()
	if s.SortDirection() != Desc {
		t.Errorf("direction = %s, want desc", s.SortDirection())
	}
	view, err = s.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if resultIDs(view)[0] != "the-godfather" {
		t.Errorf("desc first = %s", resultIDs(view)[0])
	}
}

func TestSession_Validation(t *testing.T) {
	s := newTestClient(t).NewSession()
	if err := s.SetSortBy("random"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("SetSortBy error = %v", err)
	}
	if err := s.SetSortDirection("sideways"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("SetSortDirection error = %v", err)
	}
	if err := s.SetFilters([]Filter{{Category: "genre", Tag: "crime", Modifier: "maybe"}}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("SetFilters error = %v", err)
	}
	if err := s.ToggleTag("", "crime"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("ToggleTag error = %v", err)
	}
}
