package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/search/textquery"
)

// --- Mocks ---

type mockSource struct {
	data []byte
	err  error
}

func (m *mockSource) Kind() string { return "mock" }

func (m *mockSource) Fetch(_ context.Context) ([]byte, error) { return m.data, m.err }

const testPayload = `{
  "version": 1,
  "documents": [
    {"id": "heat", "type": "movie", "name": "Heat", "description": "Crime film starring Al Pacino",
     "tagsArray": ["crime", "drama"], "facets": {"era": "1990s"}},
    {"id": "al-pacino", "type": "person", "name": "Al Pacino", "aliases": ["Alfredo Pacino"],
     "tagsArray": ["drama"]},
    {"id": "", "name": "No id"},
    {"id": "heat", "name": "Duplicate heat"}
  ]
}`

// --- Tests ---

func TestLoad_PublishesSnapshot(t *testing.T) {
	svc := New(nil)
	if svc.Loaded() {
		t.Fatal("new catalog must be loading")
	}
	if _, ok := svc.Corpus(); ok {
		t.Fatal("corpus must be unavailable before load")
	}

	if err := svc.Load(context.Background(), &mockSource{data: []byte(testPayload)}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if !svc.Loaded() {
		t.Fatal("expected loaded")
	}
	st, ok := svc.Stats()
	if !ok {
		t.Fatal("stats unavailable")
	}
	if st.Documents != 4 || st.Entities != 2 || st.MissingID != 1 || st.Duplicates != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.Source != "mock" || len(st.Fields) != 7 {
		t.Errorf("stats = %+v", st)
	}

	corpus, ok := svc.Corpus()
	if !ok {
		t.Fatal("corpus unavailable")
	}
	if corpus.Entities.Len() != 2 {
		t.Errorf("entities = %d", corpus.Entities.Len())
	}
	e, ok := corpus.Entities.Get("heat")
	if !ok || e.Name() != "Heat" {
		t.Fatalf("heat = %v, %v", e, ok)
	}
	if !e.Values().Has("1990s") {
		t.Error("facet strings must be extracted")
	}

	matches, err := corpus.Index.Search(context.Background(), "alfredo",
		textquery.ForQuery("alfredo", 0, textquery.DefaultFuzzyMinLength, textquery.DefaultBoosts(), 0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "al-pacino" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestLoad_FetchErrorStaysLoading(t *testing.T) {
	svc := New(nil)
	err := svc.Load(context.Background(), &mockSource{err: errors.New("connection refused")})
	if err == nil {
		t.Fatal("expected error")
	}
	if svc.Loaded() {
		t.Error("failed load must leave the catalog loading")
	}
}

func TestLoad_MalformedPayload(t *testing.T) {
	svc := New(nil)
	err := svc.Load(context.Background(), &mockSource{data: []byte("{not json")})
	if !errors.Is(err, domain.ErrPayloadMalformed) {
		t.Fatalf("expected ErrPayloadMalformed, got %v", err)
	}
}

func TestLoad_OnlyOnce(t *testing.T) {
	svc := New(nil)
	_ = svc.Load(context.Background(), &mockSource{err: errors.New("fail")})

	err := svc.Load(context.Background(), &mockSource{data: []byte(testPayload)})
	if !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded, got %v", err)
	}
	if svc.Loaded() {
		t.Error("no retry after a failed load")
	}
}

func TestClose_Unloaded(t *testing.T) {
	if err := New(nil).Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
