package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/facetdex/internal/domain/entity"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/domain/search/textquery"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
)

// --- Mocks ---

type mockEntities struct {
	list []entity.Entity
}

func (m *mockEntities) Len() int { return len(m.list) }

func (m *mockEntities) At(i int) *entity.Entity { return &m.list[i] }

func (m *mockEntities) Get(id string) (*entity.Entity, bool) {
	for i := range m.list {
		if m.list[i].ID() == id {
			return &m.list[i], true
		}
	}
	return nil, false
}

type mockIndex struct {
	matches  []textquery.Match
	err      error
	called   bool
	lastOpts textquery.Options
}

func (m *mockIndex) Search(_ context.Context, _ string, opts textquery.Options) ([]textquery.Match, error) {
	m.called = true
	m.lastOpts = opts
	return m.matches, m.err
}

type mockCatalog struct {
	corpus Corpus
	ready  bool
}

func (m *mockCatalog) Corpus() (Corpus, bool) { return m.corpus, m.ready }

// --- Fixtures ---

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	typ, err := taxonomy.NewCategory("type", "", []string{"person", "movie"})
	if err != nil {
		t.Fatal(err)
	}
	genre, err := taxonomy.NewCategory("genre", "", []string{"crime", "drama", "comedy"})
	if err != nil {
		t.Fatal(err)
	}
	tax, err := taxonomy.New([]taxonomy.Category{typ, genre})
	if err != nil {
		t.Fatal(err)
	}
	return tax
}

func ent(t *testing.T, id, typ, name string, tags ...string) entity.Entity {
	t.Helper()
	e, err := entity.New(id, typ, name, "", tags, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func testStore(t *testing.T) *mockEntities {
	return &mockEntities{list: []entity.Entity{
		ent(t, "heat", "movie", "Heat", "crime", "drama"),
		ent(t, "airplane", "movie", "Airplane!", "comedy"),
		ent(t, "pacino", "person", "Al Pacino", "drama"),
		ent(t, "deniro", "person", "Robert De Niro", "crime"),
	}}
}

func newService(t *testing.T, idx *mockIndex) *Service {
	t.Helper()
	cat := &mockCatalog{corpus: Corpus{Entities: testStore(t), Index: idx}, ready: true}
	return New(cat, testTaxonomy(t), Config{})
}

func mustRequest(t *testing.T, q string, fs filter.Set, by order.SortBy, dir order.Direction) *request.Request {
	t.Helper()
	r, err := request.New(q, fs, by, dir)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func resultIDs(rs []result.Result) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].ID()
	}
	return out
}

func assertIDs(t *testing.T, rs []result.Result, want ...string) {
	t.Helper()
	got := resultIDs(rs)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

// --- Tests ---

func TestSearch_Loading(t *testing.T) {
	idx := &mockIndex{}
	svc := New(&mockCatalog{}, testTaxonomy(t), DefaultConfig())

	v, err := svc.Search(context.Background(), mustRequest(t, "heat", nil, "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Loading {
		t.Error("expected loading view")
	}
	if len(v.Results) != 0 || v.Available.Len() != 0 {
		t.Errorf("loading view must be empty: %+v", v)
	}
	if _, ok := v.Available["genre"]; !ok {
		t.Error("loading view still lists categories")
	}
	if idx.called || !svc.Loading() {
		t.Error("index must not be queried while loading")
	}
}

func TestSearch_EmptyQueryNoFilters(t *testing.T) {
	idx := &mockIndex{}
	svc := newService(t, idx)

	for _, q := range []string{"", "   "} {
		v, err := svc.Search(context.Background(), mustRequest(t, q, nil, "", ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(v.Results) != 0 {
			t.Errorf("q=%q: results = %v", q, resultIDs(v.Results))
		}
		if !v.Available.Has("genre", "comedy") {
			t.Error("available tags cover the whole catalog")
		}
	}
	if idx.called {
		t.Error("index must not be queried for blank text")
	}
}

func TestSearch_TextRelevanceDesc(t *testing.T) {
	idx := &mockIndex{matches: []textquery.Match{
		{ID: "pacino", Score: 3},
		{ID: "heat", Score: 9},
		{ID: "deniro", Score: 5},
	}}
	svc := newService(t, idx)

	v, err := svc.Search(context.Background(), mustRequest(t, "pacino", nil, "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, v.Results, "heat", "deniro", "pacino")

	v, err = svc.Search(context.Background(), mustRequest(t, "pacino", nil, order.Relevance, order.Asc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, v.Results, "pacino", "deniro", "heat")
}

func TestSearch_TextOptions(t *testing.T) {
	idx := &mockIndex{}
	svc := newService(t, idx)

	if _, err := svc.Search(context.Background(), mustRequest(t, "hea", nil, "", "")); err != nil {
		t.Fatal(err)
	}
	if !idx.lastOpts.Prefix || idx.lastOpts.Fuzzy != 0 {
		t.Errorf("short query opts = %+v", idx.lastOpts)
	}
	if idx.lastOpts.Boost["name"] != textquery.BoostName {
		t.Errorf("boost = %v", idx.lastOpts.Boost)
	}

	if _, err := svc.Search(context.Background(), mustRequest(t, "heat", nil, "", "")); err != nil {
		t.Fatal(err)
	}
	if idx.lastOpts.Fuzzy != textquery.DefaultFuzzy {
		t.Errorf("long query fuzzy = %v", idx.lastOpts.Fuzzy)
	}
}

func TestSearch_TextWithFilters(t *testing.T) {
	idx := &mockIndex{matches: []textquery.Match{
		{ID: "heat", Score: 9},
		{ID: "ghost", Score: 8},
		{ID: "pacino", Score: 3},
	}}
	svc := newService(t, idx)
	fs := filter.Set{{Category: "type", Tag: "person", Modifier: filter.None}}

	v, err := svc.Search(context.Background(), mustRequest(t, "al", fs, "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, v.Results, "pacino")

	// Available tags come from text matches only.
	if v.Available.Has("genre", "comedy") || !v.Available.Has("genre", "drama") {
		t.Errorf("available = %v", v.Available)
	}
}

func TestSearch_UnknownIDsDropped(t *testing.T) {
	idx := &mockIndex{matches: []textquery.Match{{ID: "ghost", Score: 1}, {ID: "heat", Score: 0.5}}}
	svc := newService(t, idx)

	v, err := svc.Search(context.Background(), mustRequest(t, "g", nil, "", ""))
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, v.Results, "heat")
}

func TestSearch_CandidateCapBeforeFiltering(t *testing.T) {
	var matches []textquery.Match
	for i := range 150 {
		matches = append(matches, textquery.Match{ID: fmt.Sprintf("x%d", i), Score: 10})
	}
	matches = append(matches, textquery.Match{ID: "pacino", Score: 1})
	svc := newService(t, &mockIndex{matches: matches})

	v, err := svc.Search(context.Background(), mustRequest(t, "al", nil, "", ""))
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Results) != 0 {
		t.Errorf("pacino is beyond the candidate cap: %v", resultIDs(v.Results))
	}
	if !v.Available.Has("type", "person") {
		t.Error("available tags consider every text match")
	}
}

func TestSearch_IndexError(t *testing.T) {
	svc := newService(t, &mockIndex{err: errors.New("boom")})
	if _, err := svc.Search(context.Background(), mustRequest(t, "heat", nil, "", "")); err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch_BrowseKeepsLoadOrder(t *testing.T) {
	idx := &mockIndex{}
	svc := newService(t, idx)
	fs := filter.Set{{Category: "genre", Tag: "crime", Modifier: filter.None}}

	v, err := svc.Search(context.Background(), mustRequest(t, "", fs, order.Relevance, order.Desc))
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, v.Results, "heat", "deniro")
	for _, r := range v.Results {
		if r.Score() != 0 {
			t.Errorf("browse score = %v", r.Score())
		}
	}
	if idx.called {
		t.Error("browse mode must not query the index")
	}
}

func TestSearch_Alphabetical(t *testing.T) {
	svc := newService(t, &mockIndex{})
	fs := filter.Set{{Category: "genre", Tag: "comedy", Modifier: filter.Exclude}}

	v, err := svc.Search(context.Background(), mustRequest(t, "", fs, order.Alphabetical, order.Asc))
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, v.Results, "pacino", "heat", "deniro")

	v, err = svc.Search(context.Background(), mustRequest(t, "", fs, order.Alphabetical, order.Desc))
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, v.Results, "deniro", "heat", "pacino")
}

func TestSearch_TypeTiesByNameAscending(t *testing.T) {
	svc := newService(t, &mockIndex{})
	fs := filter.Set{{Category: "genre", Tag: "airplane", Modifier: filter.Exclude}}

	v, err := svc.Search(context.Background(), mustRequest(t, "", fs, order.Type, order.Asc))
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, v.Results, "airplane", "heat", "pacino", "deniro")

	v, err = svc.Search(context.Background(), mustRequest(t, "", fs, order.Type, order.Desc))
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, v.Results, "pacino", "deniro", "airplane", "heat")
}

func TestSearch_MaxResults(t *testing.T) {
	var list []entity.Entity
	for i := range 60 {
		list = append(list, ent(t, fmt.Sprintf("e%02d", i), "movie", fmt.Sprintf("Movie %02d", i), "drama"))
	}
	cat := &mockCatalog{corpus: Corpus{Entities: &mockEntities{list: list}, Index: &mockIndex{}}, ready: true}
	svc := New(cat, testTaxonomy(t), Config{})
	fs := filter.Set{{Category: "genre", Tag: "drama", Modifier: filter.Include}}

	v, err := svc.Search(context.Background(), mustRequest(t, "", fs, "", ""))
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Results) != DefaultMaxResults {
		t.Errorf("len = %d, want %d", len(v.Results), DefaultMaxResults)
	}
	if v.Results[0].ID() != "e00" {
		t.Errorf("first = %s, want e00", v.Results[0].ID())
	}
}

func TestSearch_UnknownCategoryFilterIgnored(t *testing.T) {
	svc := newService(t, &mockIndex{})
	fs := filter.Set{{Category: "planet", Tag: "tatooine", Modifier: filter.Include}}

	v, err := svc.Search(context.Background(), mustRequest(t, "", fs, "", ""))
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Results) != 4 {
		t.Errorf("results = %v", resultIDs(v.Results))
	}
}

func TestNew_ConfigDefaults(t *testing.T) {
	svc := New(&mockCatalog{}, testTaxonomy(t), Config{Fuzzy: -1})
	if svc.cfg.MaxResults != DefaultMaxResults || svc.cfg.MaxCandidates != DefaultMaxCandidates {
		t.Errorf("cfg = %+v", svc.cfg)
	}
	if svc.cfg.Fuzzy != 0 || svc.cfg.Boosts == nil {
		t.Errorf("cfg = %+v", svc.cfg)
	}
}
