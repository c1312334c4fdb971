package facetdex

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

const testPayload = "../../testdata/catalog.json"

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithFile(testPayload)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) (searchuc.View, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (searchuc.View, error) {
	return m.searchFn(ctx, req)
}

func TestNew_NoSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no source provided")
	}
}

func TestNew_UnknownSource(t *testing.T) {
	_, _, err := createSource(context.Background(), &clientConfig{source: "ftp"})
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("error = %v, want ErrUnknownSource", err)
	}
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(context.Background(), WithFile("does-not-exist.json"))
	if err == nil {
		t.Fatal("expected error for missing payload file")
	}
}

func TestNew_InvalidTaxonomy(t *testing.T) {
	_, err := New(context.Background(), WithFile(testPayload), WithTaxonomy([]byte("categories: [")))
	if !errors.Is(err, ErrInvalidTaxonomy) {
		t.Fatalf("error = %v, want ErrInvalidTaxonomy", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	opts := []Option{
		WithValkey("localhost:6379", "secret", "facetdex:payload"),
		WithMaxResults(10),
		WithFuzzy(-1),
		WithBoosts(map[string]float64{"name": 3}),
		WithLogger(slog.Default()),
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.source != "valkey" || cfg.key != "facetdex:payload" || cfg.password != "secret" {
		t.Errorf("valkey options not applied: %+v", cfg)
	}
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.addrs)
	}
	if cfg.maxResults != 10 || cfg.fuzzy != -1 || cfg.boosts["name"] != 3 {
		t.Errorf("search options not applied: %+v", cfg)
	}
	if cfg.logger == nil {
		t.Error("logger not applied")
	}

	WithURL("http://example.com/p.json").apply(cfg)
	if cfg.source != "http" || cfg.url != "http://example.com/p.json" {
		t.Errorf("url option not applied: %+v", cfg)
	}
}

func TestClient_SearchText(t *testing.T) {
	c := newTestClient(t)
	view, err := c.Search(context.Background(), Query{Text: "pacino"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if view.Loading {
		t.Fatal("catalog should be loaded")
	}
	if len(view.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(view.Results))
	}
	if view.Results[0].ID != "al-pacino" {
		t.Errorf("first = %s, want al-pacino", view.Results[0].ID)
	}
	if len(view.Results[0].Links) != 1 || view.Results[0].Links[0].Type != "wiki" {
		t.Errorf("links = %+v", view.Results[0].Links)
	}
}

func TestClient_SearchShortPrefix(t *testing.T) {
	c := newTestClient(t)
	for _, tc := range []struct {
		text string
		want string
	}{
		{"the", "the-godfather"},
		{"a", "al-pacino"},
		{"god", "the-godfather"},
	} {
		view, err := c.Search(context.Background(), Query{Text: tc.text})
		if err != nil {
			t.Fatalf("Search(%q): %v", tc.text, err)
		}
		found := false
		for _, r := range view.Results {
			if r.ID == tc.want {
				found = true
			}
		}
		if !found {
			t.Errorf("Search(%q) missing %s", tc.text, tc.want)
		}
		if len(view.Available) == 0 {
			t.Errorf("Search(%q) returned no available tags", tc.text)
		}
	}
}

func TestClient_SearchFilters(t *testing.T) {
	c := newTestClient(t)
	view, err := c.Search(context.Background(), Query{
		Filters:   []Filter{{Category: "type", Tag: "movie"}, {Category: "genre", Tag: "crime", Modifier: ModifierExclude}},
		SortBy:    SortAlphabetical,
		Direction: Asc,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"airplane", "casablanca"}
	if len(view.Results) != len(want) {
		t.Fatalf("results = %+v", view.Results)
	}
	for i, id := range want {
		if view.Results[i].ID != id {
			t.Errorf("results[%d] = %s, want %s", i, view.Results[i].ID, id)
		}
	}
	if len(view.Available) != len(c.Taxonomy()) {
		t.Errorf("available groups = %d, want one per category", len(view.Available))
	}
	if view.Available[0].Category != "type" || view.Available[0].Label != "Type" {
		t.Errorf("first group = %+v", view.Available[0])
	}
}

func TestClient_SearchValidation(t *testing.T) {
	c := newTestClient(t)
	tests := []Query{
		{Filters: []Filter{{Category: "genre", Tag: "crime", Modifier: "maybe"}}},
		{Filters: []Filter{{Category: "genre"}}},
		{SortBy: "random"},
		{Direction: "up"},
	}
	for _, q := range tests {
		if _, err := c.Search(context.Background(), q); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Search(%+v) error = %v, want ErrInvalidRequest", q, err)
		}
	}
}

func TestClient_SearchError(t *testing.T) {
	c := newTestClient(t)
	c.searchSvc = &mockSearchUC{
		searchFn: func(_ context.Context, _ *request.Request) (searchuc.View, error) {
			return searchuc.View{}, errors.New("index down")
		},
	}
	if _, err := c.Search(context.Background(), Query{Text: "heat"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_StatsAndHealth(t *testing.T) {
	c := newTestClient(t)
	st := c.Stats()
	if st.Entities != 9 || st.Documents != 9 || st.Skipped != 0 {
		t.Errorf("stats = %+v", st)
	}
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["catalog"] != "ok" {
		t.Errorf("health = %+v", h)
	}
	if _, ok := h.Checks["valkey"]; ok {
		t.Error("valkey check must be absent for file sources")
	}
}

func TestClient_Prometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithPrometheus(reg))
	// A second client on the same registry reuses the collectors.
	c2 := newTestClient(t, WithPrometheus(reg))

	if _, err := c.Search(context.Background(), Query{Text: "heat"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := c2.Search(context.Background(), Query{SortBy: "random"}); err == nil {
		t.Fatal("expected validation error")
	}

	calls := c.obs.metrics.calls
	if got := testutil.ToFloat64(calls.WithLabelValues(opLoad, "ok")); got != 2 {
		t.Errorf("load ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(calls.WithLabelValues(opSearch, "ok")); got != 1 {
		t.Errorf("search ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(calls.WithLabelValues(opSearch, "error")); got != 1 {
		t.Errorf("search error = %v, want 1", got)
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	// Must not panic.
	o.observe(opSearch, time.Now(), nil)
	o.results(3)
}
