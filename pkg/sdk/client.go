package facetdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	dbValkey "github.com/kailas-cloud/facetdex/internal/db/valkey"
	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	"github.com/kailas-cloud/facetdex/internal/payload"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/facetdex/internal/usecase/session"
)

const defaultTimeout = 30 * time.Second

// searchUseCase is the internal interface for computing views.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.View, error)
}

// Client is the facetdex SDK entry point. It is safe for concurrent use.
type Client struct {
	tax       *taxonomy.Taxonomy
	catalog   *cataloguc.Service
	store     *dbValkey.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New loads the catalog from the configured source and returns a ready
// Client. The provided context bounds the load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.source == "" {
		return nil, errors.New("facetdex: payload source required (use WithFile, WithURL or WithValkey)")
	}

	tax := taxonomy.Default()
	if cfg.taxonomyYAML != nil {
		var err error
		if tax, err = taxonomy.Parse(cfg.taxonomyYAML); err != nil {
			return nil, fmt.Errorf("facetdex: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	src, store, err := createSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	catalog := cataloguc.New(nil)
	start := time.Now()
	loadCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	err = catalog.Load(loadCtx, src)
	cancel()
	obs.observe(opLoad, start, err, "source", src.Kind())
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("facetdex: load catalog: %w", err)
	}

	return wireClient(tax, catalog, store, cfg, obs), nil
}

func createSource(ctx context.Context, cfg *clientConfig) (payload.Source, *dbValkey.Store, error) {
	switch cfg.source {
	case "file":
		return &payload.FileSource{Path: cfg.path}, nil, nil
	case "http":
		return payload.NewHTTPSource(cfg.url, cfg.timeout), nil, nil
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("facetdex: create valkey store: %w", err)
		}
		if err := s.WaitForReady(ctx, cfg.timeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("facetdex: valkey not ready: %w", err)
		}
		return &payload.KVSource{Store: s, Key: cfg.key}, s, nil
	default:
		return nil, nil, fmt.Errorf("facetdex: %w: %q", domain.ErrUnknownSource, cfg.source)
	}
}

func wireClient(
	tax *taxonomy.Taxonomy, catalog *cataloguc.Service, store *dbValkey.Store,
	cfg *clientConfig, obs *observer,
) *Client {
	searchCfg := searchuc.DefaultConfig()
	if cfg.maxResults > 0 {
		searchCfg.MaxResults = cfg.maxResults
	}
	if cfg.fuzzy != 0 {
		searchCfg.Fuzzy = cfg.fuzzy
	}
	if cfg.boosts != nil {
		searchCfg.Boosts = cfg.boosts
	}

	// Pass nil interface (not typed nil pointer!) when valkey is not used.
	var pinger healthuc.KVPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		tax:       tax,
		catalog:   catalog,
		store:     store,
		searchSvc: searchuc.New(catalog, tax, searchCfg),
		healthSvc: healthuc.New(catalog, pinger),
		obs:       obs,
	}
}

// Close releases the index and the Valkey connection.
func (c *Client) Close() {
	if c.catalog != nil {
		_ = c.catalog.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Search computes the view for one query.
func (c *Client) Search(ctx context.Context, q Query) (view View, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, start, err, "results", len(view.Results)) }()

	fs, err := toFilters(q.Filters)
	if err != nil {
		return View{}, err
	}
	req, err := request.New(q.Text, fs, order.SortBy(q.SortBy), order.Direction(q.Direction))
	if err != nil {
		return View{}, err
	}
	v, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return View{}, fmt.Errorf("search: %w", err)
	}
	view = toView(v, c.tax)
	c.obs.results(len(view.Results))
	return view, nil
}

// NewSession starts an interactive session with an empty query.
func (c *Client) NewSession() *Session {
	return &Session{
		inner:    sessionuc.New(uuid.NewString()),
		searcher: c.searchSvc,
		tax:      c.tax,
		obs:      c.obs,
	}
}

// Taxonomy lists the categories filters apply to, in display order.
func (c *Client) Taxonomy() []Category {
	out := make([]Category, 0, len(c.tax.Categories()))
	for _, cat := range c.tax.Categories() {
		out = append(out, Category{ID: cat.ID(), Label: cat.Label(), Tags: cat.Children()})
	}
	return out
}

// CatalogStats describes the loaded catalog.
type CatalogStats struct {
	Source    string
	Documents int
	Entities  int
	Skipped   int
	Fields    []string
	LoadedAt  time.Time
	Duration  time.Duration
}

// Stats returns load statistics of the catalog.
func (c *Client) Stats() CatalogStats {
	st, ok := c.catalog.Stats()
	if !ok {
		return CatalogStats{}
	}
	return CatalogStats{
		Source:    st.Source,
		Documents: st.Documents,
		Entities:  st.Entities,
		Skipped:   st.MissingID + st.Duplicates,
		Fields:    st.Fields,
		LoadedAt:  st.LoadedAt,
		Duration:  st.Duration,
	}
}
