// Package search computes the derived search view: ranked, filtered and
// sorted results plus the tags still available for narrowing.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/domain/search/textquery"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	"github.com/kailas-cloud/facetdex/internal/logger"
	"github.com/kailas-cloud/facetdex/internal/metrics"
	"github.com/kailas-cloud/facetdex/internal/usecase/facets"
)

// Pipeline modes, used as metric labels.
const (
	ModeText    = "text"
	ModeBrowse  = "browse"
	ModeEmpty   = "empty"
	ModeLoading = "loading"
)

// Default pipeline limits.
const (
	DefaultMaxResults    = 40
	DefaultMaxCandidates = 100
)

// Config tunes the result pipeline.
type Config struct {
	MaxResults     int
	MaxCandidates  int
	Fuzzy          float64
	FuzzyMinLength int
	Boosts         map[string]float64
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxResults:     DefaultMaxResults,
		MaxCandidates:  DefaultMaxCandidates,
		Fuzzy:          textquery.DefaultFuzzy,
		FuzzyMinLength: textquery.DefaultFuzzyMinLength,
		Boosts:         textquery.DefaultBoosts(),
	}
}

// View is everything a client renders for one search state.
type View struct {
	Results   []result.Result
	Available facets.Available
	Loading   bool
}

// Service runs the result pipeline and the available-tags calculator.
type Service struct {
	catalog Catalog
	tax     *taxonomy.Taxonomy
	facets  *facets.Calculator
	cfg     Config
}

// New creates a search service. Zero-valued config fields take defaults;
// a negative Fuzzy disables fuzzy matching.
func New(catalog Catalog, tax *taxonomy.Taxonomy, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = def.MaxCandidates
	}
	switch {
	case cfg.Fuzzy == 0:
		cfg.Fuzzy = def.Fuzzy
	case cfg.Fuzzy < 0: // disabled
		cfg.Fuzzy = 0
	}
	if cfg.FuzzyMinLength <= 0 {
		cfg.FuzzyMinLength = def.FuzzyMinLength
	}
	if cfg.Boosts == nil {
		cfg.Boosts = def.Boosts
	}
	return &Service{catalog: catalog, tax: tax, facets: facets.New(tax), cfg: cfg}
}

// Taxonomy returns the taxonomy the service filters against.
func (s *Service) Taxonomy() *taxonomy.Taxonomy { return s.tax }

// Loading reports whether the catalog has not been published yet.
func (s *Service) Loading() bool {
	_, ok := s.catalog.Corpus()
	return !ok
}

// Search computes the view for req. While the catalog is loading the view
// is empty and marked as loading.
func (s *Service) Search(ctx context.Context, req *request.Request) (View, error) {
	corpus, ok := s.catalog.Corpus()
	if !ok {
		metrics.SearchRequestsTotal.WithLabelValues(ModeLoading).Inc()
		return View{Available: facets.Empty(s.tax), Loading: true}, nil
	}

	start := time.Now()
	mode := ModeEmpty
	var (
		results  []result.Result
		matchIDs []string
	)

	switch {
	case req.HasText():
		mode = ModeText
		matches, err := s.textMatches(ctx, corpus.Index, req.Query())
		if err != nil {
			return View{}, err
		}
		matchIDs = make([]string, len(matches))
		for i, m := range matches {
			matchIDs[i] = m.ID
		}
		if len(matches) > s.cfg.MaxCandidates {
			matches = matches[:s.cfg.MaxCandidates]
		}
		results = fromMatches(corpus.Entities, matches)
	case !req.Filters().IsEmpty():
		mode = ModeBrowse
		results = browse(corpus.Entities)
	}

	if !req.Filters().IsEmpty() {
		results = s.applyFilters(corpus.Entities, results, req.Filters())
	}

	sortResults(results, req.SortBy(), req.Direction())
	if len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}

	metrics.SearchRequestsTotal.WithLabelValues(mode).Inc()
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(results)))

	facetsStart := time.Now()
	var available facets.Available
	if mode == ModeText {
		available = s.facets.ComputeWithin(corpus.Entities, req.Filters(), matchIDs)
	} else {
		available = s.facets.Compute(corpus.Entities, req.Filters())
	}
	metrics.FacetsDuration.Observe(time.Since(facetsStart).Seconds())

	logger.FromContext(ctx).Debug("search computed",
		zap.String("mode", mode),
		zap.Int("filters", len(req.Filters())),
		zap.Int("results", len(results)),
		zap.Int("available", available.Len()),
		zap.Duration("duration", time.Since(start)),
	)

	return View{Results: results, Available: available}, nil
}

// textMatches returns every index match for q, best first.
func (s *Service) textMatches(ctx context.Context, idx TextIndex, q string) ([]textquery.Match, error) {
	opts := textquery.ForQuery(q, s.cfg.Fuzzy, s.cfg.FuzzyMinLength, s.cfg.Boosts, 0)
	matches, err := idx.Search(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return matches, nil
}

// fromMatches projects index matches onto stored entities. Ids missing from
// the store are dropped.
func fromMatches(entities facets.EntityReader, matches []textquery.Match) []result.Result {
	out := make([]result.Result, 0, len(matches))
	for _, m := range matches {
		e, ok := entities.Get(m.ID)
		if !ok {
			continue
		}
		out = append(out, result.FromEntity(e, m.Score))
	}
	return out
}

// browse returns every entity in load order with a zero score.
func browse(entities facets.EntityReader) []result.Result {
	out := make([]result.Result, 0, entities.Len())
	for i := range entities.Len() {
		out = append(out, result.FromEntity(entities.At(i), 0))
	}
	return out
}

func (s *Service) applyFilters(entities facets.EntityReader, rs []result.Result, fs filter.Set) []result.Result {
	expr := filter.Compile(fs)
	categories := s.tax.IDs()
	out := rs[:0]
	for _, r := range rs {
		e, ok := entities.Get(r.ID())
		if !ok {
			continue
		}
		if expr.MatchesAll(e.Values(), categories) {
			out = append(out, r)
		}
	}
	return out
}
