// Package catalog loads the payload once and publishes the entity store and
// text index together as an immutable snapshot.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/metrics"
	"github.com/kailas-cloud/facetdex/internal/payload"
	entityrepo "github.com/kailas-cloud/facetdex/internal/repository/entity"
	"github.com/kailas-cloud/facetdex/internal/repository/index"
	"github.com/kailas-cloud/facetdex/internal/usecase/search"
)

// ErrAlreadyLoaded is returned by Load once a snapshot is published.
var ErrAlreadyLoaded = errors.New("catalog already loaded")

// Stats describes the published snapshot.
type Stats struct {
	Source     string
	Documents  int
	Entities   int
	MissingID  int
	Duplicates int
	Fields     []string
	LoadedAt   time.Time
	Duration   time.Duration
}

type snapshot struct {
	store *entityrepo.Store
	index *index.Index
	stats Stats
}

// Service owns the catalog lifecycle. Until Load succeeds every reader
// observes the loading state.
type Service struct {
	current atomic.Pointer[snapshot]
	started atomic.Bool
	logger  *zap.Logger
}

// New creates an unloaded catalog.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Loaded reports whether the snapshot has been published.
func (s *Service) Loaded() bool { return s.current.Load() != nil }

// Corpus implements search.Catalog.
func (s *Service) Corpus() (search.Corpus, bool) {
	snap := s.current.Load()
	if snap == nil {
		return search.Corpus{}, false
	}
	return search.Corpus{Entities: snap.store, Index: snap.index}, true
}

// Stats returns load statistics once loaded.
func (s *Service) Stats() (Stats, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Stats{}, false
	}
	return snap.stats, true
}

// Load fetches, decodes and indexes the payload, then publishes it. It may
// run at most once; a failed load leaves the catalog loading and is not retried.
func (s *Service) Load(ctx context.Context, src payload.Source) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyLoaded
	}

	start := time.Now()
	log := s.logger.With(zap.String("source", src.Kind()))
	log.Info("Loading catalog")

	snap, err := build(ctx, src)
	if err != nil {
		log.Error("Catalog load failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	snap.stats.LoadedAt = time.Now()
	snap.stats.Duration = time.Since(start)
	s.current.Store(snap)

	metrics.CatalogDocuments.Set(float64(snap.stats.Entities))
	metrics.CatalogLoaded.Set(1)

	log.Info("Catalog loaded",
		zap.Int("documents", snap.stats.Documents),
		zap.Int("entities", snap.stats.Entities),
		zap.Int("missing_id", snap.stats.MissingID),
		zap.Int("duplicates", snap.stats.Duplicates),
		zap.Strings("fields", snap.stats.Fields),
		zap.Duration("duration", snap.stats.Duration),
	)
	return nil
}

func build(ctx context.Context, src payload.Source) (*snapshot, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch payload: %w", err)
	}
	p, err := payload.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	ents, docs, st := p.Entities()
	idxDocs := make([]index.Document, len(docs))
	for i, d := range docs {
		fields := make(map[string][]string, len(p.Fields))
		for _, f := range p.Fields {
			if v := d.Field(f); len(v) > 0 {
				fields[f] = v
			}
		}
		idxDocs[i] = index.Document{ID: d.ID, Fields: fields}
	}

	idx, err := index.Build(ctx, p.Fields, idxDocs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &snapshot{
		store: entityrepo.New(ents),
		index: idx,
		stats: Stats{
			Source:     src.Kind(),
			Documents:  st.Documents,
			Entities:   st.Entities,
			MissingID:  st.MissingID,
			Duplicates: st.Duplicates,
			Fields:     p.Fields,
		},
	}, nil
}

// Close releases the published index.
func (s *Service) Close() error {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	if err := snap.index.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}
