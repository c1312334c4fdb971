// Package session holds per-client search state and derives its view.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/usecase/search"
)

// State is a point-in-time copy of a session's inputs.
type State struct {
	ID        string
	Search    string
	Filters   filter.Set
	SortBy    order.SortBy
	Direction order.Direction
	Revision  uint64
}

// Session is one client's search state. Every mutation replaces the
// filter list wholesale and bumps the revision; the view is memoized per
// revision.
type Session struct {
	mu        sync.Mutex
	id        string
	search    string
	filters   filter.Set
	sortBy    order.SortBy
	direction order.Direction
	revision  uint64
	lastUsed  time.Time

	cached   *search.View
	cachedAt uint64
}

// New creates a session with an empty query, no filters and default ordering.
func New(id string) *Session {
	return &Session{
		id:        id,
		sortBy:    request.DefaultSortBy,
		direction: request.DefaultDirection,
		lastUsed:  time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns a copy of the current inputs.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		ID:        s.id,
		Search:    s.search,
		Filters:   s.filters,
		SortBy:    s.sortBy,
		Direction: s.direction,
		Revision:  s.revision,
	}
}

// Search returns the current query text.
func (s *Session) Search() string { return s.State().Search }

// Filters returns the current filter list.
func (s *Session) Filters() filter.Set { return s.State().Filters }

// SortBy returns the current ordering criterion.
func (s *Session) SortBy() order.SortBy { return s.State().SortBy }

// SortDirection returns the current sort direction.
func (s *Session) SortDirection() order.Direction { return s.State().Direction }

// SetSearch replaces the query text.
func (s *Session) SetSearch(q string) error {
	if len(q) > request.MaxQueryLength {
		return domain.NewValidationError("query", fmt.Sprintf("too long (max %d chars)", request.MaxQueryLength))
	}
	s.mutate(func() { s.search = q })
	return nil
}

// SetFilters replaces the filter list.
func (s *Session) SetFilters(fs []filter.Filter) error {
	set, err := validateFilters(fs)
	if err != nil {
		return err
	}
	s.mutate(func() { s.filters = set })
	return nil
}

// SetSortBy replaces the ordering criterion.
func (s *Session) SetSortBy(by order.SortBy) error {
	if !by.IsValid() {
		return domain.NewValidationError("sort_by", fmt.Sprintf("invalid sort option %q", by))
	}
	s.mutate(func() { s.sortBy = by })
	return nil
}

// SetSortDirection replaces the sort direction.
func (s *Session) SetSortDirection(d order.Direction) error {
	if !d.IsValid() {
		return domain.NewValidationError("sort_direction", fmt.Sprintf("invalid direction %q", d))
	}
	s.mutate(func() { s.direction = d })
	return nil
}

// ToggleSortDirection flips between ascending and descending.
func (s *Session) ToggleSortDirection() {
	s.mutate(func() { s.direction = s.direction.Toggle() })
}

// ToggleTag selects tag in category with the none modifier, or deselects it
// when it is already selected.
func (s *Session) ToggleTag(category, tag string) error {
	if _, err := filter.New(category, tag, filter.None); err != nil {
		return domain.NewValidationError("filters", err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.filters.Toggle(category, tag)
	if len(next) > filter.MaxFilters {
		return domain.NewValidationError("filters", fmt.Sprintf("too many filters (max %d)", filter.MaxFilters))
	}
	s.filters = next
	s.bumpLocked()
	return nil
}

// CycleModifier advances the modifier of a selected tag. Unselected tags are ignored.
func (s *Session) CycleModifier(tag string) {
	s.mutate(func() { s.filters = s.filters.Cycle(tag) })
}

// RemoveFilter deselects tag.
func (s *Session) RemoveFilter(tag string) {
	s.mutate(func() { s.filters = s.filters.Remove(tag) })
}

// ClearFilters deselects every tag.
func (s *Session) ClearFilters() {
	s.mutate(func() { s.filters = nil })
}

// View returns the derived view for the current state, recomputing only
// when the state changed since the last call. Loading views are never cached.
func (s *Session) View(ctx context.Context, searcher Searcher) (search.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()

	if s.cached != nil && s.cachedAt == s.revision {
		return *s.cached, nil
	}

	req, err := request.New(s.search, s.filters, s.sortBy, s.direction)
	if err != nil {
		return search.View{}, fmt.Errorf("build request: %w", err)
	}
	v, err := searcher.Search(ctx, &req)
	if err != nil {
		return search.View{}, fmt.Errorf("compute view: %w", err)
	}
	if !v.Loading {
		s.cached = &v
		s.cachedAt = s.revision
	}
	return v, nil
}

// LastUsed returns when the session was last read or changed.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch(at time.Time) {
	s.mu.Lock()
	s.lastUsed = at
	s.mu.Unlock()
}

func (s *Session) mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.bumpLocked()
}

func (s *Session) bumpLocked() {
	s.revision++
	s.lastUsed = time.Now()
}

func validateFilters(fs []filter.Filter) (filter.Set, error) {
	for _, f := range fs {
		if _, err := filter.New(f.Category, f.Tag, f.Modifier); err != nil {
			return nil, domain.NewValidationError("filters", err.Error())
		}
	}
	set, err := filter.NewSet(fs...)
	if err != nil {
		return nil, domain.NewValidationError("filters", err.Error())
	}
	for i := range set {
		if set[i].Modifier == "" {
			set[i].Modifier = filter.None
		}
	}
	return set, nil
}
