package facetdex

import (
	"context"
	"time"

	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	sessionuc "github.com/kailas-cloud/facetdex/internal/usecase/session"
)

// Session holds one user's evolving search state. Each mutation replaces
// the state; View recomputes only after a change. Safe for concurrent use.
type Session struct {
	inner    *sessionuc.Session
	searcher sessionuc.Searcher
	tax      *taxonomy.Taxonomy
	obs      *observer
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.inner.ID() }

// Query returns the current search text.
func (s *Session) Query() string { return s.inner.Search() }

// Filters returns the selected tags in selection order.
func (s *Session) Filters() []Filter { return fromFilters(s.inner.Filters()) }

// SortBy returns the ordering criterion.
func (s *Session) SortBy() SortBy { return SortBy(s.inner.SortBy()) }

// SortDirection returns the sort direction.
func (s *Session) SortDirection() Direction { return Direction(s.inner.SortDirection()) }

// SetQuery replaces the search text.
func (s *Session) SetQuery(q string) error { return s.inner.SetSearch(q) }

// SetFilters replaces the selected tags wholesale.
func (s *Session) SetFilters(fs []Filter) error {
	df, err := toFilters(fs)
	if err != nil {
		return err
	}
	return s.inner.SetFilters(df)
}

// SetSortBy replaces the ordering criterion.
func (s *Session) SetSortBy(by SortBy) error { return s.inner.SetSortBy(order.SortBy(by)) }

// SetSortDirection replaces the sort direction.
func (s *Session) SetSortDirection(d Direction) error {
	return s.inner.SetSortDirection(order.Direction(d))
}

// ToggleSortDirection flips between ascending and descending.
func (s *Session) ToggleSortDirection() { s.inner.ToggleSortDirection() }

// ToggleTag selects tag in category, or deselects it when already selected.
func (s *Session) ToggleTag(category, tag string) error { return s.inner.ToggleTag(category, tag) }

// CycleModifier advances a selected tag from none to include to exclude and
// back to none.
func (s *Session) CycleModifier(tag string) { s.inner.CycleModifier(tag) }

// RemoveFilter deselects tag.
func (s *Session) RemoveFilter(tag string) { s.inner.RemoveFilter(tag) }

// ClearFilters deselects every tag.
func (s *Session) ClearFilters() { s.inner.ClearFilters() }

// View returns the derived view of the current state.
func (s *Session) View(ctx context.Context) (view View, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opView, start, err, "session", s.inner.ID()) }()

	v, err := s.inner.View(ctx, s.searcher)
	if err != nil {
		return View{}, err
	}
	view = toView(v, s.tax)
	s.obs.results(len(view.Results))
	return view, nil
}
