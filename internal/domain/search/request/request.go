package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
)

// Search parameter limits and defaults.
const (
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength   = 4096
	DefaultSortBy    = order.Relevance
	DefaultDirection = order.Desc
)

// Request is a validated search state: query text, filters and ordering.
type Request struct {
	query     string
	filters   filter.Set
	sortBy    order.SortBy
	direction order.Direction
}

// New validates and normalizes search parameters.
// Defaults: sortBy=relevance, direction=desc.
func New(query string, filters filter.Set, sortBy order.SortBy, direction order.Direction) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, domain.NewValidationError("query", fmt.Sprintf("too long (max %d chars)", MaxQueryLength))
	}
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if !sortBy.IsValid() {
		return Request{}, domain.NewValidationError("sort_by", fmt.Sprintf("invalid sort option %q", sortBy))
	}
	if direction == "" {
		direction = DefaultDirection
	}
	if !direction.IsValid() {
		return Request{}, domain.NewValidationError("sort_direction", fmt.Sprintf("invalid direction %q", direction))
	}
	set, err := filter.NewSet(filters...)
	if err != nil {
		return Request{}, domain.NewValidationError("filters", err.Error())
	}
	for _, f := range set {
		if !f.Modifier.IsValid() {
			return Request{}, domain.NewValidationError("filters", fmt.Sprintf("invalid modifier %q", f.Modifier))
		}
	}

	return Request{
		query:     query,
		filters:   set,
		sortBy:    sortBy,
		direction: direction,
	}, nil
}

// Query returns the raw search text.
func (r *Request) Query() string { return r.query }

// HasText reports whether the query contains non-whitespace text.
func (r *Request) HasText() bool { return strings.TrimSpace(r.query) != "" }

// Filters returns the selected filters.
func (r *Request) Filters() filter.Set { return r.filters }

// SortBy returns the ordering criterion.
func (r *Request) SortBy() order.SortBy { return r.sortBy }

// Direction returns the sort direction.
func (r *Request) Direction() order.Direction { return r.direction }
