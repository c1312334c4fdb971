package chi

import (
	"fmt"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/entity"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/facetdex/internal/usecase/session"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	CodeBadRequest       ErrorResponseCode = "bad_request"
	CodeValidationFailed ErrorResponseCode = "validation_failed"
	CodeUnauthorized     ErrorResponseCode = "unauthorized"
	CodeSessionNotFound  ErrorResponseCode = "session_not_found"
	CodeSessionLimit     ErrorResponseCode = "session_limit_reached"
	CodeCatalogLoading   ErrorResponseCode = "catalog_loading"
	CodeInternalError    ErrorResponseCode = "internal_error"
	CodeNotFound         ErrorResponseCode = "not_found"
	CodeMethodNotAllowed ErrorResponseCode = "method_not_allowed"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Filter is a selected tag on the wire.
type Filter struct {
	Category string `json:"category"`
	Tag      string `json:"tag"`
	Modifier string `json:"modifier,omitempty"`
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query         string   `json:"query"`
	Filters       []Filter `json:"filters"`
	SortBy        string   `json:"sort_by"`
	SortDirection string   `json:"sort_direction"`
}

// SearchQueryRequest is the body of PUT /sessions/{id}/search.
type SearchQueryRequest struct {
	Query string `json:"query"`
}

// FiltersRequest is the body of PUT /sessions/{id}/filters.
type FiltersRequest struct {
	Filters []Filter `json:"filters"`
}

// SortRequest is the body of PUT /sessions/{id}/sort. Omitted fields keep their value.
type SortRequest struct {
	SortBy        *string `json:"sort_by"`
	SortDirection *string `json:"sort_direction"`
}

// ToggleTagRequest is the body of POST /sessions/{id}/tags/toggle.
type ToggleTagRequest struct {
	Category string `json:"category"`
	Tag      string `json:"tag"`
}

// TagRequest is the body of the tag cycle and remove endpoints.
type TagRequest struct {
	Tag string `json:"tag"`
}

// ResultItem is one search hit.
type ResultItem struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Links       []entity.Link `json:"links,omitempty"`
	Score       float64       `json:"score"`
}

// AvailableGroup lists a category's selectable tags in display order.
type AvailableGroup struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// ViewResponse is the derived view of a search state.
type ViewResponse struct {
	Loading   bool             `json:"loading"`
	Results   []ResultItem     `json:"results"`
	Available []AvailableGroup `json:"available_tags"`
}

// SessionResponse is a session's state with its view.
type SessionResponse struct {
	ID            string       `json:"id"`
	Query         string       `json:"query"`
	Filters       []Filter     `json:"filters"`
	SortBy        string       `json:"sort_by"`
	SortDirection string       `json:"sort_direction"`
	Revision      uint64       `json:"revision"`
	View          ViewResponse `json:"view"`
}

// TagLabel is a tag with its humanized label.
type TagLabel struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

// CategoryResponse is one taxonomy category.
type CategoryResponse struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Tags  []TagLabel `json:"tags"`
}

// TaxonomyResponse is the body of GET /api/v1/taxonomy.
type TaxonomyResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func filtersFromDTO(in []Filter) ([]filter.Filter, error) {
	out := make([]filter.Filter, 0, len(in))
	for i, f := range in {
		m, err := filter.ParseModifier(f.Modifier)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("filters[%d]", i), err.Error())
		}
		ff, err := filter.New(f.Category, f.Tag, m)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("filters[%d]", i), err.Error())
		}
		out = append(out, ff)
	}
	return out, nil
}

func filtersToDTO(in filter.Set) []Filter {
	out := make([]Filter, len(in))
	for i, f := range in {
		out[i] = Filter{Category: f.Category, Tag: f.Tag, Modifier: string(f.Modifier)}
	}
	return out
}

func searchRequestFromDTO(in SearchRequest) (request.Request, error) {
	fs, err := filtersFromDTO(in.Filters)
	if err != nil {
		return request.Request{}, err
	}
	return request.New(in.Query, fs, order.SortBy(in.SortBy), order.Direction(in.SortDirection))
}

func resultToDTO(r *result.Result) ResultItem {
	return ResultItem{
		ID:          r.ID(),
		Type:        r.Type(),
		Name:        r.Name(),
		Description: r.Description(),
		Tags:        r.Tags(),
		Links:       r.Links(),
		Score:       r.Score(),
	}
}

func viewToDTO(v searchuc.View, tax *taxonomy.Taxonomy) ViewResponse {
	items := make([]ResultItem, len(v.Results))
	for i := range v.Results {
		items[i] = resultToDTO(&v.Results[i])
	}
	groups := v.Available.Ordered(tax)
	available := make([]AvailableGroup, len(groups))
	for i, g := range groups {
		available[i] = AvailableGroup{Category: g.Category, Tags: g.Tags}
	}
	return ViewResponse{Loading: v.Loading, Results: items, Available: available}
}

func sessionToDTO(st sessionuc.State, v searchuc.View, tax *taxonomy.Taxonomy) SessionResponse {
	return SessionResponse{
		ID:            st.ID,
		Query:         st.Search,
		Filters:       filtersToDTO(st.Filters),
		SortBy:        string(st.SortBy),
		SortDirection: string(st.Direction),
		Revision:      st.Revision,
		View:          viewToDTO(v, tax),
	}
}

func taxonomyToDTO(tax *taxonomy.Taxonomy) TaxonomyResponse {
	cats := make([]CategoryResponse, 0, len(tax.Categories()))
	for _, c := range tax.Categories() {
		tags := make([]TagLabel, len(c.Children()))
		for i, child := range c.Children() {
			tags[i] = TagLabel{Tag: child, Label: taxonomy.Label(child)}
		}
		cats = append(cats, CategoryResponse{ID: c.ID(), Label: c.Label(), Tags: tags})
	}
	return TaxonomyResponse{Categories: cats}
}
