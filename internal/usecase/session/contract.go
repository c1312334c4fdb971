package session

import (
	"context"

	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/usecase/search"
)

// Searcher computes the derived view for a search state.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (search.View, error)
}
