package search

import (
	"context"

	"github.com/kailas-cloud/facetdex/internal/domain/search/textquery"
	"github.com/kailas-cloud/facetdex/internal/usecase/facets"
)

// TextIndex runs free-text queries against the inverted index.
type TextIndex interface {
	Search(ctx context.Context, q string, opts textquery.Options) ([]textquery.Match, error)
}

// Corpus is the loaded entity store paired with its text index.
type Corpus struct {
	Entities facets.EntityReader
	Index    TextIndex
}

// Catalog publishes the corpus once it has loaded.
type Catalog interface {
	// Corpus returns false while the catalog is still loading.
	Corpus() (Corpus, bool)
}
