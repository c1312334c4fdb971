package search

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/search/result"
)

// sortResults orders rs in place. The sort is stable, so equal keys keep
// their incoming order (index rank for text queries, load order otherwise).
func sortResults(rs []result.Result, by order.SortBy, dir order.Direction) {
	sign := dir.Sign()
	switch by {
	case order.Alphabetical:
		coll := collate.New(language.English)
		slices.SortStableFunc(rs, func(a, b result.Result) int {
			return sign * coll.CompareString(a.Name(), b.Name())
		})
	case order.Type:
		coll := collate.New(language.English)
		slices.SortStableFunc(rs, func(a, b result.Result) int {
			if c := coll.CompareString(a.Type(), b.Type()); c != 0 {
				return sign * c
			}
			return coll.CompareString(a.Name(), b.Name())
		})
	default:
		slices.SortStableFunc(rs, func(a, b result.Result) int {
			return sign * cmp.Compare(a.Score(), b.Score())
		})
	}
}
