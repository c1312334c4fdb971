package facetdex

import (
	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

// Modifier changes how a selected tag constrains its category.
type Modifier string

// Tag modifiers. The zero value behaves as ModifierNone.
const (
	ModifierNone    Modifier = "none"
	ModifierInclude Modifier = "include"
	ModifierExclude Modifier = "exclude"
)

// SortBy is the result ordering criterion.
type SortBy string

// Sort criteria. The zero value is SortRelevance.
const (
	SortRelevance    SortBy = "relevance"
	SortAlphabetical SortBy = "alphabetical"
	SortType         SortBy = "type"
)

// Direction is the sort direction. The zero value is Desc.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter selects a tag within a category.
type Filter struct {
	Category string
	Tag      string
	Modifier Modifier
}

// Query is a complete search state.
type Query struct {
	Text      string
	Filters   []Filter
	SortBy    SortBy
	Direction Direction
}

// Link is an external reference attached to a result.
type Link struct {
	URL   string
	Title string
	Type  string
}

// Result is one ranked catalog entry.
type Result struct {
	ID          string
	Type        string
	Name        string
	Description string
	Tags        []string
	Links       []Link
	Score       float64
}

// TagGroup lists the tags still selectable in one category, in taxonomy order.
type TagGroup struct {
	Category string
	Label    string
	Tags     []string
}

// View is the derived state of a query.
type View struct {
	Results   []Result
	Available []TagGroup
	Loading   bool
}

// Category is one taxonomy category with its known tags.
type Category struct {
	ID    string
	Label string
	Tags  []string
}

func toFilters(fs []Filter) ([]filter.Filter, error) {
	out := make([]filter.Filter, 0, len(fs))
	for _, f := range fs {
		m, err := filter.ParseModifier(string(f.Modifier))
		if err != nil {
			return nil, domain.NewValidationError("filters", err.Error())
		}
		df, err := filter.New(f.Category, f.Tag, m)
		if err != nil {
			return nil, domain.NewValidationError("filters", err.Error())
		}
		out = append(out, df)
	}
	return out, nil
}

func fromFilters(fs filter.Set) []Filter {
	out := make([]Filter, len(fs))
	for i, f := range fs {
		out[i] = Filter{Category: f.Category, Tag: f.Tag, Modifier: Modifier(f.Modifier)}
	}
	return out
}

func toView(v searchuc.View, tax *taxonomy.Taxonomy) View {
	out := View{
		Loading: v.Loading,
		Results: make([]Result, 0, len(v.Results)),
	}
	for i := range v.Results {
		r := &v.Results[i]
		links := make([]Link, len(r.Links()))
		for j, l := range r.Links() {
			links[j] = Link{URL: l.URL, Title: l.Title, Type: l.Type}
		}
		out.Results = append(out.Results, Result{
			ID:          r.ID(),
			Type:        r.Type(),
			Name:        r.Name(),
			Description: r.Description(),
			Tags:        r.Tags(),
			Links:       links,
			Score:       r.Score(),
		})
	}
	for _, g := range v.Available.Ordered(tax) {
		label := g.Category
		if c, ok := tax.Category(g.Category); ok {
			label = c.Label()
		}
		out.Available = append(out.Available, TagGroup{Category: g.Category, Label: label, Tags: g.Tags})
	}
	return out
}
