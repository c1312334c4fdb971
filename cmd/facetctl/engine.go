package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	"github.com/kailas-cloud/facetdex/internal/domain/search/request"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	"github.com/kailas-cloud/facetdex/internal/payload"
	cataloguc "github.com/kailas-cloud/facetdex/internal/usecase/catalog"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

const defaultTimeout = 30 * time.Second

var errNoPayload = errors.New("one of --payload or --url is required")

// engine is a loaded catalog with a search service over it.
type engine struct {
	tax     *taxonomy.Taxonomy
	catalog *cataloguc.Service
	search  *searchuc.Service
}

func openEngine(c *cli.Context) (*engine, error) {
	tax, err := taxonomy.Load(c.String("taxonomy"))
	if err != nil {
		return nil, err
	}

	var src payload.Source
	switch {
	case c.String("payload") != "":
		src = &payload.FileSource{Path: c.String("payload")}
	case c.String("url") != "":
		src = payload.NewHTTPSource(c.String("url"), c.Duration("timeout"))
	default:
		return nil, errNoPayload
	}

	catalog := cataloguc.New(loggerFrom(c))
	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	if err := catalog.Load(ctx, src); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return &engine{
		tax:     tax,
		catalog: catalog,
		search:  searchuc.New(catalog, tax, searchuc.DefaultConfig()),
	}, nil
}

func (e *engine) Close() { _ = e.catalog.Close() }

// parseFilter reads category:tag[:modifier]. The modifier defaults to none.
func parseFilter(s string) (filter.Filter, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) < 2 {
		return filter.Filter{}, domain.NewValidationError("filter", fmt.Sprintf("%q must be category:tag[:modifier]", s))
	}
	var mod string
	if len(parts) == 3 {
		mod = parts[2]
	}
	m, err := filter.ParseModifier(mod)
	if err != nil {
		return filter.Filter{}, domain.NewValidationError("filter", err.Error())
	}
	f, err := filter.New(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), m)
	if err != nil {
		return filter.Filter{}, domain.NewValidationError("filter", err.Error())
	}
	return f, nil
}

func parseFilters(raw []string) (filter.Set, error) {
	fs := make([]filter.Filter, 0, len(raw))
	for _, s := range raw {
		f, err := parseFilter(s)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, nil
}

// requestFrom builds a search request from the query flags.
func requestFrom(c *cli.Context) (*request.Request, error) {
	fs, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return nil, err
	}
	req, err := request.New(
		c.String("query"),
		fs,
		order.SortBy(c.String("sort")),
		order.Direction(c.String("dir")),
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
