package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	dbValkey "github.com/kailas-cloud/facetdex/internal/db/valkey"
	"github.com/kailas-cloud/facetdex/internal/domain/taxonomy"
	"github.com/kailas-cloud/facetdex/internal/payload"
	"github.com/kailas-cloud/facetdex/internal/usecase/facets"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
)

func contextWithTimeout(c *cli.Context) (context.Context, context.CancelFunc) {
	d := c.Duration("timeout")
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(c.Context, d)
}

func taxonomyCommand(c *cli.Context) error {
	tax, err := taxonomy.Load(c.String("taxonomy"))
	if err != nil {
		return err
	}
	printTaxonomy(c.App.Writer, tax)
	return nil
}

func searchCommand(c *cli.Context) error {
	req, err := requestFrom(c)
	if err != nil {
		return err
	}
	eng, err := openEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	view, err := eng.search.Search(c.Context, req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, toJSONView(view, eng.tax))
	}
	printResults(c.App.Writer, view)
	printAvailable(c.App.Writer, view.Available, eng.tax)
	return nil
}

func facetsCommand(c *cli.Context) error {
	req, err := requestFrom(c)
	if err != nil {
		return err
	}
	eng, err := openEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	view, err := eng.search.Search(c.Context, req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	printAvailable(c.App.Writer, view.Available, eng.tax)
	return nil
}

func publishCommand(c *cli.Context) error {
	path := c.String("payload")
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read payload %s: %w", path, err)
	}
	p, err := payload.DecodeBytes(data)
	if err != nil {
		return err
	}
	ents, _, st := p.Entities()

	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    c.StringSlice("valkey-addr"),
		Password: c.String("valkey-password"),
	})
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer store.Close()

	ctx, cancel := contextWithTimeout(c)
	defer cancel()
	if err := store.WaitForReady(ctx, c.Duration("timeout")); err != nil {
		return fmt.Errorf("valkey not ready: %w", err)
	}
	if err := store.Set(ctx, c.String("key"), data); err != nil {
		return fmt.Errorf("store payload: %w", err)
	}

	loggerFrom(c).Info("Payload published",
		zap.String("key", c.String("key")),
		zap.Int("documents", st.Documents),
		zap.Int("entities", len(ents)),
	)
	fmt.Fprintf(c.App.Writer, "published %d entities (%d documents, %d skipped) to %s\n",
		len(ents), st.Documents, st.MissingID+st.Duplicates, c.String("key"))
	return nil
}

// --- Rendering ---

func printTaxonomy(w io.Writer, tax *taxonomy.Taxonomy) {
	for _, cat := range tax.Categories() {
		fmt.Fprintf(w, "%s (%s)\n", cat.Label(), cat.ID())
		for _, child := range cat.Children() {
			fmt.Fprintf(w, "  %-20s %s\n", child, taxonomy.Label(child))
		}
	}
}

func printResults(w io.Writer, view searchuc.View) {
	if view.Loading {
		fmt.Fprintln(w, "catalog loading")
		return
	}
	fmt.Fprintf(w, "%d results\n", len(view.Results))
	for i := range view.Results {
		r := &view.Results[i]
		fmt.Fprintf(w, "%3d. %s [%s]", i+1, r.Name(), r.Type())
		if r.Score() > 0 {
			fmt.Fprintf(w, " %.3f", r.Score())
		}
		fmt.Fprintln(w)
		if r.Description() != "" {
			fmt.Fprintf(w, "     %s\n", r.Description())
		}
	}
}

func printAvailable(w io.Writer, available facets.Available, tax *taxonomy.Taxonomy) {
	for _, g := range available.Ordered(tax) {
		if len(g.Tags) == 0 {
			continue
		}
		label := g.Category
		if cat, ok := tax.Category(g.Category); ok {
			label = cat.Label()
		}
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(g.Tags, ", "))
	}
}

type jsonResult struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Score       float64  `json:"score"`
}

type jsonGroup struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type jsonView struct {
	Loading   bool         `json:"loading"`
	Results   []jsonResult `json:"results"`
	Available []jsonGroup  `json:"available_tags"`
}

func toJSONView(view searchuc.View, tax *taxonomy.Taxonomy) jsonView {
	out := jsonView{
		Loading:   view.Loading,
		Results:   make([]jsonResult, 0, len(view.Results)),
		Available: make([]jsonGroup, 0, len(tax.Categories())),
	}
	for i := range view.Results {
		r := &view.Results[i]
		out.Results = append(out.Results, jsonResult{
			ID:          r.ID(),
			Type:        r.Type(),
			Name:        r.Name(),
			Description: r.Description(),
			Tags:        r.Tags(),
			Score:       r.Score(),
		})
	}
	for _, g := range view.Available.Ordered(tax) {
		out.Available = append(out.Available, jsonGroup{Category: g.Category, Tags: g.Tags})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
