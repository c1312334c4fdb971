// Package index implements the inverted text index over the catalog using
// an in-memory bleve index.
package index

import (
	"context"
	"fmt"
	"math"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/facetdex/internal/domain/search/textquery"
)

// Relative weights of non-exact term matches.
const (
	prefixWeight = 0.375
	fuzzyWeight  = 0.45
)

// maxFuzziness is the largest edit distance bleve accepts.
const maxFuzziness = 2

const batchSize = 1000

// analyzerName splits on unicode word boundaries and lower-cases. It keeps
// stop words so short prefixes like "a" or "the" still match.
const analyzerName = "facetdex"

// Document is the indexable text of one catalog entry, keyed by field name.
type Document struct {
	ID     string
	Fields map[string][]string
}

// Index is a read-only bleve index built once from the catalog.
type Index struct {
	idx      bleve.Index
	fields   []string
	analyzer analysis.Analyzer
	size     int
}

// Build indexes docs over the given text fields.
func Build(ctx context.Context, fields []string, docs []Document) (*Index, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one index field is required")
	}

	im := bleve.NewIndexMapping()
	if err := im.AddCustomAnalyzer(analyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}

	dm := bleve.NewDocumentMapping()
	dm.Dynamic = false
	for _, f := range fields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzerName
		fm.Store = false
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		dm.AddFieldMappingsAt(f, fm)
	}
	im.DefaultMapping = dm
	im.DefaultAnalyzer = analyzerName

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	analyzer := im.AnalyzerNamed(analyzerName)
	if analyzer == nil {
		_ = idx.Close()
		return nil, fmt.Errorf("analyzer %q not registered", analyzerName)
	}

	batch := idx.NewBatch()
	for i := range docs {
		if err := ctx.Err(); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("build index: %w", err)
		}
		data := make(map[string]any, len(fields))
		for _, f := range fields {
			if v := docs[i].Fields[f]; len(v) > 0 {
				data[f] = v
			}
		}
		if err := batch.Index(docs[i].ID, data); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index document %q: %w", docs[i].ID, err)
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return nil, fmt.Errorf("flush batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("flush batch: %w", err)
		}
	}

	return &Index{idx: idx, fields: fields, analyzer: analyzer, size: len(docs)}, nil
}

// Len returns the number of indexed documents.
func (x *Index) Len() int { return x.size }

// Close releases the index.
func (x *Index) Close() error {
	if err := x.idx.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}

// Search returns matches ranked by score descending, ties by id ascending.
// Query terms are OR-ed; each term matches exactly, by prefix and by edit
// distance according to opts, weighted per field.
func (x *Index) Search(ctx context.Context, q string, opts textquery.Options) ([]textquery.Match, error) {
	terms := x.terms(q)
	if len(terms) == 0 || x.size == 0 {
		return nil, nil
	}

	var disjuncts []query.Query
	for _, term := range terms {
		for _, field := range x.fields {
			boost := opts.Boost[field]
			if boost <= 0 {
				boost = 1
			}

			tq := bleve.NewTermQuery(term)
			tq.SetField(field)
			tq.SetBoost(boost)
			disjuncts = append(disjuncts, tq)

			if opts.Prefix {
				pq := bleve.NewPrefixQuery(term)
				pq.SetField(field)
				pq.SetBoost(boost * prefixWeight)
				disjuncts = append(disjuncts, pq)
			}

			if d := fuzziness(term, opts.Fuzzy); d > 0 {
				fq := bleve.NewFuzzyQuery(term)
				fq.SetField(field)
				fq.SetFuzziness(d)
				fq.SetBoost(boost * fuzzyWeight)
				disjuncts = append(disjuncts, fq)
			}
		}
	}

	size := opts.Limit
	if size <= 0 || size > x.size {
		size = x.size
	}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(disjuncts...), size, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := x.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	matches := make([]textquery.Match, 0, len(res.Hits))
	for _, h := range res.Hits {
		matches = append(matches, textquery.Match{ID: h.ID, Score: h.Score})
	}
	return matches, nil
}

// terms analyzes q with the index analyzer and de-duplicates the tokens.
func (x *Index) terms(q string) []string {
	tokens := x.analyzer.Analyze([]byte(q))
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		t := string(tok.Term)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// fuzziness converts a length ratio into an edit distance bleve accepts.
func fuzziness(term string, ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	d := int(math.Round(float64(len([]rune(term))) * ratio))
	if d > maxFuzziness {
		d = maxFuzziness
	}
	return d
}
