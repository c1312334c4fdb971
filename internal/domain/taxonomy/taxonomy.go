// Package taxonomy holds the fixed category/tag hierarchy used for faceting.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/facetdex/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

// Normalize is the single case-folding rule applied to tag values at
// extraction time and at comparison time.
func Normalize(s string) string {
	return strings.ToLower(s)
}

// Category is a named group of child tags.
type Category struct {
	id       string
	label    string
	children []string
	lookup   map[string]string // normalized -> canonical child
}

// NewCategory validates and creates a Category.
func NewCategory(id, label string, children []string) (Category, error) {
	if id == "" {
		return Category{}, fmt.Errorf("%w: category id is required", domain.ErrInvalidTaxonomy)
	}
	if label == "" {
		label = Label(id)
	}
	lookup := make(map[string]string, len(children))
	kept := make([]string, 0, len(children))
	for _, c := range children {
		if c == "" {
			return Category{}, fmt.Errorf("%w: empty tag in category %q", domain.ErrInvalidTaxonomy, id)
		}
		n := Normalize(c)
		if _, dup := lookup[n]; dup {
			return Category{}, fmt.Errorf("%w: duplicate tag %q in category %q", domain.ErrInvalidTaxonomy, c, id)
		}
		lookup[n] = c
		kept = append(kept, c)
	}
	return Category{id: id, label: label, children: kept, lookup: lookup}, nil
}

// ID returns the category identifier.
func (c Category) ID() string { return c.id }

// Label returns the display label.
func (c Category) Label() string { return c.label }

// Children returns the ordered child tags.
func (c Category) Children() []string { return c.children }

// Canonical returns the child tag matching value case-insensitively.
func (c Category) Canonical(value string) (string, bool) {
	tag, ok := c.lookup[Normalize(value)]
	return tag, ok
}

// Taxonomy is the ordered, immutable set of categories.
type Taxonomy struct {
	categories []Category
	byID       map[string]int
}

// New validates category id uniqueness and creates a Taxonomy.
func New(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", domain.ErrInvalidTaxonomy)
	}
	byID := make(map[string]int, len(categories))
	for i, c := range categories {
		if _, dup := byID[c.id]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", domain.ErrInvalidTaxonomy, c.id)
		}
		byID[c.id] = i
	}
	return &Taxonomy{categories: categories, byID: byID}, nil
}

// Categories returns categories in iteration order.
func (t *Taxonomy) Categories() []Category { return t.categories }

// IDs returns category ids in iteration order.
func (t *Taxonomy) IDs() []string {
	ids := make([]string, len(t.categories))
	for i, c := range t.categories {
		ids[i] = c.id
	}
	return ids
}

// Category looks up a category by id.
func (t *Taxonomy) Category(id string) (Category, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

// Has reports whether id names a known category.
func (t *Taxonomy) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

type fileCategory struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Children []string `yaml:"children"`
}

type file struct {
	Categories []fileCategory `yaml:"categories"`
}

// Parse decodes a YAML taxonomy definition.
func Parse(data []byte) (*Taxonomy, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTaxonomy, err)
	}
	cats := make([]Category, 0, len(f.Categories))
	for _, fc := range f.Categories {
		c, err := NewCategory(fc.ID, fc.Label, fc.Children)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return New(cats)
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic("taxonomy: embedded default is invalid: " + err.Error())
	}
	return t
}

// Load returns the built-in taxonomy when path is empty, otherwise the
// YAML definition read from path.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	return t, nil
}
