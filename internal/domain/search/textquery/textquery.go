// Package textquery describes the contract of the inverted text index:
// matching options in, ranked matches out.
package textquery

import "unicode/utf8"

// Field boosts applied to free-text queries.
const (
	BoostName        = 10
	BoostAliases     = 5
	BoostRelated     = 3
	BoostTags        = 2
	BoostDescription = 1
)

// DefaultFuzzy is the edit-distance ratio used for longer queries.
const DefaultFuzzy = 0.2

// DefaultFuzzyMinLength is the query length that must be exceeded before
// fuzzy matching is enabled.
const DefaultFuzzyMinLength = 3

// DefaultBoosts returns the per-field weights for free-text queries.
func DefaultBoosts() map[string]float64 {
	return map[string]float64{
		"name":        BoostName,
		"aliases":     BoostAliases,
		"related":     BoostRelated,
		"tags":        BoostTags,
		"description": BoostDescription,
	}
}

// Options controls term matching for a single query.
type Options struct {
	// Prefix matches terms that start with a query term.
	Prefix bool
	// Fuzzy is the maximum edit distance as a ratio of term length; 0 disables.
	Fuzzy float64
	// Boost weights matches per field; missing fields weigh 1.
	Boost map[string]float64
	// Limit caps the number of matches; 0 returns all.
	Limit int
}

// ForQuery builds the standard options: prefix always on, fuzzy only when
// the query is longer than minLength characters.
func ForQuery(q string, fuzzy float64, minLength int, boost map[string]float64, limit int) Options {
	opts := Options{Prefix: true, Boost: boost, Limit: limit}
	if utf8.RuneCountInString(q) > minLength {
		opts.Fuzzy = fuzzy
	}
	return opts
}

// Match is a ranked index hit.
type Match struct {
	ID    string
	Score float64
}
