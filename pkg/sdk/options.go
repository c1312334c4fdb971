package facetdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	source string // "file", "http" or "valkey"
	path   string
	url    string

	addrs    []string
	password string
	key      string

	timeout      time.Duration
	taxonomyYAML []byte

	maxResults int
	fuzzy      float64
	boosts     map[string]float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithFile loads the payload from a local JSON file.
func WithFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "file"
		c.path = path
	})
}

// WithURL fetches the payload from a static URL.
func WithURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "http"
		c.url = url
	})
}

// WithValkey reads the payload from key on a Valkey or Redis server.
func WithValkey(addr, password, key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "valkey"
		c.addrs = []string{addr}
		c.password = password
		c.key = key
	})
}

// WithTimeout bounds payload fetching and server readiness. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithTaxonomy replaces the built-in taxonomy with a YAML definition.
func WithTaxonomy(yaml []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.taxonomyYAML = yaml
	})
}

// WithMaxResults caps the number of results per view. Default: 40.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithFuzzy sets the edit-distance ratio for fuzzy matching. A negative
// ratio disables fuzzy matching. Default: 0.2.
func WithFuzzy(ratio float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.fuzzy = ratio
	})
}

// WithBoosts overrides the per-field weights of text queries.
func WithBoosts(boosts map[string]float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.boosts = boosts
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
