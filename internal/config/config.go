package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/facetdex/internal/domain"
)

// Payload source kinds accepted by catalog.source.
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceValkey = "valkey"
)

// Config holds the facetdex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Search   SearchConfig   `yaml:"search"`
	Sessions SessionsConfig `yaml:"sessions"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig selects where the payload is loaded from.
type CatalogConfig struct {
	Source         string       `yaml:"source"` // file, http, valkey (default: file)
	Path           string       `yaml:"path"`
	URL            string       `yaml:"url"`
	Key            string       `yaml:"key"`
	LoadTimeoutSec int          `yaml:"load_timeout_sec"`
	Valkey         ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig holds the payload store connection settings.
type ValkeyConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// TaxonomyConfig optionally replaces the built-in taxonomy.
type TaxonomyConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig tunes the result pipeline.
type SearchConfig struct {
	MaxResults     int                `yaml:"max_results"`
	MaxCandidates  int                `yaml:"max_candidates"`
	Fuzzy          float64            `yaml:"fuzzy"` // negative disables fuzzy matching
	FuzzyMinLength int                `yaml:"fuzzy_min_length"`
	Boosts         map[string]float64 `yaml:"boosts"`
}

// SessionsConfig bounds the session registry.
type SessionsConfig struct {
	MaxSessions      int `yaml:"max_sessions"`
	IdleTTLSec       int `yaml:"idle_ttl_sec"`
	SweepIntervalSec int `yaml:"sweep_interval_sec"`
}

// LoadTimeout returns the catalog load deadline.
func (c CatalogConfig) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutSec) * time.Second
}

// IdleTTL returns the session idle lifetime.
func (c SessionsConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLSec) * time.Second
}

// SweepInterval returns how often expired sessions are evicted.
func (c SessionsConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceFile
	}
	if c.Catalog.LoadTimeoutSec <= 0 {
		c.Catalog.LoadTimeoutSec = 60
	}
	if c.Catalog.Valkey.ReadinessTimeout <= 0 {
		c.Catalog.Valkey.ReadinessTimeout = 10
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 40
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = 100
	}
	if c.Search.Fuzzy == 0 {
		c.Search.Fuzzy = 0.2
	}
	if c.Search.FuzzyMinLength <= 0 {
		c.Search.FuzzyMinLength = 3
	}
	if c.Sessions.MaxSessions <= 0 {
		c.Sessions.MaxSessions = 10000
	}
	if c.Sessions.IdleTTLSec <= 0 {
		c.Sessions.IdleTTLSec = 1800
	}
	if c.Sessions.SweepIntervalSec <= 0 {
		c.Sessions.SweepIntervalSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for source %q", SourceFile)
		}
	case SourceHTTP:
		if c.Catalog.URL == "" {
			return fmt.Errorf("catalog.url is required for source %q", SourceHTTP)
		}
	case SourceValkey:
		if len(c.Catalog.Valkey.Addrs) == 0 {
			return fmt.Errorf("catalog.valkey.addrs is required for source %q", SourceValkey)
		}
		if c.Catalog.Key == "" {
			return fmt.Errorf("catalog.key is required for source %q", SourceValkey)
		}
	default:
		return fmt.Errorf("%w: catalog.source must be \"file\", \"http\" or \"valkey\", got %q",
			domain.ErrUnknownSource, c.Catalog.Source)
	}
	if c.Search.Fuzzy > 1 {
		return fmt.Errorf("search.fuzzy must not exceed 1, got %v", c.Search.Fuzzy)
	}
	for field, b := range c.Search.Boosts {
		if b <= 0 {
			return fmt.Errorf("search.boosts.%s must be positive, got %v", field, b)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
