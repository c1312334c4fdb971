package payload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Source kinds.
const (
	KindFile   = "file"
	KindHTTP   = "http"
	KindValkey = "valkey"
)

// maxPayloadBytes bounds how much of a remote payload is read.
const maxPayloadBytes = 256 << 20

// Source fetches the raw serialized payload.
type Source interface {
	Kind() string
	Fetch(ctx context.Context) ([]byte, error)
}

// KVGetter reads a single value by key.
type KVGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// FileSource reads the payload from a local file.
type FileSource struct {
	Path string
}

// Kind implements Source.
func (s *FileSource) Kind() string { return KindFile }

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource fetches the payload from a static asset URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTPSource with a bounded client timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Kind implements Source.
func (s *HTTPSource) Kind() string { return KindHTTP }

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch payload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch payload: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read payload body: %w", err)
	}
	return data, nil
}

// KVSource reads the payload from a single key of a key-value store.
type KVSource struct {
	Store KVGetter
	Key   string
}

// Kind implements Source.
func (s *KVSource) Kind() string { return KindValkey }

// Fetch implements Source.
func (s *KVSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("get payload key %q: %w", s.Key, err)
	}
	return data, nil
}
