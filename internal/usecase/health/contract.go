package health

import "context"

// CatalogChecker reports whether the catalog snapshot is published.
type CatalogChecker interface {
	Loaded() bool
}

// KVPinger checks payload store availability.
type KVPinger interface {
	Ping(ctx context.Context) error
}
