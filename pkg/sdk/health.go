package facetdex

import (
	"context"

	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
)

// HealthStatus represents the aggregated engine health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"loading"/"error"
}

// Health reports catalog state and, for Valkey payloads, server reachability.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
