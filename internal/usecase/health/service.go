package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure or a catalog still loading.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckLoading indicates a component that has not finished starting.
	CheckLoading CheckResult = "loading"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogChecker
	kv      KVPinger
}

// New creates a Service. kv can be nil when the payload is not read from Valkey.
func New(catalog CatalogChecker, kv KVPinger) *Service {
	return &Service{catalog: catalog, kv: kv}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)

	if s.catalog.Loaded() {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckLoading
	}

	if s.kv != nil {
		if err := s.kv.Ping(ctx); err != nil {
			checks["valkey"] = CheckError
		} else {
			checks["valkey"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
