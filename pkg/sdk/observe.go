package facetdex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SDK operation names, used as metric labels.
const (
	opLoad   = "load"
	opSearch = "search"
	opView   = "session_view"
)

type sdkMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	results prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facetdex",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK operations by name and outcome.",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "facetdex",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation latency in seconds.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 5, 30},
		}, []string{"operation"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facetdex",
			Subsystem: "sdk",
			Name:      "view_results",
			Help:      "Results returned per SDK view.",
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 100},
		}),
	}
	if err := register(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := register(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := register(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg. When an identical collector is already registered,
// for example by another Client sharing reg, c is replaced by it.
func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("facetdex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("facetdex: metric registered with another type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and measures SDK operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error, attrs ...any) {
	if o == nil {
		return
	}
	took := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.calls.WithLabelValues(op, status).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(took.Seconds())
	}

	if o.logger == nil {
		return
	}
	attrs = append([]any{"op", op, "duration", took}, attrs...)
	if err != nil {
		o.logger.Warn("facetdex operation failed", append(attrs, "error", err)...)
		return
	}
	o.logger.Debug("facetdex operation completed", attrs...)
}

func (o *observer) results(n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.results.Observe(float64(n))
}
