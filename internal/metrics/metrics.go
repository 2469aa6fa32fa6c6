// Package metrics exposes natcalc operation counters and runtime memory
// readings in the Prometheus text format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/natcalc/internal/logging"
)

// Namespace prefixes every natcalc metric name.
const Namespace = "natcalc"

// Outcome labels of the operations counter.
const (
	OutcomeOK       = "ok"
	OutcomeMismatch = "mismatch"
	OutcomeError    = "error"
)

// Metrics holds the collectors of one natcalc process. Each instance owns its
// registry, so tests may create as many as they like.
type Metrics struct {
	registry     *prometheus.Registry
	handler      http.Handler
	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	operandLimbs *prometheus.HistogramVec
	mismatches   *prometheus.CounterVec
	activeChecks prometheus.Gauge
}

// NewMetrics creates the collectors and registers them together with the Go
// runtime, process and heap collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Arithmetic operations run, by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of one arithmetic operation, by algorithm.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 14),
		}, []string{"algorithm"}),
		operandLimbs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operand_limbs",
			Help:      "Length in limbs of the larger operand, by algorithm.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 20),
		}, []string{"algorithm"}),
		mismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "mismatches_total",
			Help:      "Results that disagreed with the reference computation.",
		}, []string{"algorithm"}),
		activeChecks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_checks",
			Help:      "Verification checks currently running.",
		}),
	}
	heap := NewMemoryCollector()
	m.registry.MustRegister(
		m.operations, m.duration, m.operandLimbs, m.mismatches, m.activeChecks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Bytes of allocated heap objects.",
		}, func() float64 { return float64(heap.Snapshot().HeapAlloc) }),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveOperation records one operation of algorithm on operands whose larger
// length is limbs.
func (m *Metrics) ObserveOperation(algorithm string, limbs int, elapsed time.Duration, outcome string) {
	m.operations.WithLabelValues(algorithm, outcome).Inc()
	m.duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	m.operandLimbs.WithLabelValues(algorithm).Observe(float64(limbs))
	if outcome == OutcomeMismatch {
		m.mismatches.WithLabelValues(algorithm).Inc()
	}
}

// IncrementActiveChecks increments the active checks gauge.
func (m *Metrics) IncrementActiveChecks() { m.activeChecks.Inc() }

// DecrementActiveChecks decrements the active checks gauge.
func (m *Metrics) DecrementActiveChecks() { m.activeChecks.Dec() }

// WritePrometheus serves the metrics in the Prometheus text format. Only GET
// and HEAD are allowed.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m.handler.ServeHTTP(w, r)
}

// Handler routes /metrics to WritePrometheus behind SecurityMiddleware.
func (m *Metrics) Handler(cfg SecurityConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WritePrometheus)
	return SecurityMiddleware(cfg, mux)
}

// Server timeouts of the metrics endpoint.
const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Serve exposes /metrics on addr until ctx is done, then shuts the server
// down gracefully.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(DefaultSecurityConfig()),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", logging.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown", err)
			return err
		}
		<-errCh
		return nil
	}
}
