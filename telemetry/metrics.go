// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by command and digest counters.
const (
	OutcomeDelivered   = "delivered"
	OutcomeEmpty       = "empty"
	OutcomeInvalidDate = "invalid_date"
	OutcomeFailed      = "failed"
)

var (
	once sync.Once

	// Counters
	CommandsHandled *prometheus.CounterVec
	DigestsRun      *prometheus.CounterVec

	// Histograms
	CatalogFetchDuration prometheus.Observer
	CatalogItemsFetched  prometheus.Observer

	// Gauges
	GatewayConnected prometheus.Gauge // 1=connected,0=disconnected
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{Name: "release_commands_total", Help: "Slash command invocations by outcome"}, []string{"command", "outcome"})
		DigestsRun = promauto.NewCounterVec(prometheus.CounterOpts{Name: "release_digests_total", Help: "Scheduled digest runs by outcome"}, []string{"outcome"})
		CatalogFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "release_catalog_fetch_duration_seconds", Help: "Catalog query duration seconds", Buckets: prometheus.DefBuckets})
		CatalogItemsFetched = promauto.NewHistogram(prometheus.HistogramOpts{Name: "release_catalog_items_fetched", Help: "Items returned per catalog query", Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100}})
		GatewayConnected = promauto.NewGauge(prometheus.GaugeOpts{Name: "release_gateway_connected", Help: "Discord gateway connected=1 disconnected=0"})
	})
}

// CountCommand increments the command counter if metrics are initialized.
func CountCommand(command, outcome string) {
	if CommandsHandled != nil {
		CommandsHandled.WithLabelValues(command, outcome).Inc()
	}
}

// CountDigest increments the scheduled digest counter if metrics are initialized.
func CountDigest(outcome string) {
	if DigestsRun != nil {
		DigestsRun.WithLabelValues(outcome).Inc()
	}
}

// ObserveItemsFetched records the size of a catalog result.
func ObserveItemsFetched(n int) {
	if CatalogItemsFetched != nil {
		CatalogItemsFetched.Observe(float64(n))
	}
}

// SetGatewayConnected records the gateway state.
func SetGatewayConnected(ok bool) {
	if GatewayConnected == nil {
		return
	}
	if ok {
		GatewayConnected.Set(1)
	} else {
		GatewayConnected.Set(0)
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
