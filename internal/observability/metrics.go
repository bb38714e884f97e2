package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the decode
// service.
type Metrics struct {
	DecodeRequests *prometheus.CounterVec   // labels: product={metar,recon}, outcome={success,error}
	DecodeDuration *prometheus.HistogramVec // labels: product={metar,recon}

	FetchRequests *prometheus.CounterVec   // labels: product={metar,taf,recon}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: product={metar,taf,recon}

	ReportsArchived prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DecodeRequests,
		m.DecodeDuration,
		m.FetchRequests,
		m.FetchDuration,
		m.ReportsArchived,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DecodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxtools",
			Name:      "decode_requests_total",
			Help:      "Decode operations by product and outcome.",
		}, []string{"product", "outcome"}),
		DecodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wxtools",
			Name:      "decode_duration_seconds",
			Help:      "Duration of a decode operation.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"product"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxtools",
			Name:      "fetch_requests_total",
			Help:      "Upstream product fetches by product and outcome.",
		}, []string{"product", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wxtools",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch duration in seconds, retries included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"product"}),
		ReportsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wxtools",
			Name:      "reports_archived_total",
			Help:      "Raw reports written to the archive.",
		}),
	}
}
