// Package metrics exposes the running transmitter's counters over
// Prometheus, for the optional -metrics-addr diagnostics surface.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the transmitter's Prometheus collectors, registered
// against a private registry rather than the global default one so that
// New can be called more than once in the same process (each run's own
// test, or a future multi-instance embedding) without a duplicate
// registration panic.
type Metrics struct {
	FramesTotal    prometheus.Counter
	UnderrunsTotal *prometheus.CounterVec
	FIFODepth      prometheus.Gauge

	registry *prometheus.Registry
	server   *http.Server
}

// New builds a Metrics with its own private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	factory := promauto.With(m.registry)

	m.FramesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "hacktv_frames_total",
		Help: "Total video frames rendered.",
	})
	m.UnderrunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "hacktv_channel_underruns_total",
		Help: "Total mux channel-queue underruns, by channel name.",
	}, []string{"channel"})
	m.FIFODepth = factory.NewGauge(prometheus.GaugeOpts{
		Name: "hacktv_rf_fifo_blocks_in_use",
		Help: "Approximate number of RF FIFO blocks currently held by readers.",
	})
	return m
}

// Serve starts the /metrics HTTP endpoint on addr. The returned error channel
// receives ListenAndServe's terminal error, if any, once the server stops.
func (m *Metrics) Serve(addr string) <-chan error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.server = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- m.server.ListenAndServe() }()
	return errCh
}

// Shutdown stops the metrics HTTP server gracefully.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
