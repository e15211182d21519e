// Package metrics provides Prometheus metrics for the price-check bot.
// All recording methods are nil-receiver safe so wiring can pass a nil
// Manager when the metrics listener is disabled.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/logger"
)

// Manager owns all Prometheus collectors for the bot.
type Manager struct {
	registry *prometheus.Registry

	commands         *prometheus.CounterVec
	commandErrors    *prometheus.CounterVec
	catalogRefreshes *prometheus.CounterVec
	catalogHits      prometheus.Counter
	rateLimited      prometheus.Counter
	upstreamDuration *prometheus.HistogramVec
	catalogLeagues   prometheus.Gauge
}

// New creates a Manager with all collectors registered on a private registry.
func New() *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poe2bot",
			Name:      "commands_total",
			Help:      "Total chat commands handled, by command name.",
		}, []string{"command"}),
		commandErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poe2bot",
			Name:      "command_errors_total",
			Help:      "Commands that ended in a user-visible error, by command and error kind.",
		}, []string{"command", "kind"}),
		catalogRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poe2bot",
			Name:      "catalog_refreshes_total",
			Help:      "Catalog cache refreshes against the upstream API, by result.",
		}, []string{"result"}),
		catalogHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "poe2bot",
			Name:      "catalog_hits_total",
			Help:      "Catalog lookups served from cache without upstream I/O.",
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "poe2bot",
			Name:      "rate_limited_total",
			Help:      "Interactions rejected by the per-user cooldown.",
		}),
		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "poe2bot",
			Name:      "upstream_request_seconds",
			Help:      "poe2scout request latency, by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		catalogLeagues: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "poe2bot",
			Name:      "catalog_leagues",
			Help:      "Number of leagues currently held in the catalog cache.",
		}),
	}
}

// RecordCommand counts one handled command.
func (m *Manager) RecordCommand(command string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command).Inc()
}

// RecordCommandError counts one command that ended in a user-visible error.
func (m *Manager) RecordCommandError(command, kind string) {
	if m == nil {
		return
	}
	m.commandErrors.WithLabelValues(command, kind).Inc()
}

// RecordCatalogRefresh counts one cache refresh with result "ok" or "error".
func (m *Manager) RecordCatalogRefresh(result string) {
	if m == nil {
		return
	}
	m.catalogRefreshes.WithLabelValues(result).Inc()
}

// RecordCatalogHit counts one lookup served from cache.
func (m *Manager) RecordCatalogHit() {
	if m == nil {
		return
	}
	m.catalogHits.Inc()
}

// RecordRateLimited counts one cooldown rejection.
func (m *Manager) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// ObserveUpstream records the latency of one upstream request.
func (m *Manager) ObserveUpstream(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// SetCatalogLeagues records the current cache population.
func (m *Manager) SetCatalogLeagues(n int) {
	if m == nil {
		return
	}
	m.catalogLeagues.Set(float64(n))
}

// Handler returns the scrape handler for the Manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs the scrape endpoint on addr until ctx is canceled.
func (m *Manager) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
