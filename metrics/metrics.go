// Package metrics exposes Prometheus collectors for the AFK engine and an
// optional HTTP listener serving them.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// AutoReplies counts mention auto-replies by outcome (sent, suppressed, failed).
	AutoReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afk_auto_replies_total",
			Help: "Mention auto-replies by outcome.",
		},
		[]string{"result"},
	)

	// StateChanges counts AFK activations and deactivations by cause.
	StateChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afk_state_changes_total",
			Help: "AFK state transitions by cause.",
		},
		[]string{"reason"},
	)

	// SweepDuration observes how long one sweep over all guilds takes.
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "afk_sweep_duration_seconds",
			Help:    "Duration of the periodic auto-away sweep.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// StoreErrors counts failed loads and saves of guild records.
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afk_store_errors_total",
			Help: "Guild record load/save failures.",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(AutoReplies, StateChanges, SweepDuration, StoreErrors)
}

// Serve starts an HTTP server exposing /metrics on addr. It returns nil when
// addr is empty.
func Serve(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
	log.Info().Str("addr", addr).Msg("metrics listener started")
	return srv
}
