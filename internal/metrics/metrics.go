// Package metrics exposes poll-cycle metrics in the Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/undrift/sessionboard/internal/log"
	"github.com/undrift/sessionboard/internal/poll"
	"github.com/undrift/sessionboard/internal/session"
	"github.com/undrift/sessionboard/internal/status"
)

const namespace = "sessionboard"

// Poll results used as label values.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultDiscarded = "discarded"
)

// Metrics holds the collectors for the poll loop on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Polls        *prometheus.CounterVec
	PollDuration prometheus.Histogram
	Resyncs      prometheus.Counter
	Sessions     *prometheus.GaugeVec
	Waiting      prometheus.Gauge
	LastSuccess  prometheus.Gauge
	ActiveAgents prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Polls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Total number of poll cycles by result",
		},
		[]string{"result"},
	)

	m.PollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of poll cycles in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	m.Resyncs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resyncs_total",
			Help:      "Polls that reordered the whole list",
		},
	)

	m.Sessions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Sessions currently displayed by status",
		},
		[]string{"status"},
	)

	m.Waiting = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_waiting",
			Help:      "Sessions waiting for input",
		},
	)

	m.LastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful poll",
		},
	)

	m.ActiveAgents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_subagents",
			Help:      "Subagents running across all sessions",
		},
	)

	m.registry.MustRegister(
		m.Polls,
		m.PollDuration,
		m.Resyncs,
		m.Sessions,
		m.Waiting,
		m.LastSuccess,
		m.ActiveAgents,
	)

	return m
}

// ObservePoll records one poll. It satisfies poll.Observer.
func (m *Metrics) ObservePoll(o poll.Observation) {
	m.PollDuration.Observe(o.Duration.Seconds())

	switch {
	case o.Discarded:
		m.Polls.WithLabelValues(ResultDiscarded).Inc()
		return
	case o.Err != nil:
		m.Polls.WithLabelValues(ResultError).Inc()
		return
	}

	m.Polls.WithLabelValues(ResultOK).Inc()
	m.LastSuccess.Set(float64(time.Now().Unix()))
	if o.Resync {
		m.Resyncs.Inc()
	}
	m.setSessions(o.Sessions)
}

func (m *Metrics) setSessions(list []session.Snapshot) {
	counts := make(map[status.Status]int, len(status.All()))
	subagents := 0
	for _, s := range list {
		counts[s.Status]++
		subagents += s.ActiveSubagentCount
	}
	for _, st := range status.All() {
		m.Sessions.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
	m.Waiting.Set(float64(session.CountWaiting(list)))
	m.ActiveAgents.Set(float64(subagents))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.InfoLog.Printf("serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
