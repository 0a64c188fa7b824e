// Package metrics exposes prometheus counters for the raw event feed and the
// summary stream.
package metrics

import (
	"errors"
	"iter"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/q3log/q3log-go/pkg/q3log/event"
	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

// Summary error kinds, used as the "kind" label.
const (
	KindFeed      = "feed"
	KindViolation = "violation"
	KindEvent     = "event"
)

// Recorder holds the collectors of one registry.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	events        *prometheus.CounterVec
	feedErrors    prometheus.Counter
	summaries     prometheus.Counter
	summaryErrors *prometheus.CounterVec
	kills         prometheus.Counter
	players       prometheus.Gauge
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the metric namespace. The default is "q3log".
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry registers the collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// NewRecorder creates and registers the collectors.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{namespace: "q3log"}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(r.registry)
	r.events = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "feed",
		Name:      "events_total",
		Help:      "Raw events read from the server log, by type.",
	}, []string{"type"})
	r.feedErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "feed",
		Name:      "errors_total",
		Help:      "In-band read and parse failures of the feed.",
	})
	r.summaries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "summaries_total",
		Help:      "Match summaries produced.",
	})
	r.summaryErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "summary_errors_total",
		Help:      "Failed summary items, by kind.",
	}, []string{"kind"})
	r.kills = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "kills_total",
		Help:      "Kills counted over every produced summary.",
	})
	r.players = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "last_match_players",
		Help:      "Players of the most recent match.",
	})
	return r
}

// Registry returns the registry the collectors are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveEvents counts every event of events as it passes through.
func (r *Recorder) ObserveEvents(events iter.Seq[event.Event]) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		for ev := range events {
			r.events.WithLabelValues(string(ev.Type)).Inc()
			if ev.IsErr() {
				r.feedErrors.Inc()
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// ObserveResults counts summaries and failures as they pass through.
func (r *Recorder) ObserveResults(results iter.Seq2[*pipeline.MatchSummary, error]) iter.Seq2[*pipeline.MatchSummary, error] {
	return func(yield func(*pipeline.MatchSummary, error) bool) {
		for s, err := range results {
			if err != nil {
				r.summaryErrors.WithLabelValues(ErrorKind(err)).Inc()
			} else if s != nil {
				r.summaries.Inc()
				r.kills.Add(float64(s.TotalKills))
				r.players.Set(float64(len(s.Players)))
			}
			if !yield(s, err) {
				return
			}
		}
	}
}

// ErrorKind classifies a summary error for the "kind" label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrFeed):
		return KindFeed
	case errors.Is(err, pipeline.ErrEventModelViolation):
		return KindViolation
	default:
		return KindEvent
	}
}
