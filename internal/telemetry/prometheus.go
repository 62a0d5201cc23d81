package telemetry

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusSink exports solver and chunk counters.
type PrometheusSink struct {
	solves         *prometheus.CounterVec
	solveDuration  prometheus.Histogram
	contradictions prometheus.Counter
	rollbacks      prometheus.Counter
	activeChunks   prometheus.Gauge
	chunksSaved    prometheus.Counter
	shortlist      prometheus.Histogram
}

// NewPrometheusSink registers the terraingen collectors on reg. Passing nil
// uses the default registerer.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &PrometheusSink{
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "terraingen_solves_total",
			Help: "Chunk solves by outcome",
		}, []string{"outcome"}),
		solveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "terraingen_solve_duration_seconds",
			Help:    "Wall time of a chunk solve",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		contradictions: f.NewCounter(prometheus.CounterOpts{
			Name: "terraingen_contradictions_total",
			Help: "Contradictions discovered during propagation or collapse",
		}),
		rollbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "terraingen_rollbacks_total",
			Help: "Change-log rollbacks performed by backtracking",
		}),
		activeChunks: f.NewGauge(prometheus.GaugeOpts{
			Name: "terraingen_active_chunks",
			Help: "Chunks currently held by the chunk manager",
		}),
		chunksSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "terraingen_chunks_saved_total",
			Help: "Chunks written to durable storage",
		}),
		shortlist: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "terraingen_selection_shortlist_size",
			Help:    "Number of minimum-entropy cells before tie-breaking",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

func (p *PrometheusSink) SolveBegin(ctx context.Context, _ SolveEvent) context.Context { return ctx }

func (p *PrometheusSink) SolveEnd(_ context.Context, ev SolveEvent) {
	p.solves.WithLabelValues(outcome(ev.Err)).Inc()
	p.solveDuration.Observe(ev.Elapsed.Seconds())
}

func (p *PrometheusSink) Contradiction(context.Context, SolveEvent) { p.contradictions.Inc() }

func (p *PrometheusSink) Rollback(context.Context, SolveEvent) { p.rollbacks.Inc() }

func (p *PrometheusSink) ActiveChunks(n int) { p.activeChunks.Set(float64(n)) }

func (p *PrometheusSink) ChunkSaved() { p.chunksSaved.Inc() }

func (p *PrometheusSink) Shortlist(n int) { p.shortlist.Observe(float64(n)) }

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "failed"
	}
}
