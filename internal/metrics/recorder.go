// Package metrics exports belt rebuild statistics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/validation"
)

const namespace = "beltline"

// Recorder observes controller rebuilds. Safe for concurrent use, since the
// Prometheus collectors are.
type Recorder struct {
	// Rebuilds counts rebuild attempts by outcome.
	Rebuilds *prometheus.CounterVec
	// Verdicts counts validator verdicts by state.
	Verdicts *prometheus.CounterVec
	// RebuildDuration measures rebuild attempts that reached the validator.
	RebuildDuration prometheus.Histogram
	// PathPoints is the point count of the committed path.
	PathPoints prometheus.Gauge
	// MeshVertices is the vertex count of the committed mesh.
	MeshVertices prometheus.Gauge
	// Generation is the number of committed rebuilds.
	Generation prometheus.Gauge
	// State is 1 for the current verdict state and 0 for the others.
	State *prometheus.GaugeVec
}

// NewRecorder creates a recorder and registers its collectors with reg. A nil
// reg uses the default registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		Rebuilds: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "belt",
				Name:      "rebuilds_total",
				Help:      "Rebuild attempts by outcome",
			},
			[]string{"outcome"},
		),
		Verdicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "verdicts_total",
				Help:      "Validator verdicts by state",
			},
			[]string{"state"},
		),
		RebuildDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "belt",
				Name:      "rebuild_duration_seconds",
				Help:      "Time spent assembling, validating and meshing",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
		),
		PathPoints: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "belt",
				Name:      "path_points",
				Help:      "Points in the committed path",
			},
		),
		MeshVertices: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "belt",
				Name:      "mesh_vertices",
				Help:      "Vertices in the committed ribbon mesh",
			},
		),
		Generation: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "belt",
				Name:      "generation",
				Help:      "Committed rebuilds since setup",
			},
		),
		State: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "validation",
				Name:      "state",
				Help:      "Current verdict state (1 for the active state)",
			},
			[]string{"state"},
		),
	}
}

// RebuildFinished implements belt.Observer.
func (r *Recorder) RebuildFinished(outcome belt.Outcome, v validation.Verdict, took time.Duration, snap belt.Snapshot) {
	r.Rebuilds.WithLabelValues(outcome.String()).Inc()
	if outcome == belt.OutcomeSkipped {
		return
	}

	r.Verdicts.WithLabelValues(v.State.String()).Inc()
	r.RebuildDuration.Observe(took.Seconds())
	for _, s := range []validation.State{validation.Valid, validation.Warning, validation.Invalid} {
		val := 0.0
		if s == v.State {
			val = 1
		}
		r.State.WithLabelValues(s.String()).Set(val)
	}

	if outcome != belt.OutcomeCommitted {
		return
	}
	r.PathPoints.Set(float64(snap.Path.Len()))
	if snap.Mesh != nil {
		r.MeshVertices.Set(float64(len(snap.Mesh.Vertices)))
	}
	r.Generation.Set(float64(snap.Generation))
}

var _ belt.Observer = (*Recorder)(nil)
