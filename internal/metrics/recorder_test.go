package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/validation"
	"github.com/Faultbox/beltline/internal/waypoint"
)

func TestRecorderWithController(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	set, err := waypoint.NewSetFrom(waypoint.DefaultLayout(waypoint.DefaultLayoutOptions()))
	require.NoError(t, err)
	ctrl, err := belt.New(set, nil, belt.DefaultOptions(), belt.WithObserver(rec))
	require.NoError(t, err)

	require.True(t, ctrl.Setup())

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Rebuilds.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Verdicts.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.State.WithLabelValues("warning")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.State.WithLabelValues("valid")))
	assert.Equal(t, float64(ctrl.Path().Len()), testutil.ToFloat64(rec.PathPoints))
	assert.Equal(t, float64(len(ctrl.Mesh().Vertices)), testutil.ToFloat64(rec.MeshVertices))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Generation))

	// Collapse the rollers to force a blocked rebuild.
	end, _ := set.RollerIndex(waypoint.KindRollerEnd)
	start, _ := set.RollerIndex(waypoint.KindRollerStart)
	require.NoError(t, set.Move(end, set.At(start).Position))
	ctrl.Rebuild()

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Rebuilds.WithLabelValues("blocked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.State.WithLabelValues("invalid")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.State.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Generation), "blocked rebuild keeps the generation")

	count, err := testutil.GatherAndCount(reg, "beltline_belt_rebuild_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorderSkipped(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())
	rec.RebuildFinished(belt.OutcomeSkipped, validation.Verdict{}, time.Millisecond, belt.Snapshot{})

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Rebuilds.WithLabelValues("skipped")))
	assert.Equal(t, 0, testutil.CollectAndCount(rec.Verdicts))
}
