package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/internal/waypoint"
	"github.com/Faultbox/beltline/pkg/math"
)

func rollers(a, b math.Vec3) []*waypoint.Anchor {
	return []*waypoint.Anchor{
		waypoint.NewAnchor("start", waypoint.RollerStartRole(), a),
		waypoint.NewAnchor("end", waypoint.RollerEndRole(), b),
	}
}

func lenient() *Validator {
	th := DefaultThresholds()
	th.RequireFullPoleSet = false
	return New(th)
}

func TestDefaultLayoutWarnsOnRollerDistance(t *testing.T) {
	v := New(DefaultThresholds())
	verdict := v.Evaluate(waypoint.DefaultLayout(waypoint.DefaultLayoutOptions()))

	assert.Equal(t, Warning, verdict.State)
	assert.InDelta(t, 4, verdict.RollerDistance, 1e-6)
	assert.Equal(t, 2, verdict.Rollers)
	assert.Equal(t, 4, verdict.Poles)
	assert.False(t, verdict.Overlap)
	require.NotNil(t, verdict.Violation)
	assert.Equal(t, CheckRollerDistance, verdict.Violation.Check)
	assert.Len(t, verdict.Violations, 1)
}

func TestOptimalLayoutIsValid(t *testing.T) {
	opts := waypoint.DefaultLayoutOptions()
	opts.Length = 2
	verdict := New(DefaultThresholds()).Evaluate(waypoint.DefaultLayout(opts))

	assert.Equal(t, Valid, verdict.State, verdict.String())
	assert.Nil(t, verdict.Violation)
	assert.Empty(t, verdict.Reasons())
	assert.False(t, verdict.Blocks())
}

func TestIdenticalRollersInvalid(t *testing.T) {
	p := math.Vec3{X: 1, Y: 1, Z: 1}
	verdict := lenient().Evaluate(rollers(p, p))

	assert.Equal(t, Invalid, verdict.State)
	assert.True(t, verdict.Overlap)
	assert.Zero(t, verdict.RollerDistance)
	assert.True(t, verdict.Blocks())
}

func TestRollerDistanceBands(t *testing.T) {
	tests := []struct {
		d    float32
		want State
	}{
		{0.1, Invalid},
		{0.5, Invalid},
		{0.79, Invalid},
		{1.0, Warning},
		{1.5, Valid},
		{2.0, Valid},
		{2.9, Valid},
		{3.5, Warning},
		{11.9, Warning},
		{12.5, Invalid},
		{40, Invalid},
	}

	v := lenient()
	for _, tt := range tests {
		verdict := v.Evaluate(rollers(math.Zero, math.Vec3{X: tt.d}))
		assert.Equal(t, tt.want, verdict.State, "distance %.2f", tt.d)
		assert.InDelta(t, tt.d, verdict.RollerDistance, 1e-5)
	}
}

func TestRollerDistanceMonotone(t *testing.T) {
	v := lenient()
	for d := float32(0.05); d < 0.76; d += 0.05 {
		assert.Equal(t, Invalid, v.Evaluate(rollers(math.Zero, math.Vec3{X: d})).State, "d=%.2f", d)
	}
	for d := float32(12.5); d < 50; d += 2.5 {
		assert.Equal(t, Invalid, v.Evaluate(rollers(math.Zero, math.Vec3{X: d})).State, "d=%.2f", d)
	}
}

func TestFewerThanTwoRollers(t *testing.T) {
	only := []*waypoint.Anchor{
		waypoint.NewAnchor("start", waypoint.RollerStartRole(), math.Zero),
		waypoint.NewAnchor("pole", waypoint.PoleRole(waypoint.PoleA), math.Vec3{X: 1, Z: 2}),
	}

	for _, anchors := range [][]*waypoint.Anchor{nil, only} {
		verdict := New(DefaultThresholds()).Evaluate(anchors)
		assert.Equal(t, Invalid, verdict.State)
		assert.Zero(t, verdict.RollerDistance)
		assert.Zero(t, verdict.BendAngle)
		assert.Zero(t, verdict.NearestDistance)
		require.NotNil(t, verdict.Violation)
		assert.Equal(t, CheckRollerCount, verdict.Violation.Check)
	}
}

func TestInactiveAnchorsIgnored(t *testing.T) {
	anchors := rollers(math.Zero, math.Vec3{X: 2})
	ghost := waypoint.NewAnchor("ghost", waypoint.FreeRole(waypoint.SideA), math.Vec3{X: 0.01})
	ghost.Active = false
	anchors = append(anchors, ghost)

	assert.Equal(t, Valid, lenient().Evaluate(anchors).State)

	anchors[1].Active = false
	assert.Equal(t, Invalid, lenient().Evaluate(anchors).State)
}

func TestBendAngle(t *testing.T) {
	v := lenient()

	straight := v.Evaluate(rollers(math.Zero, math.Vec3{X: 2}))
	assert.InDelta(t, 0, straight.BendAngle, 1e-3)

	// Reversed rollers measure the same angle against the axis line.
	reversed := v.Evaluate(rollers(math.Vec3{X: 2}, math.Zero))
	assert.InDelta(t, 0, reversed.BendAngle, 1e-3)
	assert.Equal(t, Valid, reversed.State)

	warn := v.Evaluate(rollers(math.Zero, math.Vec3{X: 2, Z: 1.6}))
	assert.Equal(t, Warning, warn.State)
	assert.Equal(t, CheckBendAngle, warn.Violation.Check)

	steep := v.Evaluate(rollers(math.Zero, math.Vec3{X: 1, Z: 2}))
	assert.Equal(t, Invalid, steep.State)
	assert.Greater(t, steep.BendAngle, float32(45))
}

func TestOverlapOfAnyAnchors(t *testing.T) {
	anchors := rollers(math.Zero, math.Vec3{X: 2})
	anchors = append(anchors, waypoint.FreeChain(waypoint.SideA, waypoint.DriverStart,
		math.Vec3{X: 1, Z: 1}, math.Vec3{X: 1.05, Z: 1})...)

	verdict := lenient().Evaluate(anchors)
	assert.Equal(t, Invalid, verdict.State)
	assert.True(t, verdict.Overlap)
	assert.InDelta(t, 0.05, verdict.NearestDistance, 1e-5)
}

func TestPoleChecks(t *testing.T) {
	base := rollers(math.Vec3{X: -1}, math.Vec3{X: 1})

	assert.Equal(t, Warning, New(DefaultThresholds()).Evaluate(base).State, "missing poles")
	assert.Equal(t, Valid, lenient().Evaluate(base).State)

	poles := func(first math.Vec3) []*waypoint.Anchor {
		return []*waypoint.Anchor{
			waypoint.NewAnchor("a", waypoint.PoleRole(waypoint.PoleA), first),
			waypoint.NewAnchor("b", waypoint.PoleRole(waypoint.PoleB), math.Vec3{X: 0.5, Z: 2}),
			waypoint.NewAnchor("c", waypoint.PoleRole(waypoint.PoleC), math.Vec3{X: 0.5, Z: -2}),
			waypoint.NewAnchor("d", waypoint.PoleRole(waypoint.PoleD), math.Vec3{X: -0.5, Z: -2}),
		}
	}

	ok := New(DefaultThresholds()).Evaluate(append(rollers(math.Vec3{X: -1}, math.Vec3{X: 1}), poles(math.Vec3{X: -0.5, Z: 2})...))
	assert.Equal(t, Valid, ok.State, ok.String())

	near := New(DefaultThresholds()).Evaluate(append(rollers(math.Vec3{X: -1}, math.Vec3{X: 1}), poles(math.Vec3{Z: 0.5})...))
	assert.Equal(t, Warning, near.State)
	assert.Equal(t, CheckPoleCenter, near.Violation.Check)

	far := New(DefaultThresholds()).Evaluate(append(rollers(math.Vec3{X: -1}, math.Vec3{X: 1}), poles(math.Vec3{Z: 6})...))
	assert.Equal(t, Warning, far.State)

	hugging := New(DefaultThresholds()).Evaluate(append(rollers(math.Vec3{X: -1}, math.Vec3{X: 1}), poles(math.Vec3{X: 1, Z: 0.2})...))
	assert.Equal(t, Warning, hugging.State)
	var checks []Check
	for _, vi := range hugging.Violations {
		checks = append(checks, vi.Check)
	}
	assert.Contains(t, checks, CheckPoleClearance)
}

func TestWorst(t *testing.T) {
	assert.Equal(t, Warning, Worst(Valid, Warning))
	assert.Equal(t, Invalid, Worst(Invalid, Warning))
	assert.Equal(t, Valid, Worst(Valid, Valid))
	assert.Equal(t, "warning", Warning.String())
}

func TestEvaluateLogsReasons(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	New(DefaultThresholds()).Evaluate(waypoint.DefaultLayout(waypoint.DefaultLayoutOptions()))

	entries := logs.FilterMessage("configuration warning").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "validator", entries[0].LoggerName)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, ColorValid, ColorFor(Valid))
	assert.Equal(t, ColorWarning, ColorFor(Warning))
	assert.Equal(t, ColorInvalid, ColorFor(Invalid))
	assert.Equal(t, [4]float32{1, 0, 0, 1}, ColorInvalid.Array())
}

func TestMonitorHysteresis(t *testing.T) {
	m := NewMonitor(500 * time.Millisecond)
	valid := Verdict{State: Valid}
	warn := Verdict{State: Warning}

	assert.False(t, m.Stable(), "nothing observed")

	m.Observe(valid)
	m.Advance(300 * time.Millisecond)
	assert.False(t, m.Stable())

	m.Observe(valid)
	m.Advance(250 * time.Millisecond)
	assert.True(t, m.Stable(), "repeated valid verdicts keep accumulating")

	m.Observe(warn)
	assert.False(t, m.Stable())
	m.Advance(time.Second)
	assert.False(t, m.Stable(), "warning never settles")
	assert.Equal(t, Warning, m.State())

	m.Observe(valid)
	assert.Zero(t, m.Held(), "state change restarts the timer")
	m.Advance(499 * time.Millisecond)
	assert.False(t, m.Stable())
	m.Advance(time.Millisecond)
	assert.True(t, m.Stable())

	m.Reset()
	assert.False(t, m.Stable())
}

func TestMonitorTouchRestartsTimer(t *testing.T) {
	m := NewMonitor(200 * time.Millisecond)
	m.Observe(Verdict{State: Valid})

	// Motion every frame keeps an unchanged Valid verdict from settling.
	for i := 0; i < 10; i++ {
		m.Advance(50 * time.Millisecond)
		m.Touch()
		m.Observe(Verdict{State: Valid})
		assert.False(t, m.Stable(), "frame %d", i)
	}

	m.Advance(150 * time.Millisecond)
	assert.False(t, m.Stable())
	m.Advance(50 * time.Millisecond)
	assert.True(t, m.Stable())
	assert.Equal(t, Valid, m.State(), "touch keeps the verdict")
}
