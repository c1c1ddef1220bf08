package waypoint

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/beltline/pkg/math"
)

func TestPropagateDeltaIdempotent(t *testing.T) {
	a := NewAnchor("dep", FreeRole(SideA), math.Vec3{X: 1, Y: 2, Z: 3})
	a.Multiplier = math.Vec3{X: 0.5, Y: 1, Z: 0}
	d := math.Vec3{X: 2, Y: -1, Z: 4}

	PropagateDelta(a, d)
	first := a.Position
	PropagateDelta(a, d)

	assert.Equal(t, first, a.Position)
	assert.Equal(t, math.Vec3{X: 2, Y: 1, Z: 3}, a.Position)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, a.Reference, "baseline must not change")
}

func TestRollerMotionPropagates(t *testing.T) {
	roller := NewAnchor("start", RollerStartRole(), math.Vec3{X: -2, Y: 1})
	full := NewAnchor("full", FreeRole(SideA), math.Vec3{X: -1, Y: 1, Z: 1})
	full.Driver = DriverStart
	partial := NewAnchor("partial", FreeRole(SideA), math.Vec3{X: -1, Y: 1, Z: -1})
	partial.Driver = DriverStart
	partial.Multiplier = math.Vec3{X: 0, Y: 1, Z: 1}

	roller.Position = roller.Position.Add(math.Vec3{X: 1})
	require.True(t, HasMoved(roller, DefaultMotionThreshold))

	delta := RollerDelta(roller)
	assert.Equal(t, math.Vec3{X: 1}, delta)

	PropagateDelta(full, delta)
	PropagateDelta(partial, delta)

	assert.Equal(t, math.Vec3{X: 1}, full.Position.Sub(full.Reference))
	assert.Equal(t, partial.Reference.X, partial.Position.X)
}

func TestHasMovedThreshold(t *testing.T) {
	a := NewAnchor("r", RollerEndRole(), math.Zero)

	a.Position = math.Vec3{X: 0.005}
	assert.False(t, HasMoved(a, DefaultMotionThreshold), "jitter below threshold")

	a.Position = math.Vec3{X: 0.5}
	assert.True(t, HasMoved(a, DefaultMotionThreshold))

	MarkObserved(a)
	assert.False(t, HasMoved(a, DefaultMotionThreshold))
	assert.Equal(t, math.Zero, a.Reference, "observation must not rebaseline")
}

func TestCaptureBaseline(t *testing.T) {
	a := NewAnchor("r", RollerEndRole(), math.Zero)
	a.Position = math.Vec3{Y: 3}

	CaptureBaseline(a)
	assert.Equal(t, a.Position, a.Reference)
	assert.Equal(t, a.Position, a.LastObserved)
	assert.Equal(t, math.Zero, RollerDelta(a))
}

func TestRoleSlots(t *testing.T) {
	tests := []struct {
		role Role
		slot Slot
		name string
	}{
		{RollerStartRole(), SlotRollerStart, "roller-start"},
		{FreeRole(SideA), SlotFreeA, "free-A"},
		{PoleRole(PoleA), SlotPoleA, "pole-A"},
		{PoleRole(PoleB), SlotPoleB, "pole-B"},
		{RollerEndRole(), SlotRollerEnd, "roller-end"},
		{FreeRole(SideB), SlotFreeB, "free-B"},
		{PoleRole(PoleC), SlotPoleC, "pole-C"},
		{PoleRole(PoleD), SlotPoleD, "pole-D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.slot, tt.role.Slot())
			assert.Equal(t, tt.name, tt.role.String())
		})
	}

	assert.Equal(t, SideB, PoleRole(PoleC).Side())
	assert.Equal(t, SideA, PoleRole(PoleB).Side())
	assert.True(t, RollerEndRole().IsRoller())
	assert.False(t, PoleRole(PoleA).IsRoller())
	assert.Equal(t, DriverEnd, DriverFor(RollerEndRole()))
	assert.Equal(t, DriverNone, DriverFor(FreeRole(SideA)))
}

func TestSetRejectsDuplicateRoller(t *testing.T) {
	s := NewSet()
	_, err := s.Add(NewAnchor("s1", RollerStartRole(), math.Zero))
	require.NoError(t, err)

	_, err = s.Add(NewAnchor("s2", RollerStartRole(), math.One))
	require.ErrorIs(t, err, ErrDuplicateRoller)
	assert.Equal(t, 1, s.Len())
}

func TestSetLookupAndMove(t *testing.T) {
	s, err := NewSetFrom(DefaultLayout(DefaultLayoutOptions()))
	require.NoError(t, err)
	require.Equal(t, 6, s.Len())

	start := s.Roller(KindRollerStart)
	require.NotNil(t, start)
	assert.Equal(t, "A_RollerStart", start.Name)

	idx, ok := s.ByID(start.ID)
	require.True(t, ok)
	require.NoError(t, s.Move(idx, math.Vec3{X: -3, Y: 1}))
	assert.Equal(t, float32(-3), s.At(idx).Position.X)

	assert.ErrorIs(t, s.Move(99, math.Zero), ErrUnknownAnchor)
	assert.Nil(t, s.At(-1))

	_, ok = s.ByID(uuid.New())
	assert.False(t, ok)
}

func TestSetRollerInactive(t *testing.T) {
	s, err := NewSetFrom(DefaultLayout(DefaultLayoutOptions()))
	require.NoError(t, err)

	idx, ok := s.RollerIndex(KindRollerEnd)
	require.True(t, ok)
	s.At(idx).Active = false

	assert.Nil(t, s.Roller(KindRollerEnd))
	assert.Len(t, s.Active(), 5)
	assert.Nil(t, s.Roller(KindPole))
}

func TestSetDependents(t *testing.T) {
	s, err := NewSetFrom(DefaultLayout(DefaultLayoutOptions()))
	require.NoError(t, err)

	start := s.Dependents(DriverStart)
	end := s.Dependents(DriverEnd)
	assert.Len(t, start, 2)
	assert.Len(t, end, 2)
	assert.Nil(t, s.Dependents(DriverNone))

	for _, i := range start {
		assert.Less(t, s.At(i).Position.X, float32(0))
	}
}

type fakeTransform struct{ pos math.Vec3 }

func (f *fakeTransform) Position() math.Vec3     { return f.pos }
func (f *fakeTransform) SetPosition(p math.Vec3) { f.pos = p }

func TestSetPullPush(t *testing.T) {
	s := NewSet()
	tr := &fakeTransform{pos: math.Vec3{X: 7}}
	a := NewAnchor("bound", FreeRole(SideA), math.Zero)
	a.Transform = tr
	idx, err := s.Add(a)
	require.NoError(t, err)

	s.Pull()
	assert.Equal(t, math.Vec3{X: 7}, a.Position)

	a.Position = math.Vec3{Z: 2}
	s.Push([]Index{idx})
	assert.Equal(t, math.Vec3{Z: 2}, tr.pos)
}

func TestDefaultLayoutGeometry(t *testing.T) {
	anchors := DefaultLayout(DefaultLayoutOptions())
	require.Len(t, anchors, 6)

	want := []struct {
		role Role
		pos  math.Vec3
	}{
		{RollerStartRole(), math.Vec3{X: -2, Y: 1, Z: 0}},
		{PoleRole(PoleA), math.Vec3{X: -1, Y: 1, Z: 2.5}},
		{PoleRole(PoleB), math.Vec3{X: 1, Y: 1, Z: 2.5}},
		{RollerEndRole(), math.Vec3{X: 2, Y: 1, Z: 0}},
		{PoleRole(PoleC), math.Vec3{X: 1, Y: 1, Z: -2.5}},
		{PoleRole(PoleD), math.Vec3{X: -1, Y: 1, Z: -2.5}},
	}
	for i, w := range want {
		assert.Equal(t, w.role, anchors[i].Role, "anchor %d", i)
		assert.Equal(t, w.pos, anchors[i].Position, "anchor %d", i)
		assert.True(t, anchors[i].Active)
		assert.NotEqual(t, uuid.Nil, anchors[i].ID)
	}
}

func TestFreeChain(t *testing.T) {
	chain := FreeChain(SideB, DriverEnd, math.Vec3{X: 1}, math.Vec3{X: 2})
	require.Len(t, chain, 2)
	assert.Equal(t, 1, chain[1].Order)
	assert.Equal(t, DriverEnd, chain[0].Driver)
	assert.Equal(t, SlotFreeB, chain[0].Role.Slot())
	assert.Equal(t, "B_Free_1", chain[1].Name)
}
