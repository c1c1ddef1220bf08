package waypoint

import (
	"github.com/google/uuid"

	"github.com/Faultbox/beltline/pkg/math"
)

// DefaultMotionThreshold suppresses sub-epsilon jitter in motion detection.
const DefaultMotionThreshold = 0.01

// Transform is the host-side object an anchor mirrors. The host owns the
// scene entity; the core only reads and writes its position.
type Transform interface {
	Position() math.Vec3
	SetPosition(math.Vec3)
}

// Anchor is a positioned control point of the belt.
type Anchor struct {
	ID   uuid.UUID
	Name string
	Role Role

	// Position is the current coordinate, written by the host or by delta
	// propagation.
	Position math.Vec3
	// Reference is the baseline captured at setup or at the last committed
	// rebuild. Only CaptureBaseline writes it.
	Reference math.Vec3
	// LastObserved is the position seen by the last motion check.
	LastObserved math.Vec3

	// Multiplier scales a driver's delta per axis before it is applied.
	Multiplier math.Vec3
	// Driver is the roller this anchor follows; DriverNone for rollers and
	// free-standing anchors.
	Driver Driver
	// Order sorts anchors that share a canonical slot.
	Order int
	// Active anchors take part in assembly and validation.
	Active bool

	// Transform, when set, is synced by Set.Pull and Set.Push.
	Transform Transform
}

// NewAnchor creates an active anchor at pos with a unit multiplier and its
// baseline captured at pos.
func NewAnchor(name string, role Role, pos math.Vec3) *Anchor {
	return &Anchor{
		ID:           uuid.New(),
		Name:         name,
		Role:         role,
		Position:     pos,
		Reference:    pos,
		LastObserved: pos,
		Multiplier:   math.One,
		Active:       true,
	}
}

// CaptureBaseline makes the current position the reference for later deltas.
func CaptureBaseline(a *Anchor) {
	a.Reference = a.Position
	a.LastObserved = a.Position
}

// RollerDelta returns how far a roller has moved since its baseline.
func RollerDelta(roller *Anchor) math.Vec3 {
	return roller.Position.Sub(roller.Reference)
}

// PropagateDelta places a dependent anchor at its baseline plus the driver's
// delta scaled by the anchor's multiplier. It recomputes from the baseline, so
// repeated calls with the same delta give the same position.
func PropagateDelta(a *Anchor, delta math.Vec3) {
	a.Position = a.Reference.Add(delta.MulComponents(a.Multiplier))
}

// HasMoved reports whether the anchor moved more than threshold since the last
// observation.
func HasMoved(a *Anchor, threshold float32) bool {
	return a.Position.Distance(a.LastObserved) > threshold
}

// MarkObserved records the current position as seen by the motion check.
func MarkObserved(a *Anchor) {
	a.LastObserved = a.Position
}
