package waypoint

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/pkg/math"
)

var (
	// ErrDuplicateRoller is returned when a second start or end roller is added.
	ErrDuplicateRoller = errors.New("waypoint: roller already present")
	// ErrUnknownAnchor is returned for an out-of-range index or unknown ID.
	ErrUnknownAnchor = errors.New("waypoint: unknown anchor")
)

// Index addresses an anchor inside a Set.
type Index int

// Set owns every anchor of one belt. Anchors are addressed by index and
// mutated in place; callers never copy an anchor out and store it back.
type Set struct {
	anchors []*Anchor
	byID    map[uuid.UUID]Index
	rollers [2]Index // start, end; -1 when absent
}

// NewSet creates an empty anchor set.
func NewSet() *Set {
	return &Set{
		byID:    make(map[uuid.UUID]Index),
		rollers: [2]Index{-1, -1},
	}
}

// NewSetFrom builds a set from anchors, stopping at the first error.
func NewSetFrom(anchors []*Anchor) (*Set, error) {
	s := NewSet()
	for _, a := range anchors {
		if _, err := s.Add(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add takes ownership of a and returns its index.
func (s *Set) Add(a *Anchor) (Index, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Role.IsRoller() {
		slot := rollerSlot(a.Role.Kind())
		if s.rollers[slot] >= 0 {
			logger.Named("waypoint").Warn("rejected duplicate roller",
				zap.String("name", a.Name),
				zap.Stringer("role", a.Role),
			)
			return -1, fmt.Errorf("%w: %s", ErrDuplicateRoller, a.Role)
		}
	}

	idx := Index(len(s.anchors))
	s.anchors = append(s.anchors, a)
	s.byID[a.ID] = idx
	if a.Role.IsRoller() {
		s.rollers[rollerSlot(a.Role.Kind())] = idx
	}
	return idx, nil
}

func rollerSlot(k Kind) int {
	if k == KindRollerEnd {
		return 1
	}
	return 0
}

// Len returns the number of anchors, active or not.
func (s *Set) Len() int {
	return len(s.anchors)
}

// At returns the anchor at i for in-place mutation.
func (s *Set) At(i Index) *Anchor {
	if i < 0 || int(i) >= len(s.anchors) {
		return nil
	}
	return s.anchors[i]
}

// ByID looks an anchor up by its identity.
func (s *Set) ByID(id uuid.UUID) (Index, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// Move sets the position of the anchor at i, as the host would when the user
// drags it.
func (s *Set) Move(i Index, pos math.Vec3) error {
	a := s.At(i)
	if a == nil {
		return fmt.Errorf("%w: index %d", ErrUnknownAnchor, i)
	}
	a.Position = pos
	return nil
}

// Roller returns the active roller of the given kind, or nil.
func (s *Set) Roller(k Kind) *Anchor {
	idx := s.rollers[rollerSlot(k)]
	if idx < 0 || (k != KindRollerStart && k != KindRollerEnd) {
		return nil
	}
	if a := s.anchors[idx]; a.Active {
		return a
	}
	return nil
}

// RollerIndex returns the index of the roller of the given kind.
func (s *Set) RollerIndex(k Kind) (Index, bool) {
	idx := s.rollers[rollerSlot(k)]
	return idx, idx >= 0
}

// Each calls fn for every anchor in insertion order.
func (s *Set) Each(fn func(Index, *Anchor)) {
	for i, a := range s.anchors {
		fn(Index(i), a)
	}
}

// Active returns the active anchors in insertion order.
func (s *Set) Active() []*Anchor {
	out := make([]*Anchor, 0, len(s.anchors))
	for _, a := range s.anchors {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}

// Dependents returns the indices of active anchors driven by d.
func (s *Set) Dependents(d Driver) []Index {
	if d == DriverNone {
		return nil
	}
	var out []Index
	for i, a := range s.anchors {
		if a.Active && a.Driver == d {
			out = append(out, Index(i))
		}
	}
	return out
}

// CaptureBaselines rebaselines every anchor.
func (s *Set) CaptureBaselines() {
	for _, a := range s.anchors {
		CaptureBaseline(a)
	}
}

// Pull copies host transform positions into bound anchors.
func (s *Set) Pull() {
	for _, a := range s.anchors {
		if a.Transform != nil {
			a.Position = a.Transform.Position()
		}
	}
}

// Push writes the positions of the given anchors back to their transforms.
func (s *Set) Push(indices []Index) {
	for _, i := range indices {
		if a := s.At(i); a != nil && a.Transform != nil {
			a.Transform.SetPosition(a.Position)
		}
	}
}
