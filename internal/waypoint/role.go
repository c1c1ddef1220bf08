// Package waypoint holds the anchor data model that drives belt geometry:
// rollers, control poles and free waypoints, their baselines, and the rule
// that moves dependent anchors when a roller moves.
package waypoint

import "fmt"

// Kind distinguishes the four anchor roles.
type Kind uint8

const (
	KindRollerStart Kind = iota
	KindRollerEnd
	KindPole
	KindFree
)

func (k Kind) String() string {
	switch k {
	case KindRollerStart:
		return "roller-start"
	case KindRollerEnd:
		return "roller-end"
	case KindPole:
		return "pole"
	case KindFree:
		return "free"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PoleVariant identifies one of the four control-pole slots.
//
//	A: side A, near the start roller    B: side A, near the end roller
//	D: side B, near the start roller    C: side B, near the end roller
type PoleVariant uint8

const (
	PoleA PoleVariant = iota
	PoleB
	PoleC
	PoleD
)

func (v PoleVariant) String() string {
	if v > PoleD {
		return fmt.Sprintf("pole(%d)", uint8(v))
	}
	return string(rune('A' + v))
}

// Side is the belt run a free waypoint or pole lies on.
type Side uint8

const (
	SideA Side = iota // outbound run, start roller to end roller
	SideB             // return run, end roller back to start roller
)

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// Role is the closed set of anchor roles. It can only be built through the
// constructors below, so every Role value is well formed.
type Role struct {
	kind    Kind
	variant PoleVariant
	side    Side
}

// RollerStartRole returns the start-roller role.
func RollerStartRole() Role { return Role{kind: KindRollerStart} }

// RollerEndRole returns the end-roller role.
func RollerEndRole() Role { return Role{kind: KindRollerEnd} }

// PoleRole returns the control-pole role for variant v.
func PoleRole(v PoleVariant) Role {
	side := SideA
	if v == PoleC || v == PoleD {
		side = SideB
	}
	return Role{kind: KindPole, variant: v, side: side}
}

// FreeRole returns the free-waypoint role on the given side.
func FreeRole(side Side) Role { return Role{kind: KindFree, side: side} }

// Kind returns the role kind.
func (r Role) Kind() Kind { return r.kind }

// Variant returns the pole variant; meaningful only for KindPole.
func (r Role) Variant() PoleVariant { return r.variant }

// Side returns the run the anchor lies on; rollers report SideA.
func (r Role) Side() Side { return r.side }

// IsRoller reports whether the role is a start or end roller.
func (r Role) IsRoller() bool {
	return r.kind == KindRollerStart || r.kind == KindRollerEnd
}

func (r Role) String() string {
	switch r.kind {
	case KindPole:
		return "pole-" + r.variant.String()
	case KindFree:
		return "free-" + r.side.String()
	default:
		return r.kind.String()
	}
}

// Slot is a position group in canonical belt order.
type Slot uint8

// Canonical traversal: start roller, side-A free waypoints, poles A and B,
// end roller, side-B free waypoints, poles C and D, then back to start when
// the belt is closed.
const (
	SlotRollerStart Slot = iota
	SlotFreeA
	SlotPoleA
	SlotPoleB
	SlotRollerEnd
	SlotFreeB
	SlotPoleC
	SlotPoleD
	slotCount
)

// SlotCount is the number of canonical slots.
const SlotCount = int(slotCount)

// Slot resolves the role to its canonical slot.
func (r Role) Slot() Slot {
	switch r.kind {
	case KindRollerStart:
		return SlotRollerStart
	case KindRollerEnd:
		return SlotRollerEnd
	case KindPole:
		return [...]Slot{SlotPoleA, SlotPoleB, SlotPoleC, SlotPoleD}[r.variant]
	default:
		if r.side == SideB {
			return SlotFreeB
		}
		return SlotFreeA
	}
}

// Driver names the roller whose movement delta moves a dependent anchor.
type Driver uint8

const (
	DriverNone Driver = iota
	DriverStart
	DriverEnd
)

func (d Driver) String() string {
	switch d {
	case DriverStart:
		return "start"
	case DriverEnd:
		return "end"
	default:
		return "none"
	}
}

// DriverFor returns the driver value that corresponds to a roller role.
func DriverFor(r Role) Driver {
	switch r.kind {
	case KindRollerStart:
		return DriverStart
	case KindRollerEnd:
		return DriverEnd
	default:
		return DriverNone
	}
}
