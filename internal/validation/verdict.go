// Package validation classifies a belt configuration as Valid, Warning or
// Invalid and smooths that classification over time for editor feedback.
package validation

import (
	"fmt"
	"strings"
)

// State is the classification of a configuration.
type State uint8

const (
	Valid State = iota
	Warning
	Invalid
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Warning:
		return "warning"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Worst returns the more severe of a and b.
func Worst(a, b State) State {
	if b > a {
		return b
	}
	return a
}

// Check names a validation rule.
type Check string

const (
	CheckRollerCount    Check = "roller-count"
	CheckRollerDistance Check = "roller-distance"
	CheckBendAngle      Check = "bend-angle"
	CheckOverlap        Check = "overlap"
	CheckPoleCount      Check = "pole-count"
	CheckPoleCenter     Check = "pole-center"
	CheckPoleClearance  Check = "pole-clearance"
)

// Violation records the threshold a configuration missed.
type Violation struct {
	Check Check
	State State
	Value float32
	Limit float32
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %.2f (limit %.2f)", v.State, v.Check, v.Value, v.Limit)
}

// Verdict is the outcome of one evaluation together with the metrics that
// produced it.
type Verdict struct {
	State State

	Rollers        int
	Poles          int
	RollerDistance float32
	// BendAngle is in degrees.
	BendAngle float32
	// NearestDistance is the smallest distance between any two active anchors.
	NearestDistance float32
	Overlap         bool

	// Violation is the most severe missed threshold, the first one found at
	// that severity. Nil for a Valid verdict.
	Violation  *Violation
	Violations []Violation
}

// Blocks reports whether the verdict forbids regenerating geometry.
func (v Verdict) Blocks() bool {
	return v.State == Invalid
}

// Reasons returns one line per violation.
func (v Verdict) Reasons() []string {
	out := make([]string, len(v.Violations))
	for i, vi := range v.Violations {
		out[i] = vi.String()
	}
	return out
}

func (v Verdict) String() string {
	if len(v.Violations) == 0 {
		return v.State.String()
	}
	return v.State.String() + " (" + strings.Join(v.Reasons(), "; ") + ")"
}

func (v *Verdict) add(vi Violation) {
	v.Violations = append(v.Violations, vi)
	if v.Violation == nil || vi.State > v.Violation.State {
		cp := vi
		v.Violation = &cp
	}
	v.State = Worst(v.State, vi.State)
}
