package validation

import (
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/internal/waypoint"
	"github.com/Faultbox/beltline/pkg/math"
)

// RequiredPoles is the pole count of a complete six-anchor belt.
const RequiredPoles = 4

// Thresholds parameterizes the validation rules. Distances are in world units
// and angles in degrees.
type Thresholds struct {
	OptimalRollerDistance float32
	MinimumRollerDistance float32
	MaxRollerDistance     float32
	MinPoleDistance       float32
	MaxBendAngle          float32
	ReferenceAxis         math.Vec3
	OverlapEpsilon        float32
	PoleCenterMin         float32
	PoleCenterMax         float32
	// RequireFullPoleSet warns when fewer than RequiredPoles poles are active.
	RequireFullPoleSet bool
	// SettleDuration is how long a Valid verdict must hold to count as stable.
	SettleDuration time.Duration
}

// DefaultThresholds returns the stock rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OptimalRollerDistance: 2,
		MinimumRollerDistance: 0.8,
		MaxRollerDistance:     12,
		MinPoleDistance:       0.3,
		MaxBendAngle:          45,
		ReferenceAxis:         math.Right,
		OverlapEpsilon:        0.1,
		PoleCenterMin:         1,
		PoleCenterMax:         5,
		RequireFullPoleSet:    true,
		SettleDuration:        500 * time.Millisecond,
	}
}

// Validator evaluates configurations. It holds no state between calls.
type Validator struct {
	th Thresholds
}

// New creates a validator with the given thresholds.
func New(th Thresholds) *Validator {
	return &Validator{th: th}
}

// Thresholds returns the active rule set.
func (v *Validator) Thresholds() Thresholds {
	return v.th
}

// Evaluate classifies the active anchors among anchors.
func (v *Validator) Evaluate(anchors []*waypoint.Anchor) Verdict {
	var rollers, poles, active []*waypoint.Anchor
	for _, a := range anchors {
		if a == nil || !a.Active {
			continue
		}
		active = append(active, a)
		switch {
		case a.Role.IsRoller():
			rollers = append(rollers, a)
		case a.Role.Kind() == waypoint.KindPole:
			poles = append(poles, a)
		}
	}

	verdict := Verdict{Rollers: len(rollers), Poles: len(poles)}

	if len(rollers) < 2 {
		verdict.add(Violation{Check: CheckRollerCount, State: Invalid, Value: float32(len(rollers)), Limit: 2})
		v.log(verdict)
		return verdict
	}

	v.checkRollerDistance(&verdict, rollers)
	v.checkBendAngle(&verdict, rollers)
	v.checkOverlap(&verdict, active)
	v.checkPoles(&verdict, rollers, poles)

	v.log(verdict)
	return verdict
}

func (v *Validator) checkRollerDistance(verdict *Verdict, rollers []*waypoint.Anchor) {
	th := v.th
	first := true
	for i := 0; i < len(rollers); i++ {
		for j := i + 1; j < len(rollers); j++ {
			d := rollers[i].Position.Distance(rollers[j].Position)
			if first || d < verdict.RollerDistance {
				verdict.RollerDistance = d
				first = false
			}

			switch {
			case d < th.MinimumRollerDistance:
				verdict.add(Violation{Check: CheckRollerDistance, State: Invalid, Value: d, Limit: th.MinimumRollerDistance})
			case d > th.MaxRollerDistance:
				verdict.add(Violation{Check: CheckRollerDistance, State: Invalid, Value: d, Limit: th.MaxRollerDistance})
			case d < th.OptimalRollerDistance*0.7:
				verdict.add(Violation{Check: CheckRollerDistance, State: Warning, Value: d, Limit: th.OptimalRollerDistance * 0.7})
			case d > th.OptimalRollerDistance*1.5:
				verdict.add(Violation{Check: CheckRollerDistance, State: Warning, Value: d, Limit: th.OptimalRollerDistance * 1.5})
			}
		}
	}
}

// checkBendAngle measures the roller-to-roller direction against the
// reference axis. The axis is treated as a line, so swapping the rollers does
// not change the angle.
func (v *Validator) checkBendAngle(verdict *Verdict, rollers []*waypoint.Anchor) {
	th := v.th
	if th.MaxBendAngle <= 0 || th.ReferenceAxis.LengthSq() == 0 {
		return
	}

	span := rollers[1].Position.Sub(rollers[0].Position)
	if span.LengthSq() == 0 {
		return
	}
	angle := span.Angle(th.ReferenceAxis)
	if angle > 90 {
		angle = 180 - angle
	}
	verdict.BendAngle = angle

	switch {
	case angle > th.MaxBendAngle:
		verdict.add(Violation{Check: CheckBendAngle, State: Invalid, Value: angle, Limit: th.MaxBendAngle})
	case angle > 0.75*th.MaxBendAngle:
		verdict.add(Violation{Check: CheckBendAngle, State: Warning, Value: angle, Limit: 0.75 * th.MaxBendAngle})
	}
}

func (v *Validator) checkOverlap(verdict *Verdict, active []*waypoint.Anchor) {
	nearest := float32(gomath.MaxFloat32)
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			if d := active[i].Position.Distance(active[j].Position); d < nearest {
				nearest = d
			}
		}
	}
	if len(active) < 2 {
		nearest = 0
	}
	verdict.NearestDistance = nearest

	if len(active) >= 2 && nearest < v.th.OverlapEpsilon {
		verdict.Overlap = true
		verdict.add(Violation{Check: CheckOverlap, State: Invalid, Value: nearest, Limit: v.th.OverlapEpsilon})
	}
}

func (v *Validator) checkPoles(verdict *Verdict, rollers, poles []*waypoint.Anchor) {
	th := v.th
	if len(poles) < RequiredPoles {
		if th.RequireFullPoleSet {
			verdict.add(Violation{Check: CheckPoleCount, State: Warning, Value: float32(len(poles)), Limit: RequiredPoles})
		}
		return
	}

	var center math.Vec3
	for _, r := range rollers {
		center = center.Add(r.Position)
	}
	center = center.Scale(1 / float32(len(rollers)))

	for _, p := range poles {
		d := p.Position.Distance(center)
		if d < th.PoleCenterMin {
			verdict.add(Violation{Check: CheckPoleCenter, State: Warning, Value: d, Limit: th.PoleCenterMin})
		} else if d > th.PoleCenterMax {
			verdict.add(Violation{Check: CheckPoleCenter, State: Warning, Value: d, Limit: th.PoleCenterMax})
		}

		for _, r := range rollers {
			if d := p.Position.Distance(r.Position); d < th.MinPoleDistance {
				verdict.add(Violation{Check: CheckPoleClearance, State: Warning, Value: d, Limit: th.MinPoleDistance})
			}
		}
	}
}

func (v *Validator) log(verdict Verdict) {
	if verdict.State == Valid {
		logger.Named("validator").Debug("configuration valid",
			zap.Int("rollers", verdict.Rollers),
			zap.Int("poles", verdict.Poles),
		)
		return
	}
	logger.Named("validator").Debug("configuration "+verdict.State.String(),
		zap.Strings("reasons", verdict.Reasons()),
		zap.Float32("roller_distance", verdict.RollerDistance),
		zap.Float32("bend_angle", verdict.BendAngle),
	)
}
