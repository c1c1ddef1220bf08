package waypoint

import (
	"fmt"

	"github.com/Faultbox/beltline/pkg/math"
)

// LayoutOptions sizes the default six-anchor conveyor.
type LayoutOptions struct {
	Center     math.Vec3
	Length     float32 // roller to roller
	Width      float32 // belt width the poles clear
	Height     float32 // belt height above Center
	PoleOffset float32 // extra lateral clearance of poles beyond Width/2
	// PoleFollow is the multiplier poles apply to their roller's delta.
	PoleFollow math.Vec3
}

// DefaultLayoutOptions returns the stock conveyor dimensions.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Length:     4,
		Width:      2,
		Height:     1,
		PoleOffset: 1.5,
		PoleFollow: math.One,
	}
}

// DefaultLayout creates the canonical six-anchor belt: two rollers on the X
// axis and four poles, one per quadrant, each following its nearer roller.
// The returned slice is in canonical belt order.
func DefaultLayout(opts LayoutOptions) []*Anchor {
	c := opts.Center
	halfLen := opts.Length / 2
	quarterLen := opts.Length / 4
	lateral := opts.Width/2 + opts.PoleOffset

	at := func(x, z float32) math.Vec3 {
		return c.Add(math.Vec3{X: x, Y: opts.Height, Z: z})
	}

	start := NewAnchor("A_RollerStart", RollerStartRole(), at(-halfLen, 0))
	end := NewAnchor("F_RollerEnd", RollerEndRole(), at(halfLen, 0))
	end.Order = 5

	pole := func(name string, v PoleVariant, x, z float32, d Driver, order int) *Anchor {
		a := NewAnchor(name, PoleRole(v), at(x, z))
		a.Driver = d
		a.Multiplier = opts.PoleFollow
		a.Order = order
		return a
	}

	return []*Anchor{
		start,
		pole("B_Pole_TopA", PoleA, -quarterLen, lateral, DriverStart, 1),
		pole("D_Pole_TopF", PoleB, quarterLen, lateral, DriverEnd, 3),
		end,
		pole("E_Pole_BottomF", PoleC, quarterLen, -lateral, DriverEnd, 4),
		pole("C_Pole_BottomA", PoleD, -quarterLen, -lateral, DriverStart, 2),
	}
}

// FreeChain creates free waypoints on one side, ordered as given and driven
// by d with a unit multiplier.
func FreeChain(side Side, d Driver, points ...math.Vec3) []*Anchor {
	out := make([]*Anchor, len(points))
	for i, p := range points {
		a := NewAnchor(fmt.Sprintf("%s_Free_%d", side, i), FreeRole(side), p)
		a.Driver = d
		a.Order = i
		out[i] = a
	}
	return out
}
