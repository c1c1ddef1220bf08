// Package path turns an anchor set into the ordered belt configuration and
// samples it into a travel path.
package path

import (
	"fmt"
	"sort"

	"github.com/Faultbox/beltline/internal/waypoint"
	"github.com/Faultbox/beltline/pkg/math"
)

// Configuration is the canonical, ordered list of active anchors for one
// rebuild. It is rebuilt from the anchor set every cycle and never edited.
type Configuration struct {
	Anchors []*waypoint.Anchor
}

// Assemble merges the active anchors of s into canonical belt order: start
// roller, side-A free waypoints, poles A and B, end roller, side-B free
// waypoints, poles C and D. Anchors sharing a slot are sorted by Order, then
// by insertion order.
func Assemble(s *waypoint.Set) Configuration {
	var buckets [waypoint.SlotCount][]*waypoint.Anchor
	s.Each(func(_ waypoint.Index, a *waypoint.Anchor) {
		if !a.Active {
			return
		}
		slot := a.Role.Slot()
		buckets[slot] = append(buckets[slot], a)
	})

	ordered := make([]*waypoint.Anchor, 0, s.Len())
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Order < bucket[j].Order
		})
		ordered = append(ordered, bucket...)
	}
	return Configuration{Anchors: ordered}
}

// Detach returns a copy whose anchors no longer alias the set, so later
// edits to the set do not show through.
func (c Configuration) Detach() Configuration {
	anchors := make([]*waypoint.Anchor, len(c.Anchors))
	for i, a := range c.Anchors {
		cp := *a
		anchors[i] = &cp
	}
	return Configuration{Anchors: anchors}
}

// Len returns the number of anchors in the configuration.
func (c Configuration) Len() int {
	return len(c.Anchors)
}

// Points returns the anchor positions in configuration order.
func (c Configuration) Points() []math.Vec3 {
	points := make([]math.Vec3, len(c.Anchors))
	for i, a := range c.Anchors {
		points[i] = a.Position
	}
	return points
}

// Names returns the anchor names in configuration order, for logging.
func (c Configuration) Names() []string {
	names := make([]string, len(c.Anchors))
	for i, a := range c.Anchors {
		names[i] = a.Name
	}
	return names
}

// Mode selects the segment sampler.
type Mode uint8

const (
	ModeLinear Mode = iota
	ModeBezier
	ModeCatmullRom
	// ModeAuto uses Linear for a two-anchor belt and Catmull-Rom otherwise.
	ModeAuto
)

var modeNames = [...]string{"linear", "bezier", "catmull-rom", "auto"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode parses a mode name as written in config files.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	if s == "catmullrom" {
		return ModeCatmullRom, nil
	}
	return ModeLinear, fmt.Errorf("unknown path mode %q", s)
}

// Next cycles through the concrete modes and Auto.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// Topology selects whether the belt closes back on its first anchor.
type Topology uint8

const (
	Open Topology = iota
	Closed
)

func (t Topology) String() string {
	if t == Closed {
		return "closed"
	}
	return "open"
}

// ParseTopology parses "open" or "closed".
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "open":
		return Open, nil
	case "closed":
		return Closed, nil
	default:
		return Open, fmt.Errorf("unknown topology %q", s)
	}
}
