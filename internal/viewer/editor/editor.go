// Package editor turns viewer input into anchor edits and controller
// commands. It has no windowing dependencies.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/engine/picking"
	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/internal/path"
	"github.com/Faultbox/beltline/internal/waypoint"
	"github.com/Faultbox/beltline/pkg/math"
)

// Action is a discrete editing command.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionMoveForward
	ActionMoveBack
	ActionMoveUp
	ActionMoveDown
	ActionNextAnchor
	ActionPrevAnchor
	ActionToggleActive
	ActionRebuild
	ActionToggleTopology
	ActionCycleMode
)

var actionNames = [...]string{
	"none", "move-left", "move-right", "move-forward", "move-back", "move-up", "move-down",
	"next-anchor", "prev-anchor", "toggle-active", "rebuild", "toggle-topology", "cycle-mode",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// PickRadius is the half-size of the box an anchor can be picked by.
const PickRadius = 0.35

var moveDirs = map[Action]math.Vec3{
	ActionMoveLeft:    {X: -1},
	ActionMoveRight:   {X: 1},
	ActionMoveForward: {Z: -1},
	ActionMoveBack:    {Z: 1},
	ActionMoveUp:      {Y: 1},
	ActionMoveDown:    {Y: -1},
}

// Editor holds the selection and drag state for one controller.
type Editor struct {
	ctrl     *belt.Controller
	step     float32
	selected waypoint.Index
	dragging bool
	dragY    float32
	log      *zap.Logger
}

// New creates an editor moving anchors by step per key press. The start
// roller is selected initially when present.
func New(ctrl *belt.Controller, step float32) *Editor {
	e := &Editor{
		ctrl:     ctrl,
		step:     step,
		selected: -1,
		log:      logger.Named("editor"),
	}
	if i, ok := ctrl.Set().RollerIndex(waypoint.KindRollerStart); ok {
		e.selected = i
	} else if ctrl.Set().Len() > 0 {
		e.selected = 0
	}
	return e
}

// Selected returns the selected anchor index, -1 when the set is empty.
func (e *Editor) Selected() waypoint.Index { return e.selected }

// SelectedAnchor returns the selected anchor or nil.
func (e *Editor) SelectedAnchor() *waypoint.Anchor {
	return e.ctrl.Set().At(e.selected)
}

// SetStep changes the per-press move distance.
func (e *Editor) SetStep(step float32) { e.step = step }

// Dragging reports whether a mouse drag is moving an anchor.
func (e *Editor) Dragging() bool { return e.dragging }

// Apply executes one action.
func (e *Editor) Apply(a Action) error {
	set := e.ctrl.Set()

	if dir, ok := moveDirs[a]; ok {
		anchor := e.SelectedAnchor()
		if anchor == nil {
			return nil
		}
		return set.Move(e.selected, anchor.Position.Add(dir.Scale(e.step)))
	}

	switch a {
	case ActionNextAnchor:
		e.cycle(1)
	case ActionPrevAnchor:
		e.cycle(-1)
	case ActionToggleActive:
		if anchor := e.SelectedAnchor(); anchor != nil {
			anchor.Active = !anchor.Active
			e.ctrl.RequestRebuild()
			e.log.Info("anchor toggled",
				zap.String("name", anchor.Name),
				zap.Bool("active", anchor.Active),
			)
		}
	case ActionRebuild:
		e.ctrl.Rebuild()
	case ActionToggleTopology:
		opts := e.ctrl.Options().Path
		if opts.Topology == path.Closed {
			opts.Topology = path.Open
		} else {
			opts.Topology = path.Closed
		}
		e.ctrl.SetPathOptions(opts)
		e.log.Info("topology changed", zap.Stringer("topology", opts.Topology))
	case ActionCycleMode:
		opts := e.ctrl.Options().Path
		opts.Mode = opts.Mode.Next()
		e.ctrl.SetPathOptions(opts)
		e.log.Info("mode changed", zap.Stringer("mode", opts.Mode))
	}
	return nil
}

func (e *Editor) cycle(dir int) {
	n := e.ctrl.Set().Len()
	if n == 0 {
		return
	}
	e.selected = waypoint.Index((int(e.selected) + dir + n) % n)
}

// Markers returns the positions of the active anchors and the position of
// the selected anchor within them, or -1 when it is inactive.
func (e *Editor) Markers() ([]math.Vec3, int) {
	var points []math.Vec3
	sel := -1
	e.ctrl.Set().Each(func(i waypoint.Index, a *waypoint.Anchor) {
		if !a.Active {
			return
		}
		if i == e.selected {
			sel = len(points)
		}
		points = append(points, a.Position)
	})
	return points, sel
}

// Pick selects the active anchor nearest along r and starts dragging it.
func (e *Editor) Pick(r picking.Ray) bool {
	var points []math.Vec3
	var indices []waypoint.Index
	e.ctrl.Set().Each(func(i waypoint.Index, a *waypoint.Anchor) {
		if a.Active {
			points = append(points, a.Position)
			indices = append(indices, i)
		}
	})

	hit := r.Nearest(points, PickRadius)
	if hit < 0 {
		return false
	}
	e.selected = indices[hit]
	e.dragging = true
	e.dragY = points[hit].Y
	return true
}

// Drag moves the dragged anchor to where r meets its horizontal plane.
func (e *Editor) Drag(r picking.Ray) bool {
	if !e.dragging {
		return false
	}
	p, ok := r.IntersectPlaneY(e.dragY)
	if !ok {
		return false
	}
	return e.ctrl.Set().Move(e.selected, p) == nil
}

// EndDrag stops dragging.
func (e *Editor) EndDrag() {
	e.dragging = false
}
