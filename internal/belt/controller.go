// Package belt drives the conveyor rebuild cycle: it watches anchors for
// motion, propagates roller deltas, validates the assembled configuration and
// commits the resulting path and ribbon mesh as one snapshot.
package belt

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/geometry"
	"github.com/Faultbox/beltline/internal/logger"
	"github.com/Faultbox/beltline/internal/path"
	"github.com/Faultbox/beltline/internal/validation"
	"github.com/Faultbox/beltline/internal/waypoint"
)

// ErrNoAnchors is returned by New when no anchor set is given.
var ErrNoAnchors = errors.New("belt: no anchor set")

// Controller owns the anchor set and the last committed snapshot. It is
// driven from a single goroutine by the host's frame loop and takes no locks.
type Controller struct {
	set       *waypoint.Set
	validator *validation.Validator
	monitor   *validation.Monitor
	opts      Options

	sink      Sink
	observers []Observer
	log       *zap.Logger
	now       func() time.Time

	phase     Phase
	snap      Snapshot
	pending   bool
	deferred  bool // pending commit waits for the settle gate
	sincePoll time.Duration
}

// New creates a controller over set. A nil validator uses the default
// thresholds.
func New(set *waypoint.Set, v *validation.Validator, opts Options, options ...Option) (*Controller, error) {
	if set == nil {
		return nil, ErrNoAnchors
	}
	if v == nil {
		v = validation.New(validation.DefaultThresholds())
	}

	c := &Controller{
		set:       set,
		validator: v,
		monitor:   validation.NewMonitor(v.Thresholds().SettleDuration),
		opts:      opts.normalized(),
		now:       time.Now,
	}
	for _, o := range options {
		o(c)
	}
	if c.log == nil {
		c.log = logger.Named("belt")
	}
	return c, nil
}

// Setup captures the initial baselines and runs the first rebuild.
func (c *Controller) Setup() bool {
	c.set.Pull()
	c.set.CaptureBaselines()
	c.log.Info("belt setup",
		zap.Int("anchors", c.set.Len()),
		zap.Stringer("mode", c.opts.Path.Mode),
		zap.Stringer("topology", c.opts.Path.Topology),
	)
	return c.rebuild("setup", true)
}

// CheckAndPropagate reads host positions, detects motion of any active
// anchor, and moves the dependents of every moved roller to their baseline
// plus the roller's delta. It reports whether anything moved.
func (c *Controller) CheckAndPropagate() bool {
	c.set.Pull()

	moved := false
	var rollers []*waypoint.Anchor
	c.set.Each(func(_ waypoint.Index, a *waypoint.Anchor) {
		if !a.Active || !waypoint.HasMoved(a, c.opts.MotionThreshold) {
			return
		}
		moved = true
		waypoint.MarkObserved(a)
		if a.Role.IsRoller() {
			rollers = append(rollers, a)
		}
	})

	for _, r := range rollers {
		delta := waypoint.RollerDelta(r)
		deps := c.set.Dependents(waypoint.DriverFor(r.Role))
		for _, i := range deps {
			a := c.set.At(i)
			waypoint.PropagateDelta(a, delta)
			waypoint.MarkObserved(a)
		}
		c.set.Push(deps)

		c.log.Debug("roller moved",
			zap.String("roller", r.Name),
			zap.Float32s("delta", sliceOf(delta.Array())),
			zap.Int("dependents", len(deps)),
		)
	}
	return moved
}

// Tick advances the controller by dt. It feeds the settle timer, polls for
// motion every PollInterval when AutoUpdate is on, and runs a pending rebuild.
// Motion restarts the settle timer. A deferred commit is only re-evaluated
// after new motion or once the verdict has settled. It reports whether new
// geometry was committed.
func (c *Controller) Tick(dt time.Duration) bool {
	c.monitor.Advance(dt)

	moved := false
	if c.opts.AutoUpdate {
		c.sincePoll += dt
		if c.sincePoll >= c.opts.PollInterval {
			c.sincePoll = 0
			if c.CheckAndPropagate() {
				c.monitor.Touch()
				c.pending = true
				moved = true
			}
		}
	}

	if !c.pending {
		return false
	}
	if c.deferred && !moved && !c.monitor.Stable() {
		return false
	}
	return c.rebuild("motion", true)
}

// Rebuild propagates any outstanding motion and rebuilds immediately,
// bypassing the settle gate. It is safe to call repeatedly and does nothing
// with fewer than two active anchors.
func (c *Controller) Rebuild() bool {
	c.CheckAndPropagate()
	return c.rebuild("manual", false)
}

// RequestRebuild schedules a rebuild on the next Tick.
func (c *Controller) RequestRebuild() {
	c.pending = true
	c.deferred = false
}

// Reconfigure replaces the controller options and validation thresholds and
// schedules a rebuild.
func (c *Controller) Reconfigure(opts Options, th validation.Thresholds) {
	c.opts = opts.normalized()
	c.validator = validation.New(th)
	c.monitor = validation.NewMonitor(th.SettleDuration)
	c.pending = true
	c.deferred = false
	c.log.Info("belt reconfigured",
		zap.Stringer("mode", c.opts.Path.Mode),
		zap.Stringer("topology", c.opts.Path.Topology),
		zap.Int("samples", c.opts.Path.Samples),
		zap.Bool("settle_gate", c.opts.SettleGate),
	)
}

// SetPathOptions changes sampling and topology and schedules a rebuild.
func (c *Controller) SetPathOptions(p path.Options) {
	opts := c.opts
	opts.Path = p
	c.opts = opts.normalized()
	c.pending = true
	c.deferred = false
}

// Options returns the active options.
func (c *Controller) Options() Options { return c.opts }

// Set returns the anchor set the controller owns.
func (c *Controller) Set() *waypoint.Set { return c.set }

// Phase returns the rebuild state.
func (c *Controller) Phase() Phase { return c.phase }

// Pending reports whether a rebuild is scheduled.
func (c *Controller) Pending() bool { return c.pending }

// Verdict returns the most recent verdict, including blocked ones.
func (c *Controller) Verdict() validation.Verdict { return c.snap.Verdict }

// Path returns the committed path.
func (c *Controller) Path() path.Path { return c.snap.Path }

// Mesh returns the committed mesh, nil before the first commit.
func (c *Controller) Mesh() *geometry.Mesh { return c.snap.Mesh }

// Snapshot returns the committed snapshot.
func (c *Controller) Snapshot() Snapshot { return c.snap }

// rebuild runs one Assembling step and either commits, blocks, defers or
// skips. Nothing in the snapshot changes until the new geometry is complete.
// gated applies SettleGate. Observers hear about a deferral once, when it
// starts.
func (c *Controller) rebuild(trigger string, gated bool) bool {
	start := c.now()
	wasDeferred := c.deferred
	c.deferred = false

	cfg := path.Assemble(c.set)
	if cfg.Len() < 2 {
		c.pending = false
		c.log.Debug("rebuild skipped", zap.String("trigger", trigger), zap.Int("anchors", cfg.Len()))
		c.finish(OutcomeSkipped, validation.Verdict{}, start)
		return false
	}

	c.phase = Assembling
	verdict := c.validator.Evaluate(cfg.Anchors)
	c.monitor.Observe(verdict)

	if verdict.Blocks() {
		snap := c.snap
		snap.Verdict = verdict
		snap.Stable = false
		c.snap = snap
		c.phase = Blocked
		c.pending = false

		c.log.Debug("rebuild blocked",
			zap.String("trigger", trigger),
			zap.Strings("reasons", verdict.Reasons()),
		)
		c.present(validation.ColorInvalid)
		c.finish(OutcomeBlocked, verdict, start)
		return false
	}

	if gated && c.opts.SettleGate && verdict.State == validation.Valid && !c.monitor.Stable() {
		c.pending = true
		c.deferred = true
		if !wasDeferred {
			c.log.Debug("rebuild deferred", zap.String("trigger", trigger), zap.Duration("held", c.monitor.Held()))
			c.finish(OutcomeDeferred, verdict, start)
		}
		return false
	}

	p := path.Build(cfg, c.opts.Path)
	mesh := geometry.BuildRibbon(p.Points, geometry.RibbonOptions{
		Width:     c.opts.Ribbon.Width,
		Thickness: c.opts.Ribbon.Thickness,
		Closed:    p.Closed,
		Up:        c.opts.Ribbon.Up,
	})

	c.snap = Snapshot{
		Configuration: cfg.Detach(),
		Path:          p,
		Mesh:          mesh,
		Verdict:       verdict,
		Stable:        c.monitor.Stable(),
		Generation:    c.snap.Generation + 1,
	}
	c.set.CaptureBaselines()
	c.phase = Rendered
	c.pending = false

	c.log.Debug("rebuild committed",
		zap.String("trigger", trigger),
		zap.Stringer("verdict", verdict.State),
		zap.Int("points", p.Len()),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Uint64("generation", c.snap.Generation),
	)
	c.present(validation.ColorFor(verdict.State))
	c.finish(OutcomeCommitted, verdict, start)
	return true
}

func (c *Controller) present(hint validation.Color) {
	if c.sink != nil {
		c.sink.Present(c.snap, hint)
	}
}

func (c *Controller) finish(outcome Outcome, verdict validation.Verdict, start time.Time) {
	took := c.now().Sub(start)
	for _, o := range c.observers {
		o.RebuildFinished(outcome, verdict, took, c.snap)
	}
}

func sliceOf(a [3]float32) []float32 {
	return a[:]
}
