package belt

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/path"
	"github.com/Faultbox/beltline/internal/waypoint"
	"github.com/Faultbox/beltline/pkg/math"
)

// DefaultPollInterval is the motion polling cadence.
const DefaultPollInterval = 50 * time.Millisecond

// RibbonOptions sizes the generated belt cross-section.
type RibbonOptions struct {
	Width     float32
	Thickness float32
	// Up is the world up used to orient the cross-section.
	Up math.Vec3
}

// Options configures a Controller.
type Options struct {
	Path   path.Options
	Ribbon RibbonOptions

	// MotionThreshold ignores anchor jitter below this distance.
	MotionThreshold float32
	// PollInterval throttles motion detection inside Tick.
	PollInterval time.Duration
	// SettleGate defers regeneration of a Valid configuration until the
	// verdict has been stable for the validator's settle duration. Warning
	// verdicts still regenerate immediately.
	SettleGate bool
	// AutoUpdate enables motion polling in Tick. Manual rebuilds work either
	// way.
	AutoUpdate bool
}

// DefaultOptions returns the stock controller settings.
func DefaultOptions() Options {
	return Options{
		Path: path.DefaultOptions(),
		Ribbon: RibbonOptions{
			Width:     2,
			Thickness: 0.2,
			Up:        math.Up,
		},
		MotionThreshold: waypoint.DefaultMotionThreshold,
		PollInterval:    DefaultPollInterval,
		AutoUpdate:      true,
	}
}

func (o Options) normalized() Options {
	if o.MotionThreshold < 0 {
		o.MotionThreshold = 0
	}
	if o.PollInterval < 0 {
		o.PollInterval = 0
	}
	if o.Path.Samples < 1 {
		o.Path.Samples = path.DefaultSamples
	}
	if o.Ribbon.Up.LengthSq() == 0 {
		o.Ribbon.Up = math.Up
	}
	return o
}

// Option customizes a Controller.
type Option func(*Controller)

// WithSink sets the receiver of committed geometry.
func WithSink(s Sink) Option {
	return func(c *Controller) {
		c.sink = s
	}
}

// WithObserver adds a receiver of rebuild outcomes.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}

// WithLogger overrides the controller's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithClock overrides the time source used to measure rebuild duration.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}
