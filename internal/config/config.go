// Package config handles beltline configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/beltline/internal/belt"
	"github.com/Faultbox/beltline/internal/path"
	"github.com/Faultbox/beltline/internal/validation"
	"github.com/Faultbox/beltline/internal/waypoint"
	"github.com/Faultbox/beltline/pkg/math"
)

// Config holds all beltline settings.
type Config struct {
	Belt       BeltConfig       `yaml:"belt"`
	Validation ValidationConfig `yaml:"validation"`
	Motion     MotionConfig     `yaml:"motion"`
	Layout     LayoutConfig     `yaml:"layout"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BeltConfig holds path sampling and ribbon settings.
type BeltConfig struct {
	Mode      string  `yaml:"mode"`     // linear, bezier, catmull-rom, auto
	Topology  string  `yaml:"topology"` // open, closed
	Samples   int     `yaml:"samples"`  // per segment
	Width     float32 `yaml:"width"`
	Thickness float32 `yaml:"thickness"`
}

// ValidationConfig holds validator thresholds. Angles are in degrees.
type ValidationConfig struct {
	OptimalRollerDistance float32       `yaml:"optimal_roller_distance"`
	MinimumRollerDistance float32       `yaml:"minimum_roller_distance"`
	MaxRollerDistance     float32       `yaml:"max_roller_distance"`
	MinPoleDistance       float32       `yaml:"min_pole_distance"`
	MaxBendAngle          float32       `yaml:"max_bend_angle"`
	ReferenceAxis         [3]float32    `yaml:"reference_axis"`
	OverlapEpsilon        float32       `yaml:"overlap_epsilon"`
	PoleCenterMin         float32       `yaml:"pole_center_min"`
	PoleCenterMax         float32       `yaml:"pole_center_max"`
	RequireFullPoleSet    bool          `yaml:"require_full_pole_set"`
	SettleDuration        time.Duration `yaml:"settle_duration"`
}

// MotionConfig holds motion detection settings.
type MotionConfig struct {
	Threshold    float32       `yaml:"threshold"`
	PollInterval time.Duration `yaml:"poll_interval"`
	SettleGate   bool          `yaml:"settle_gate"`
	AutoUpdate   bool          `yaml:"auto_update"`
}

// LayoutConfig sizes the default six-anchor layout.
type LayoutConfig struct {
	Center     [3]float32 `yaml:"center"`
	Length     float32    `yaml:"length"`
	Width      float32    `yaml:"width"`
	Height     float32    `yaml:"height"`
	PoleOffset float32    `yaml:"pole_offset"`
}

// ViewerConfig holds display settings for beltview.
type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	MSAA       int     `yaml:"msaa"` // multisample count, 0 or 1 disables
	ShowPath   bool    `yaml:"show_path"`
	MoveStep   float32 `yaml:"move_step"` // roller nudge per key press
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	th := validation.DefaultThresholds()
	layout := waypoint.DefaultLayoutOptions()
	ctrl := belt.DefaultOptions()

	return &Config{
		Belt: BeltConfig{
			Mode:      ctrl.Path.Mode.String(),
			Topology:  ctrl.Path.Topology.String(),
			Samples:   ctrl.Path.Samples,
			Width:     ctrl.Ribbon.Width,
			Thickness: ctrl.Ribbon.Thickness,
		},
		Validation: ValidationConfig{
			OptimalRollerDistance: th.OptimalRollerDistance,
			MinimumRollerDistance: th.MinimumRollerDistance,
			MaxRollerDistance:     th.MaxRollerDistance,
			MinPoleDistance:       th.MinPoleDistance,
			MaxBendAngle:          th.MaxBendAngle,
			ReferenceAxis:         th.ReferenceAxis.Array(),
			OverlapEpsilon:        th.OverlapEpsilon,
			PoleCenterMin:         th.PoleCenterMin,
			PoleCenterMax:         th.PoleCenterMax,
			RequireFullPoleSet:    th.RequireFullPoleSet,
			SettleDuration:        th.SettleDuration,
		},
		Motion: MotionConfig{
			Threshold:    ctrl.MotionThreshold,
			PollInterval: ctrl.PollInterval,
			SettleGate:   ctrl.SettleGate,
			AutoUpdate:   ctrl.AutoUpdate,
		},
		Layout: LayoutConfig{
			Center:     layout.Center.Array(),
			Length:     layout.Length,
			Width:      layout.Width,
			Height:     layout.Height,
			PoleOffset: layout.PoleOffset,
		},
		Viewer: ViewerConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			MSAA:     4,
			ShowPath: true,
			MoveStep: 0.1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that the adapters cannot repair.
func (c *Config) Validate() error {
	if _, err := path.ParseMode(c.Belt.Mode); err != nil {
		return fmt.Errorf("belt.mode: %w", err)
	}
	if _, err := path.ParseTopology(c.Belt.Topology); err != nil {
		return fmt.Errorf("belt.topology: %w", err)
	}
	if c.Belt.Width <= 0 {
		return fmt.Errorf("belt.width must be positive, got %v", c.Belt.Width)
	}
	v := c.Validation
	if v.MinimumRollerDistance > v.MaxRollerDistance {
		return fmt.Errorf("validation: minimum_roller_distance %v exceeds max_roller_distance %v",
			v.MinimumRollerDistance, v.MaxRollerDistance)
	}
	if v.PoleCenterMin > v.PoleCenterMax {
		return fmt.Errorf("validation: pole_center_min %v exceeds pole_center_max %v",
			v.PoleCenterMin, v.PoleCenterMax)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ToControllerOptions converts the belt and motion sections.
func (c *Config) ToControllerOptions() (belt.Options, error) {
	mode, err := path.ParseMode(c.Belt.Mode)
	if err != nil {
		return belt.Options{}, fmt.Errorf("belt.mode: %w", err)
	}
	topo, err := path.ParseTopology(c.Belt.Topology)
	if err != nil {
		return belt.Options{}, fmt.Errorf("belt.topology: %w", err)
	}

	opts := belt.DefaultOptions()
	opts.Path = path.Options{Mode: mode, Samples: c.Belt.Samples, Topology: topo}
	opts.Ribbon.Width = c.Belt.Width
	opts.Ribbon.Thickness = c.Belt.Thickness
	opts.MotionThreshold = c.Motion.Threshold
	opts.PollInterval = c.Motion.PollInterval
	opts.SettleGate = c.Motion.SettleGate
	opts.AutoUpdate = c.Motion.AutoUpdate
	return opts, nil
}

// ToThresholds converts the validation section.
func (c *Config) ToThresholds() validation.Thresholds {
	v := c.Validation
	return validation.Thresholds{
		OptimalRollerDistance: v.OptimalRollerDistance,
		MinimumRollerDistance: v.MinimumRollerDistance,
		MaxRollerDistance:     v.MaxRollerDistance,
		MinPoleDistance:       v.MinPoleDistance,
		MaxBendAngle:          v.MaxBendAngle,
		ReferenceAxis:         vec(v.ReferenceAxis),
		OverlapEpsilon:        v.OverlapEpsilon,
		PoleCenterMin:         v.PoleCenterMin,
		PoleCenterMax:         v.PoleCenterMax,
		RequireFullPoleSet:    v.RequireFullPoleSet,
		SettleDuration:        v.SettleDuration,
	}
}

// ToLayoutOptions converts the layout section.
func (c *Config) ToLayoutOptions() waypoint.LayoutOptions {
	opts := waypoint.DefaultLayoutOptions()
	opts.Center = vec(c.Layout.Center)
	opts.Length = c.Layout.Length
	opts.Width = c.Layout.Width
	opts.Height = c.Layout.Height
	opts.PoleOffset = c.Layout.PoleOffset
	return opts
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// NewController builds the default layout and a controller over it. The
// caller runs Setup once its sink and observers are attached.
func (c *Config) NewController(options ...belt.Option) (*belt.Controller, error) {
	opts, err := c.ToControllerOptions()
	if err != nil {
		return nil, err
	}
	set, err := waypoint.NewSetFrom(waypoint.DefaultLayout(c.ToLayoutOptions()))
	if err != nil {
		return nil, fmt.Errorf("building layout: %w", err)
	}
	return belt.New(set, validation.New(c.ToThresholds()), opts, options...)
}
