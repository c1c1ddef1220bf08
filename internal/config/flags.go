package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config as
// loaded.
type Flags struct {
	Config     string
	Debug      bool
	LogLevel   string
	Mode       string
	Topology   string
	Samples    int
	Metrics    string
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
	MSAA       int
}

// Register binds the overrides to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file (or $"+EnvConfig+")")
	fs.BoolVar(&f.Debug, "debug", false, "Debug logging and path overlay")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.Mode, "mode", "", "Path mode: linear, bezier, catmull-rom, auto")
	fs.StringVar(&f.Topology, "topology", "", "Belt topology: open, closed")
	fs.IntVar(&f.Samples, "samples", 0, "Samples per path segment")
	fs.StringVar(&f.Metrics, "metrics", "", "Prometheus listen address, e.g. :9102")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.IntVar(&f.MSAA, "msaa", -1, "Multisample count, 0 disables")
}

// Apply copies the overrides that were set into cfg. -fullscreen wins over
// -windowed and -log-level over -debug.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Viewer.ShowPath = true
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Mode != "" {
		cfg.Belt.Mode = f.Mode
	}
	if f.Topology != "" {
		cfg.Belt.Topology = f.Topology
	}
	if f.Samples > 0 {
		cfg.Belt.Samples = f.Samples
	}
	if f.Metrics != "" {
		cfg.Metrics.Listen = f.Metrics
	}
	switch {
	case f.Fullscreen:
		cfg.Viewer.Fullscreen = true
	case f.Windowed:
		cfg.Viewer.Fullscreen = false
	}
	if f.Width > 0 {
		cfg.Viewer.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Viewer.Height = f.Height
	}
	if f.MSAA >= 0 {
		cfg.Viewer.MSAA = f.MSAA
	}
}

var cli = Flags{MSAA: -1}

func init() {
	cli.Register(flag.CommandLine)
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the path given with -config, if any.
func ConfigPath() string {
	return cli.Config
}

func applyFlags(cfg *Config) {
	cli.Apply(cfg)
}
