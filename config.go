package tttplot

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Overlay is a set of conditions drawn on one figure.
type Overlay struct {
	Instance   int         `yaml:"instance"`
	Title      string      `yaml:"title"`
	Conditions []Condition `yaml:"conditions"`
}

type ToolConfig struct {
	Shell       string `yaml:"shell"`
	Interpreter string `yaml:"interpreter"`
	Script      string `yaml:"script"`
	Dir         string `yaml:"dir,omitempty"`
	// Strict stops the pipeline when the tool fails instead of going on to
	// load whatever it left behind.
	Strict bool `yaml:"strict"`
}

type PlotConfig struct {
	XLabel   string  `yaml:"x_label"`
	YLabel   string  `yaml:"y_label"`
	WidthCM  float64 `yaml:"width_cm"`
	HeightCM float64 `yaml:"height_cm"`
	// Show opens a gnuplot window; it needs a binary built with -tags gnuplot.
	Show bool `yaml:"show"`
}

// ArchiveSettings enables the archive when Driver is set.
type ArchiveSettings struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

type LoggingConfig struct {
	// Level is one of "info" (default), "debug" or "trace".
	Level string `yaml:"level"`
}

type Config struct {
	Layout   Layout          `yaml:"layout"`
	Tool     ToolConfig      `yaml:"tool"`
	Plot     PlotConfig      `yaml:"plot"`
	Archive  ArchiveSettings `yaml:"archive"`
	Logging  LoggingConfig   `yaml:"logging"`
	Single   []Condition     `yaml:"single"`
	Overlays []Overlay       `yaml:"overlays"`
}

// DefaultConfig describes the sample_data experiments: instance 1 run
// sequentially, and instance 9 across ant and thread counts.
func DefaultConfig() *Config {
	tool := DefaultTTTPlots()
	overlay := Overlay{Instance: 9, Title: "Instance 9: time to target"}
	for _, n := range []int{2, 4, 8, 16} {
		overlay.Conditions = append(overlay.Conditions, AntsThreadsCondition(9, n, n))
	}
	return &Config{
		Layout: DefaultLayout(),
		Tool: ToolConfig{
			Shell:       tool.Shell,
			Interpreter: tool.Interpreter,
			Script:      tool.Script,
		},
		Plot: PlotConfig{
			XLabel:   "time to target solution (s)",
			YLabel:   "cumulative probability",
			WidthCM:  16,
			HeightCM: 12,
			Show:     true,
		},
		Logging:  LoggingConfig{Level: "info"},
		Single:   []Condition{ParallelCondition(1, false)},
		Overlays: []Overlay{overlay},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	check := func(cond Condition) error {
		switch cond.Mode {
		case ModeParallel, "":
		case ModeAntsThreads:
			if cond.Ants <= 0 || cond.Threads <= 0 {
				return errors.Errorf("condition %s: ants and threads must be positive", cond.Name())
			}
		default:
			return errors.Errorf("condition %s: unknown mode %q", cond.Name(), cond.Mode)
		}
		return nil
	}
	for _, cond := range c.Single {
		if err := check(cond); err != nil {
			return err
		}
	}
	for _, o := range c.Overlays {
		if len(o.Conditions) == 0 {
			return errors.Errorf("overlay for instance %d has no conditions", o.Instance)
		}
		labels := make(map[string]bool)
		for _, cond := range o.Conditions {
			if err := check(cond); err != nil {
				return err
			}
			if labels[cond.Label()] {
				return errors.Errorf("overlay for instance %d: legend %q used twice", o.Instance, cond.Label())
			}
			labels[cond.Label()] = true
		}
	}
	switch c.Archive.Driver {
	case "", "mysql", "sqlite":
	default:
		return errors.Errorf("unknown archive driver %q", c.Archive.Driver)
	}
	if c.Plot.WidthCM <= 0 || c.Plot.HeightCM <= 0 {
		return errors.New("plot size must be positive")
	}
	return nil
}

// NewTool builds the tttplots.pl invoker described by the configuration.
func (c *Config) NewTool() *TTTPlots {
	return &TTTPlots{
		Shell:       c.Tool.Shell,
		Interpreter: c.Tool.Interpreter,
		Script:      c.Tool.Script,
		Dir:         c.Tool.Dir,
	}
}
