package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/loom/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "loom.yaml"

	// DefaultRenderLimit bounds render-phase re-renders of one component.
	DefaultRenderLimit = 1000

	// DefaultIndent is the serializer indent per depth level.
	DefaultIndent = "  "

	// DefaultAddr is the default serve address.
	DefaultAddr = ":8080"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "loom"
)

// Config represents the complete loom.yaml configuration.
type Config struct {
	// Render contains reconciler and serializer settings.
	Render RenderConfig `yaml:"render"`

	// Bench contains benchmark workload settings.
	Bench BenchConfig `yaml:"bench"`

	// Serve contains HTTP server settings.
	Serve ServeConfig `yaml:"serve"`

	// Log contains logger settings.
	Log LogConfig `yaml:"log"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains reconciler and serializer settings.
type RenderConfig struct {
	// RenderLimit is the render-phase iteration bound.
	RenderLimit int `yaml:"renderLimit"`

	// Indent is written once per depth level.
	Indent string `yaml:"indent"`
}

// BenchConfig contains benchmark workload settings.
type BenchConfig struct {
	// Iterations is the number of reorder passes.
	Iterations int `yaml:"iterations"`

	// Items is the size of the keyed list.
	Items int `yaml:"items"`
}

// ServeConfig contains HTTP server settings.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// MetricsPath is where Prometheus metrics are exposed.
	MetricsPath string `yaml:"metricsPath"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Render: RenderConfig{
			RenderLimit: DefaultRenderLimit,
			Indent:      DefaultIndent,
		},
		Bench: BenchConfig{
			Iterations: 1000,
			Items:      50,
		},
		Serve: ServeConfig{
			Addr:        DefaultAddr,
			MetricsPath: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for loom.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'loom init' to write a default configuration").
				Wrap(err)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes configuration data, applies defaults and validates it.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.New("E121").
			WithDetail(err.Error()).
			Wrap(err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Render.RenderLimit == 0 {
		c.Render.RenderLimit = DefaultRenderLimit
	}
	if c.Render.Indent == "" {
		c.Render.Indent = DefaultIndent
	}
	if c.Bench.Iterations == 0 {
		c.Bench.Iterations = 1000
	}
	if c.Bench.Items == 0 {
		c.Bench.Items = 50
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch {
	case c.Render.RenderLimit < 1:
		return errors.New("E122").WithDetail("render.renderLimit must be positive")
	case c.Bench.Iterations < 1 || c.Bench.Items < 1:
		return errors.New("E122").WithDetail("bench.iterations and bench.items must be positive")
	case !strings.HasPrefix(c.Serve.MetricsPath, "/"):
		return errors.New("E122").WithDetail("serve.metricsPath must start with /")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E122").WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E122").WithDetailf("log.level %q is not a valid level", c.Log.Level).Wrap(err)
	}
	return level, nil
}
