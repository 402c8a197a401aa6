package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "CPL_CONFIG"

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("config file not found")

// Config holds the complete cpl configuration
type Config struct {
	Parser   ParserConfig   `toml:"parser"`
	Analyzer AnalyzerConfig `toml:"analyzer"`
	Driver   DriverConfig   `toml:"driver"`
	Output   OutputConfig   `toml:"output"`
	Log      LogConfig      `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// ParserConfig controls error recovery in the parser
type ParserConfig struct {
	StopAtFirstError bool `toml:"stop_at_first_error"`
	MaxErrors        int  `toml:"max_errors"`
}

// AnalyzerConfig controls the semantic analyzer
type AnalyzerConfig struct {
	StopAtFirstError bool `toml:"stop_at_first_error"`
	WarnUnused       bool `toml:"warn_unused"`
}

// DriverConfig controls how compilations are scheduled
type DriverConfig struct {
	Timeout     Duration `toml:"timeout"`
	Parallelism int      `toml:"parallelism"`
}

// OutputConfig controls rendering of results
type OutputConfig struct {
	Format  string `toml:"format"`
	NoColor bool   `toml:"no_color"`
	Timings bool   `toml:"timings"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path is a directory: %s", path)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by CPL_CONFIG, or the first of the
// default locations that exists. Defaults are returned when nothing is found.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}

	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// SearchPaths lists the default config locations in lookup order.
func SearchPaths() []string {
	paths := []string{"./cpl.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cpl", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Driver.Timeout.Duration == 0 {
		c.Driver.Timeout.Duration = 30 * time.Second
	}
	if c.Driver.Parallelism <= 0 {
		c.Driver.Parallelism = runtime.NumCPU()
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports the first setting that cannot be honoured.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "text", "yaml", "debug":
	default:
		return fmt.Errorf("output.format must be text, yaml or debug, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	if c.Parser.MaxErrors < 0 {
		return fmt.Errorf("parser.max_errors must not be negative")
	}
	if c.Driver.Timeout.Duration < 0 {
		return fmt.Errorf("driver.timeout must not be negative")
	}
	return nil
}
