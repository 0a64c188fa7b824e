// Package config holds the settings of the q3log command and loads them from
// defaults, an optional YAML file, Q3LOG_* environment variables and command
// line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

// Formats lists the accepted output formats.
var Formats = []string{"json", "jsonl", "yaml", "pretty"}

// Config is the command configuration. Keys are the koanf tags; the same
// names are used in YAML files and, upper-cased with the Q3LOG_ prefix, in
// the environment.
type Config struct {
	// LogFile is the server log to read. Empty or "-" reads standard input.
	LogFile string `koanf:"log_file"`

	// Format selects the output renderer, one of Formats.
	Format string `koanf:"format"`

	Verbose bool `koanf:"verbose"`
	Debug   bool `koanf:"debug"`

	// Extended enables every analysis. Ignored when Analyses is set.
	Extended bool `koanf:"extended"`

	// Pedantic stops on the first error and enables every consistency check.
	Pedantic bool `koanf:"pedantic"`

	// Analyses is an explicit analysis set, by name.
	Analyses []string `koanf:"analyses"`

	// Patterns are YAML pattern files for modded server logs.
	Patterns []string `koanf:"patterns"`

	// SQLitePath, when set, persists every summary to that database.
	SQLitePath string `koanf:"sqlite_path"`

	// MetricsAddr, when set, serves prometheus metrics in follow mode.
	MetricsAddr string `koanf:"metrics_addr"`

	// PollInterval is the rotation check interval of follow mode.
	PollInterval time.Duration `koanf:"poll_interval"`

	// StopOnErrors aborts on the first failed summary.
	StopOnErrors bool `koanf:"stop_on_errors"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		Format:       "json",
		PollInterval: 2 * time.Second,
	}
}

// Validate checks the values that cannot be checked by their consumers
// before any input is read.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: unknown format %q (valid: %s)", ErrInvalidConfig, c.Format, strings.Join(Formats, ", "))
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalidConfig)
	}
	if _, err := c.analyses(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) analyses() (pipeline.Analyses, error) {
	if len(c.Analyses) > 0 {
		set, err := pipeline.ParseAnalyses(c.Analyses)
		if err != nil {
			return 0, err
		}
		if set == 0 {
			return pipeline.Baseline, nil
		}
		if !slices.Contains(pipeline.SupportedAnalyses(), set) {
			return 0, fmt.Errorf("%w: %s", pipeline.ErrUnsupportedAnalyses, set)
		}
		return set, nil
	}
	if c.Extended {
		return pipeline.Extended, nil
	}
	return pipeline.Baseline, nil
}

// Pipeline maps the command settings onto the pipeline configuration.
func (c *Config) Pipeline(logger *slog.Logger) (pipeline.Config, error) {
	set, err := c.analyses()
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return pipeline.Config{
		LogIssues:                  c.Verbose,
		StopOnFeedErrors:           c.Pedantic,
		StopOnEventModelViolations: c.Pedantic,
		Analyses:                   set,
		Logger:                     logger,
	}, nil
}

// StopOnFirstError reports whether the first failed summary ends the run.
func (c *Config) StopOnFirstError() bool {
	return c.StopOnErrors || c.Pedantic
}

// LogLevel is Debug with Debug set and Info otherwise.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
