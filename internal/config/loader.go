package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "Q3LOG_"

	// EnvConfigFile names the YAML file to load when no path is given.
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// LoadOptions tunes Load.
type LoadOptions struct {
	// Path is the YAML file to load. Empty falls back to $Q3LOG_CONFIG,
	// and to no file at all when that is unset.
	Path string

	// Overrides are applied last, keyed like the koanf tags of Config.
	// The command passes the flags the user set explicitly.
	Overrides map[string]any
}

// Load builds a Config by layering, from low to high precedence:
//  1. defaults (New)
//  2. the YAML file, if any
//  3. Q3LOG_* environment variables (Q3LOG_LOG_FILE -> log_file)
//  4. opts.Overrides
func Load(opts LoadOptions) (*Config, error) {
	base := New()
	k := koanf.New(".")

	path := opts.Path
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	for key, val := range opts.Overrides {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, key, err)
		}
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.Analyses = splitList(cfg.Analyses)
	cfg.Patterns = splitList(cfg.Patterns)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList flattens comma separated entries, as given by environment
// variables, and drops empty ones.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
