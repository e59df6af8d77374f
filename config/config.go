// Package config loads menuplan settings.
//
// Sources are layered, each overriding the one before:
// built-in defaults, the YAML file (menuplan.yaml), MENUPLAN_* environment
// variables and finally command-line flags that were set explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"menuplan/constraint"
	"menuplan/report"
	"menuplan/solver"
)

const (
	EnvPrefix      = "MENUPLAN_"
	DefaultCatalog = "dishes.csv"
	DefaultAddr    = ":8080"
	DefaultTimeout = 30 * time.Second
	DefaultWorkers = 4
)

// Config holds the settings shared by every command.
type Config struct {
	Catalog string        `koanf:"catalog"`
	Solver  string        `koanf:"solver"`
	Alpha   int           `koanf:"alpha"`
	Output  string        `koanf:"output"`
	Timeout time.Duration `koanf:"timeout"`
	Verbose bool          `koanf:"verbose"`
	Addr    string        `koanf:"addr"`
	Workers int           `koanf:"workers"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"catalog": DefaultCatalog,
		"solver":  solver.Gophersat,
		"alpha":   constraint.DefaultAlpha,
		"output":  report.Text,
		"timeout": DefaultTimeout.String(),
		"verbose": false,
		"addr":    DefaultAddr,
		"workers": DefaultWorkers,
	}
}

// findConfigFile returns explicit, or the first menuplan.y(a)ml found in the
// working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"menuplan.yaml", "menuplan.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads the configuration. cfgFile may be empty; flags may be nil.
// Only flags the user changed take part, so an unset flag never hides a
// value from the file or the environment.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// MENUPLAN_SOLVER -> solver
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path
	return &cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Alpha < 0 {
		errs = append(errs, fmt.Errorf("alpha must not be negative, got %d", c.Alpha))
	}
	if !slices.Contains(solver.Backends(), c.Solver) {
		errs = append(errs, fmt.Errorf("%w: %q (want one of %s)",
			solver.ErrUnknownBackend, c.Solver, strings.Join(solver.Backends(), ", ")))
	}
	if !report.ValidFormat(c.Output) {
		errs = append(errs, fmt.Errorf("unknown output format %q (want one of %s)",
			c.Output, strings.Join(report.Formats(), ", ")))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	return errors.Join(errs...)
}
