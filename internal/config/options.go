package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StyleDropdown   = "dropdown"
	StyleSequential = "sequential"
)

// ErrInvalidStyle is returned for a style other than dropdown or sequential.
var ErrInvalidStyle = errors.New("invalid style")

// Options are the user-facing picker options as stored in config.yaml.
// Start and End are text; they are parsed by the picker so an unparseable
// bound surfaces as a validity flag rather than a load failure.
type Options struct {
	Format   string `yaml:"format,omitempty"`
	Timezone string `yaml:"timezone,omitempty"`
	Start    string `yaml:"start,omitempty"`
	End      string `yaml:"end,omitempty"`
	Style    string `yaml:"style,omitempty"`
	Strict   bool   `yaml:"strict,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Defaults returns the built-in options. Empty Start/End mean the current month.
func Defaults() Options {
	return Options{
		Format: "LL",
		Style:  StyleDropdown,
	}
}

// Validate checks option values that cannot be reported as validity flags.
func (o Options) Validate() error {
	switch o.Style {
	case "", StyleDropdown, StyleSequential:
		return nil
	default:
		return fmt.Errorf("%w: %q (supported: %s, %s)", ErrInvalidStyle, o.Style, StyleDropdown, StyleSequential)
	}
}

// Merge overlays the non-empty fields of other onto o.
// Booleans only ever switch on.
func (o Options) Merge(other Options) Options {
	if other.Format != "" {
		o.Format = other.Format
	}
	if other.Timezone != "" {
		o.Timezone = other.Timezone
	}
	if other.Start != "" {
		o.Start = other.Start
	}
	if other.End != "" {
		o.End = other.End
	}
	if other.Style != "" {
		o.Style = other.Style
	}
	o.Strict = o.Strict || other.Strict
	o.Disabled = o.Disabled || other.Disabled
	return o
}

// ReadOptions reads an options file. A missing file yields zero Options.
func ReadOptions(path string) (Options, error) {
	var opts Options

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("failed to read options: %w", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options %s: %w", path, err)
	}

	return opts, nil
}

// WriteOptions writes opts to path as YAML.
func WriteOptions(path string, opts Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}

	return nil
}

// EnvOptions reads DATESEL_* overrides from the environment.
func EnvOptions() (Options, error) {
	opts := Options{
		Format:   os.Getenv("DATESEL_FORMAT"),
		Timezone: os.Getenv("DATESEL_TIMEZONE"),
		Start:    os.Getenv("DATESEL_START"),
		End:      os.Getenv("DATESEL_END"),
		Style:    strings.ToLower(os.Getenv("DATESEL_STYLE")),
	}

	if v := os.Getenv("DATESEL_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid DATESEL_STRICT %q: %w", v, err)
		}
		opts.Strict = strict
	}

	return opts, nil
}

// LoadDotEnv loads a .env file into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load resolves options with precedence defaults < file < environment.
// An empty path uses ConfigPath.
func Load(path string) (Options, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return Options{}, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	fileOpts, err := ReadOptions(path)
	if err != nil {
		return Options{}, err
	}

	envOpts, err := EnvOptions()
	if err != nil {
		return Options{}, err
	}

	opts := Defaults().Merge(fileOpts).Merge(envOpts)
	if os.Getenv("DATESEL_STRICT") != "" {
		// An explicit false must be able to switch strict off again.
		opts.Strict = envOpts.Strict
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}

	return opts, nil
}
