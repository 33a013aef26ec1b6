package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/roach88/scrollguard/internal/wheel"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "/etc/scrollguard.toml"

// SourceDefaults is reported as the source of a configuration that was not
// read from a file.
const SourceDefaults = "<defaults>"

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration file.
type Config struct {
	Device  DeviceConfig  `toml:"device" json:"device"`
	Wheel   WheelConfig   `toml:"wheel" json:"wheel"`
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// Source is the file the values came from, or SourceDefaults.
	Source string `toml:"-" json:"-"`
}

// DeviceConfig selects the mouse.
type DeviceConfig struct {
	Path       string `toml:"path" json:"path" comment:"device id from 'scrollguard list' or /dev/input/eventN, empty to choose"`
	NameFilter string `toml:"name_filter" json:"name_filter" comment:"case-insensitive substring of the device name"`
	Backend    string `toml:"backend" json:"backend" comment:"discovery backend: evdev or udev"`
}

// WheelConfig holds the debounce timings in milliseconds.
type WheelConfig struct {
	DebounceTimeMS    int `toml:"debounce_time_ms" json:"debounce_time_ms" comment:"reversal window for the vertical wheel"`
	HDebounceTimeMS   int `toml:"h_debounce_time_ms" json:"h_debounce_time_ms" comment:"reversal window for the horizontal wheel"`
	DebounceTimeoutMS int `toml:"debounce_timeout_ms" json:"debounce_timeout_ms" comment:"idle gap that ends a scroll burst"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level" comment:"error, warn, info, debug or trace"`
	Format string `toml:"format" json:"format" comment:"text or json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Device: DeviceConfig{Backend: "evdev"},
		Wheel: WheelConfig{
			DebounceTimeMS:    int(wheel.DefaultWindow / time.Millisecond),
			HDebounceTimeMS:   int(wheel.DefaultWindow / time.Millisecond),
			DebounceTimeoutMS: int(wheel.DefaultScrollTimeout / time.Millisecond),
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Source:  SourceDefaults,
	}
}

// Load reads the file at path, or DefaultPath when path is empty. A missing
// file yields the defaults; a file that exists must parse and validate.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			slog.Info("config file not found, using defaults", "path", path)
		}
		cfg := Default()
		return &cfg, nil
	}
	if err != nil {
		return nil, &Error{Code: ErrCodeRead, Path: path, Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes and validates TOML. Keys that are absent keep their
// defaults; unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &Error{Code: ErrCodeParse, Err: describeTOMLError(err)}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against the embedded schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &Error{Code: ErrCodeValidate, Err: fmt.Errorf("compile schema: %w", err)}
	}

	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return &Error{Code: ErrCodeValidate, Err: errors.New(strings.TrimSpace(cueerrors.Details(err, nil)))}
	}
	return nil
}

// Debounce converts the wheel section to the debouncer's timings.
func (c *Config) Debounce() wheel.Config {
	return wheel.Config{
		Window:        time.Duration(c.Wheel.DebounceTimeMS) * time.Millisecond,
		HWindow:       time.Duration(c.Wheel.HDebounceTimeMS) * time.Millisecond,
		ScrollTimeout: time.Duration(c.Wheel.DebounceTimeoutMS) * time.Millisecond,
	}
}

// LogValue implements slog.LogValuer.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", c.Source),
		slog.String("device", c.Device.Path),
		slog.String("name_filter", c.Device.NameFilter),
		slog.String("backend", c.Device.Backend),
		slog.Int("debounce_time_ms", c.Wheel.DebounceTimeMS),
		slog.Int("h_debounce_time_ms", c.Wheel.HDebounceTimeMS),
		slog.Int("debounce_timeout_ms", c.Wheel.DebounceTimeoutMS),
	)
}

// NormalizeLogLevel lowercases level and maps "warning" to "warn".
func NormalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	return level
}

func (c *Config) normalize() {
	c.Device.Path = strings.TrimSpace(c.Device.Path)
	c.Device.Backend = strings.ToLower(strings.TrimSpace(c.Device.Backend))
	c.Logging.Level = NormalizeLogLevel(c.Logging.Level)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// WriteDefault writes the default configuration to path unless a file is
// already there. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return false, &Error{Code: ErrCodeWrite, Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, &Error{Code: ErrCodeWrite, Path: path, Err: err}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Code: ErrCodeWrite, Path: path, Err: err}
	}
	defer f.Close()

	header := "# scrollguard configuration\n\n"
	if _, err := f.WriteString(header); err != nil {
		return false, &Error{Code: ErrCodeWrite, Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		return false, &Error{Code: ErrCodeWrite, Path: path, Err: err}
	}
	return true, f.Close()
}

// describeTOMLError adds line and column to go-toml decode errors.
func describeTOMLError(err error) error {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return fmt.Errorf("line %d, column %d: %s", row, col, de.Error())
	}
	var se *toml.StrictMissingError
	if errors.As(err, &se) {
		return errors.New(strings.TrimSpace(se.String()))
	}
	return err
}
