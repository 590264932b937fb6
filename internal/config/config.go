// Package config provides configuration management for calendar-engine.
// It handles loading TOML configuration files, applying defaults and
// environment overrides, validating settings, and turning them into a
// calendar.Engine.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/nowwaveradio/calendar-engine/calendar"
	"github.com/nowwaveradio/calendar-engine/internal/constants"
	"github.com/nowwaveradio/calendar-engine/internal/errorutil"
	"github.com/nowwaveradio/calendar-engine/internal/logger"
	"github.com/nowwaveradio/calendar-engine/internal/pattern"
	"github.com/nowwaveradio/calendar-engine/internal/template"
)

// Config represents the main configuration structure
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Locales LocaleConfig  `toml:"locales"`
	Logging logger.Config `toml:"logging"`
	Batch   BatchConfig   `toml:"batch"`
}

// EngineConfig controls how dates are converted and rendered
type EngineConfig struct {
	DefaultFrom     string `toml:"default_from" validate:"required"`
	DefaultTo       string `toml:"default_to" validate:"required"`
	DefaultPattern  string `toml:"default_pattern" validate:"required"`
	NativeDigits    bool   `toml:"native_digits"`
	HijriAdjustment int    `toml:"hijri_adjustment" validate:"min=-2,max=2"`
}

// LocaleConfig names the culture each calendar renders with. Names are
// matched by calendar.LookupLocale, so "fa", "fa-IR" and "fa-AF" all work.
type LocaleConfig struct {
	Gregorian string `toml:"gregorian"`
	Persian   string `toml:"persian"`
	Hijri     string `toml:"hijri"`
}

// BatchConfig controls file conversion. Without a template each converted
// line is written as input, separator, output.
type BatchConfig struct {
	SkipInvalid bool                `toml:"skip_invalid"`
	Separator   string              `toml:"separator" validate:"required"`
	Template    template.Definition `toml:"template"`
}

// AIDEV-NOTE: Error types help with specific error handling and better user feedback
var (
	ErrFileNotFound  = errors.New("configuration file not found")
	ErrInvalidFormat = errors.New("invalid configuration file format")
	ErrInvalidEnv    = errors.New("invalid environment override")
)

// envPrefix is prepended to every environment override
const envPrefix = "CALENDARENGINE_"

var validate = newValidator()

// newValidator reports fields by their TOML names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadConfig reads and parses a TOML configuration file, fills unset values
// from DefaultConfig and applies environment overrides. It does not validate.
func LoadConfig(filepath string) (*Config, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filepath)
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var loadedConfig Config
	if err := toml.Unmarshal(data, &loadedConfig); err != nil {
		return nil, fmt.Errorf("%w: %s - %v", ErrInvalidFormat, filepath, err)
	}

	// AIDEV-NOTE: Booleans can only be switched on by the file, never off
	config := mergeWithDefaults(&loadedConfig, DefaultConfig())

	if err := config.ApplyEnvironmentOverrides(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config struct with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultFrom:     "gregorian",
			DefaultTo:       "persian",
			DefaultPattern:  constants.DefaultPattern,
			NativeDigits:    false,
			HijriAdjustment: 0,
		},
		Locales: LocaleConfig{
			Gregorian: "invariant",
			Persian:   "fa-IR",
			Hijri:     "ar-SA",
		},
		Logging: logger.Config{
			Enabled:         false,
			Directory:       "logs",
			FilenamePattern: constants.DefaultLogFilenamePattern,
			Level:           constants.DefaultLogLevel,
			ConsoleOutput:   true,
		},
		Batch: BatchConfig{
			SkipInvalid: false,
			Separator:   "\t",
		},
	}
}

// mergeWithDefaults takes a loaded config and merges it with default values
// AIDEV-NOTE: Only non-zero values from loaded config override defaults
func mergeWithDefaults(loaded, defaults *Config) *Config {
	result := *defaults

	if loaded.Engine.DefaultFrom != "" {
		result.Engine.DefaultFrom = loaded.Engine.DefaultFrom
	}
	if loaded.Engine.DefaultTo != "" {
		result.Engine.DefaultTo = loaded.Engine.DefaultTo
	}
	if loaded.Engine.DefaultPattern != "" {
		result.Engine.DefaultPattern = loaded.Engine.DefaultPattern
	}
	if loaded.Engine.NativeDigits {
		result.Engine.NativeDigits = true
	}
	if loaded.Engine.HijriAdjustment != 0 {
		result.Engine.HijriAdjustment = loaded.Engine.HijriAdjustment
	}

	if loaded.Locales.Gregorian != "" {
		result.Locales.Gregorian = loaded.Locales.Gregorian
	}
	if loaded.Locales.Persian != "" {
		result.Locales.Persian = loaded.Locales.Persian
	}
	if loaded.Locales.Hijri != "" {
		result.Locales.Hijri = loaded.Locales.Hijri
	}

	if loaded.Logging.Enabled {
		result.Logging.Enabled = true
	}
	if loaded.Logging.Directory != "" {
		result.Logging.Directory = loaded.Logging.Directory
	}
	if loaded.Logging.FilenamePattern != "" {
		result.Logging.FilenamePattern = loaded.Logging.FilenamePattern
	}
	if loaded.Logging.Level != "" {
		result.Logging.Level = loaded.Logging.Level
	}
	if loaded.Logging.ConsoleOutput {
		result.Logging.ConsoleOutput = true
	}

	if loaded.Batch.SkipInvalid {
		result.Batch.SkipInvalid = true
	}
	if loaded.Batch.Separator != "" {
		result.Batch.Separator = loaded.Batch.Separator
	}
	if !loaded.Batch.Template.IsZero() {
		result.Batch.Template = loaded.Batch.Template
	}

	return &result
}

// ApplyEnvironmentOverrides checks CALENDARENGINE_* variables and overrides
// config values. Malformed numbers and booleans are reported, not ignored.
func (c *Config) ApplyEnvironmentOverrides() error {
	stringVars := map[string]*string{
		"ENGINE_DEFAULT_FROM":      &c.Engine.DefaultFrom,
		"ENGINE_DEFAULT_TO":        &c.Engine.DefaultTo,
		"ENGINE_DEFAULT_PATTERN":   &c.Engine.DefaultPattern,
		"LOCALES_GREGORIAN":        &c.Locales.Gregorian,
		"LOCALES_PERSIAN":          &c.Locales.Persian,
		"LOCALES_HIJRI":            &c.Locales.Hijri,
		"LOGGING_DIRECTORY":        &c.Logging.Directory,
		"LOGGING_FILENAME_PATTERN": &c.Logging.FilenamePattern,
		"LOGGING_LEVEL":            &c.Logging.Level,
		"BATCH_SEPARATOR":          &c.Batch.Separator,
	}
	for name, field := range stringVars {
		if envVal := os.Getenv(envPrefix + name); envVal != "" {
			*field = envVal
		}
	}

	boolVars := map[string]*bool{
		"ENGINE_NATIVE_DIGITS":   &c.Engine.NativeDigits,
		"LOGGING_ENABLED":        &c.Logging.Enabled,
		"LOGGING_CONSOLE_OUTPUT": &c.Logging.ConsoleOutput,
		"BATCH_SKIP_INVALID":     &c.Batch.SkipInvalid,
	}
	for name, field := range boolVars {
		envVal := os.Getenv(envPrefix + name)
		if envVal == "" {
			continue
		}
		b, err := strconv.ParseBool(envVal)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a boolean", ErrInvalidEnv, envPrefix, name, envVal)
		}
		*field = b
	}

	if envVal := os.Getenv(envPrefix + "ENGINE_HIJRI_ADJUSTMENT"); envVal != "" {
		n, err := strconv.Atoi(envVal)
		if err != nil {
			return fmt.Errorf("%w: %sENGINE_HIJRI_ADJUSTMENT=%q is not an integer", ErrInvalidEnv, envPrefix, envVal)
		}
		c.Engine.HijriAdjustment = n
	}

	return nil
}

// Validate checks struct constraints and the calendar-specific settings:
// calendar names, the default pattern and the locale names must all resolve.
func (c *Config) Validate() error {
	vb := errorutil.NewValidationBuilder("calendar-engine configuration")
	vb.Struct(validate, c)

	if c.Engine.DefaultFrom != "" {
		_, err := calendar.ParseKind(c.Engine.DefaultFrom)
		vb.Check("engine.default_from", c.Engine.DefaultFrom, err)
	}
	if c.Engine.DefaultTo != "" {
		_, err := calendar.ParseKind(c.Engine.DefaultTo)
		vb.Check("engine.default_to", c.Engine.DefaultTo, err)
	}
	if c.Engine.DefaultPattern != "" {
		_, err := pattern.Lex(c.Engine.DefaultPattern)
		vb.Check("engine.default_pattern", c.Engine.DefaultPattern, err)
	}

	locales := []struct {
		field, name string
	}{
		{"locales.gregorian", c.Locales.Gregorian},
		{"locales.persian", c.Locales.Persian},
		{"locales.hijri", c.Locales.Hijri},
	}
	for _, l := range locales {
		_, err := calendar.LookupLocale(l.name)
		vb.Check(l.field, l.name, err)
	}

	vb.ValidIf(c.Logging.Enabled, func(vb *errorutil.ValidationBuilder) *errorutil.ValidationBuilder {
		return vb.Check("logging.filename_pattern", c.Logging.FilenamePattern,
			logger.ValidateFilenamePattern(c.Logging.FilenamePattern))
	})

	if !c.Batch.Template.IsZero() {
		_, err := c.OutputTemplate()
		vb.Check("batch.template", c.Batch.Template.Line, err)
	}

	return vb.Build()
}

// DefaultKinds resolves the configured default source and target calendars
func (c *Config) DefaultKinds() (from, to calendar.Kind, err error) {
	if from, err = calendar.ParseKind(c.Engine.DefaultFrom); err != nil {
		return 0, 0, err
	}
	if to, err = calendar.ParseKind(c.Engine.DefaultTo); err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

// BuildEngine creates the conversion engine described by the configuration.
// A non-zero Hijri adjustment replaces the stock Hijri converter.
func (c *Config) BuildEngine(log *slog.Logger) (*calendar.Engine, error) {
	reg := calendar.DefaultRegistry()
	if c.Engine.HijriAdjustment != 0 {
		hijri, err := calendar.NewHijri(c.Engine.HijriAdjustment)
		if err != nil {
			return nil, err
		}
		if reg, err = reg.With(hijri); err != nil {
			return nil, err
		}
	}
	return calendar.New(reg, calendar.WithLogger(log)), nil
}

// LocaleFor returns the configured culture of calendar k, switched to native
// digits when engine.native_digits is set. Calendars without a configured
// culture get the zero Locale, i.e. their converter's default.
func (c *Config) LocaleFor(k calendar.Kind) (calendar.Locale, error) {
	var name string
	switch k {
	case calendar.Gregorian:
		name = c.Locales.Gregorian
	case calendar.Persian:
		name = c.Locales.Persian
	case calendar.Hijri:
		name = c.Locales.Hijri
	default:
		return calendar.Locale{}, nil
	}

	loc, err := calendar.LookupLocale(name)
	if err != nil {
		return calendar.Locale{}, err
	}
	if c.Engine.NativeDigits {
		loc = loc.WithNativeDigits()
	}
	return loc, nil
}

// OutputTemplate compiles the batch output template, falling back to the
// separator layout when none is configured.
func (c *Config) OutputTemplate() (*template.OutputTemplate, error) {
	if c.Batch.Template.IsZero() {
		return template.Separated(c.Batch.Separator), nil
	}
	out, err := template.Parse("batch", c.Batch.Template, c.Batch.Separator)
	if err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveConfig writes a Config struct to a TOML file
// AIDEV-NOTE: The CLI's -init-config writes DefaultConfig through this
func SaveConfig(config *Config, filepath string) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filepath, err)
	}

	return nil
}
