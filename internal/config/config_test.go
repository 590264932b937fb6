package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nowwaveradio/calendar-engine/calendar"
	"github.com/nowwaveradio/calendar-engine/internal/errorutil"
	"github.com/nowwaveradio/calendar-engine/internal/template"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar-engine.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[engine]
default_from = "jalali"
default_to = "gregorian"
default_pattern = "dddd, d MMMM yyyy"
native_digits = true
hijri_adjustment = -1

[locales]
persian = "fa-AF"

[logging]
enabled = true
level = "debug"

[batch]
skip_invalid = true
separator = ","
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Engine.DefaultFrom != "jalali" || cfg.Engine.DefaultTo != "gregorian" {
		t.Errorf("default calendars = %q -> %q", cfg.Engine.DefaultFrom, cfg.Engine.DefaultTo)
	}
	if cfg.Engine.DefaultPattern != "dddd, d MMMM yyyy" {
		t.Errorf("DefaultPattern = %q", cfg.Engine.DefaultPattern)
	}
	if !cfg.Engine.NativeDigits {
		t.Error("NativeDigits should be true")
	}
	if cfg.Engine.HijriAdjustment != -1 {
		t.Errorf("HijriAdjustment = %d, want -1", cfg.Engine.HijriAdjustment)
	}
	if cfg.Locales.Persian != "fa-AF" {
		t.Errorf("Locales.Persian = %q, want fa-AF", cfg.Locales.Persian)
	}
	// Unset values come from the defaults
	if cfg.Locales.Hijri != "ar-SA" {
		t.Errorf("Locales.Hijri = %q, want default ar-SA", cfg.Locales.Hijri)
	}
	if cfg.Logging.Directory != "logs" {
		t.Errorf("Logging.Directory = %q, want default logs", cfg.Logging.Directory)
	}
	if !cfg.Batch.SkipInvalid || cfg.Batch.Separator != "," {
		t.Errorf("Batch = %+v", cfg.Batch)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("error = %v, want ErrFileNotFound", err)
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeConfig(t, "[engine\ndefault_pattern = ")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("wrong value type", func(t *testing.T) {
		path := writeConfig(t, "[engine]\nhijri_adjustment = \"one\"\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}

	from, to, err := cfg.DefaultKinds()
	if err != nil {
		t.Fatalf("DefaultKinds failed: %v", err)
	}
	if from != calendar.Gregorian || to != calendar.Persian {
		t.Errorf("DefaultKinds() = %v, %v, want Gregorian, Persian", from, to)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{
			name:   "empty pattern",
			modify: func(c *Config) { c.Engine.DefaultPattern = "" },
			fields: []string{"engine.default_pattern"},
		},
		{
			name:   "unknown pattern token",
			modify: func(c *Config) { c.Engine.DefaultPattern = "yyyy/QQ" },
			fields: []string{"engine.default_pattern"},
		},
		{
			name:   "adjustment too large",
			modify: func(c *Config) { c.Engine.HijriAdjustment = 3 },
			fields: []string{"engine.hijri_adjustment"},
		},
		{
			name:   "adjustment too small",
			modify: func(c *Config) { c.Engine.HijriAdjustment = -5 },
			fields: []string{"engine.hijri_adjustment"},
		},
		{
			name:   "unknown calendars",
			modify: func(c *Config) { c.Engine.DefaultFrom = "mayan"; c.Engine.DefaultTo = "julian" },
			fields: []string{"engine.default_from", "engine.default_to"},
		},
		{
			name:   "unsupported locale",
			modify: func(c *Config) { c.Locales.Hijri = "ja-JP" },
			fields: []string{"locales.hijri"},
		},
		{
			name:   "bad log level",
			modify: func(c *Config) { c.Logging.Level = "verbose" },
			fields: []string{"logging.level"},
		},
		{
			name: "bad log filename when enabled",
			modify: func(c *Config) {
				c.Logging.Enabled = true
				c.Logging.FilenamePattern = "logs/engine.log"
			},
			fields: []string{"logging.filename_pattern"},
		},
		{
			name:   "empty separator",
			modify: func(c *Config) { c.Batch.Separator = "" },
			fields: []string{"batch.separator"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			var verr *errorutil.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			for _, field := range tt.fields {
				if !verr.HasField(field) {
					t.Errorf("missing failure for %s in %v", field, verr)
				}
			}
			if len(verr.Errors) != len(tt.fields) {
				t.Errorf("got %d failures, want %d: %v", len(verr.Errors), len(tt.fields), verr)
			}
		})
	}
}

func TestBadLogFilenameIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.FilenamePattern = "logs/engine.log"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil while logging is disabled", err)
	}
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv("CALENDARENGINE_ENGINE_DEFAULT_TO", "hijri")
	t.Setenv("CALENDARENGINE_ENGINE_DEFAULT_PATTERN", "yyyy-MM-dd")
	t.Setenv("CALENDARENGINE_ENGINE_NATIVE_DIGITS", "true")
	t.Setenv("CALENDARENGINE_ENGINE_HIJRI_ADJUSTMENT", "2")
	t.Setenv("CALENDARENGINE_LOGGING_LEVEL", "error")
	t.Setenv("CALENDARENGINE_BATCH_SKIP_INVALID", "1")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnvironmentOverrides(); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
	}

	if cfg.Engine.DefaultTo != "hijri" {
		t.Errorf("DefaultTo = %q, want hijri", cfg.Engine.DefaultTo)
	}
	if cfg.Engine.DefaultPattern != "yyyy-MM-dd" {
		t.Errorf("DefaultPattern = %q", cfg.Engine.DefaultPattern)
	}
	if !cfg.Engine.NativeDigits {
		t.Error("NativeDigits not overridden")
	}
	if cfg.Engine.HijriAdjustment != 2 {
		t.Errorf("HijriAdjustment = %d, want 2", cfg.Engine.HijriAdjustment)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", cfg.Logging.Level)
	}
	if !cfg.Batch.SkipInvalid {
		t.Error("SkipInvalid not overridden")
	}
	// Untouched values keep their defaults
	if cfg.Engine.DefaultFrom != "gregorian" {
		t.Errorf("DefaultFrom = %q, want gregorian", cfg.Engine.DefaultFrom)
	}
}

func TestApplyEnvironmentOverridesRejectsMalformed(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bool", "CALENDARENGINE_ENGINE_NATIVE_DIGITS", "sometimes"},
		{"int", "CALENDARENGINE_ENGINE_HIJRI_ADJUSTMENT", "plus one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			err := DefaultConfig().ApplyEnvironmentOverrides()
			if !errors.Is(err, ErrInvalidEnv) {
				t.Errorf("error = %v, want ErrInvalidEnv", err)
			}
		})
	}
}

func TestLoadConfigAppliesEnvironment(t *testing.T) {
	t.Setenv("CALENDARENGINE_LOCALES_PERSIAN", "invariant")
	path := writeConfig(t, "[locales]\npersian = \"fa-IR\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Locales.Persian != "invariant" {
		t.Errorf("Locales.Persian = %q, environment should win over the file", cfg.Locales.Persian)
	}
}

func TestBuildEngine(t *testing.T) {
	instant := time.Date(2023, 7, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		adjustment int
		want       string
	}{
		{0, "1445/01/01"},
		{1, "1445/01/02"},
		{-1, "1444/12/29"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("adjustment %+d", tt.adjustment), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Engine.HijriAdjustment = tt.adjustment

			engine, err := cfg.BuildEngine(nil)
			if err != nil {
				t.Fatalf("BuildEngine failed: %v", err)
			}
			got, err := engine.From(calendar.Gregorian).To(calendar.Hijri).Format(instant, "yyyy/MM/dd")
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Hijri date = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("invalid adjustment", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Engine.HijriAdjustment = 7
		if _, err := cfg.BuildEngine(nil); !errors.Is(err, calendar.ErrInvalidAdjustment) {
			t.Errorf("error = %v, want ErrInvalidAdjustment", err)
		}
	})
}

func TestLocaleFor(t *testing.T) {
	cfg := DefaultConfig()

	loc, err := cfg.LocaleFor(calendar.Persian)
	if err != nil {
		t.Fatalf("LocaleFor(Persian) failed: %v", err)
	}
	if loc.Tag().String() != "fa-IR" {
		t.Errorf("Persian locale = %s, want fa-IR", loc)
	}
	if loc.Digits() != calendar.LatinDigits {
		t.Errorf("digits = %v, want latin without native_digits", loc.Digits())
	}

	cfg.Engine.NativeDigits = true
	loc, err = cfg.LocaleFor(calendar.Hijri)
	if err != nil {
		t.Fatalf("LocaleFor(Hijri) failed: %v", err)
	}
	if loc.Digits() != calendar.ArabicIndicDigits {
		t.Errorf("digits = %v, want arabic-indic with native_digits", loc.Digits())
	}

	cfg.Locales.Gregorian = "tlh"
	if _, err := cfg.LocaleFor(calendar.Gregorian); !errors.Is(err, calendar.ErrUnsupportedLocale) {
		t.Errorf("error = %v, want ErrUnsupportedLocale", err)
	}

	loc, err = cfg.LocaleFor(calendar.Kind(42))
	if err != nil || !loc.IsZero() {
		t.Errorf("LocaleFor(custom) = %v, %v, want zero locale", loc, err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.toml")

	cfg := DefaultConfig()
	cfg.Engine.DefaultPattern = "d MMMM yyyy"
	cfg.Engine.HijriAdjustment = 1
	cfg.Locales.Gregorian = "en"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Engine != cfg.Engine {
		t.Errorf("engine section = %+v, want %+v", loaded.Engine, cfg.Engine)
	}
	if loaded.Locales != cfg.Locales {
		t.Errorf("locales section = %+v, want %+v", loaded.Locales, cfg.Locales)
	}
	if loaded.Batch.Separator != "\t" {
		t.Errorf("separator = %q, want tab", loaded.Batch.Separator)
	}
}

func TestSaveConfigNil(t *testing.T) {
	if err := SaveConfig(nil, filepath.Join(t.TempDir(), "x.toml")); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestOutputTemplate(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.OutputTemplate()
	if err != nil {
		t.Fatalf("OutputTemplate failed: %v", err)
	}
	if out.Name() != "separated" {
		t.Errorf("default template = %q, want separated", out.Name())
	}

	path := writeConfig(t, `
[batch]
separator = ";"

[batch.template]
header = "input;output"
line = "{{.Input}}{{sep}}{{.Output}}"
`)
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if out, err = cfg.OutputTemplate(); err != nil || out.Name() != "batch" {
		t.Errorf("OutputTemplate() = %v, %v, want the configured batch template", out, err)
	}
}

func TestValidateRejectsBrokenTemplate(t *testing.T) {
	tests := []struct {
		name string
		def  template.Definition
	}{
		{"missing line", template.Definition{Header: "dates"}},
		{"syntax error", template.Definition{Line: "{{.Input"}},
		{"unknown field", template.Definition{Line: "{{.Artist}}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Batch.Template = tt.def

			err := cfg.Validate()
			var verr *errorutil.ValidationError
			if !errors.As(err, &verr) || !verr.HasField("batch.template") {
				t.Errorf("Validate() = %v, want batch.template failure", err)
			}
		})
	}
}
