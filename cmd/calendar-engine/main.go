package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nowwaveradio/calendar-engine/calendar"
	"github.com/nowwaveradio/calendar-engine/internal/config"
	"github.com/nowwaveradio/calendar-engine/internal/constants"
	"github.com/nowwaveradio/calendar-engine/internal/errorutil"
	"github.com/nowwaveradio/calendar-engine/internal/logger"
	"github.com/nowwaveradio/calendar-engine/internal/processor"
)

var (
	fromCalendar = flag.String("from", "", "Source calendar: gregorian, persian or hijri (default from config)")
	toCalendar   = flag.String("to", "", "Target calendar: gregorian, persian or hijri (default from config)")
	dateInput    = flag.String("date", "", "Date in the source calendar, e.g. 1402/01/01 (default today)")
	formatFlag   = flag.String("format", "", "Format pattern, e.g. \"dddd, d MMMM yyyy\" (default from config)")
	localeFlag   = flag.String("locale", "", "Culture for names and digits, e.g. fa-IR, ar-SA, invariant")
	nativeDigits = flag.Bool("native-digits", false, "Render numbers in the locale's own digits")
	convertMode  = flag.Bool("convert", false, "Reinterpret the source date's numbers in the target calendar")
	inputFile    = flag.String("input", "", "Convert every date line of a file (batch mode)")
	configFile   = flag.String("config", constants.DefaultConfigFile, "Path to the configuration file")
	demo         = flag.Bool("demo", false, "Run the demonstration")
	initConfig   = flag.Bool("init-config", false, "Write a starter configuration to -config and exit")
	showVersion  = flag.Bool("version", false, "Show version information")
	help         = flag.Bool("help", false, "Show help information")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Calendar Engine v%s\n\n", constants.Version)
		fmt.Fprintf(os.Stderr, "Converts and formats dates between the Gregorian, Persian (Solar Hijri) and Hijri calendars.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Modes:\n")
		fmt.Fprintf(os.Stderr, "  single   convert -date (or today) and print the result\n")
		fmt.Fprintf(os.Stderr, "  batch    convert every line of -input\n")
		fmt.Fprintf(os.Stderr, "  demo     walk through conversions and formats (-demo)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -from gregorian -to persian -date 2023-03-21\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -from persian -to gregorian -date ۱۴۰۲/۰۱/۰۱ -format \"d MMMM yyyy\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -to hijri -locale ar-SA -native-digits -format \"dddd d MMMM yyyy\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -from gregorian -to persian -input dates.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -demo\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -init-config -config calendar-engine.toml\n", os.Args[0])
	}
}

// validateArguments checks flag combinations before any configuration is loaded
func validateArguments() error {
	if *demo && (*inputFile != "" || *dateInput != "") {
		return fmt.Errorf("-demo cannot be combined with -input or -date")
	}
	if *inputFile != "" && *dateInput != "" {
		return fmt.Errorf("-input and -date are mutually exclusive")
	}

	for name, value := range map[string]string{"-from": *fromCalendar, "-to": *toCalendar} {
		if value == "" {
			continue
		}
		if _, err := calendar.ParseKind(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if *inputFile != "" {
		if err := errorutil.ValidateFileExists(filepath.Clean(*inputFile), "batch input"); err != nil {
			return err
		}
	}

	return validateConfigFile(*configFile)
}

// validateConfigFile checks that the config path, when present, is a readable file
func validateConfigFile(filePath string) error {
	cleanPath := filepath.Clean(filePath)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing configuration means defaults
			return nil
		}
		return fmt.Errorf("cannot access config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config file path is a directory, not a file: %s", cleanPath)
	}
	return nil
}

// initConfiguration writes the default configuration to configPath. An
// existing file is never overwritten.
func initConfiguration(configPath string) error {
	cleanPath := filepath.Clean(configPath)

	if _, err := os.Stat(cleanPath); err == nil {
		return fmt.Errorf("config file already exists: %s", cleanPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config file: %w", err)
	}

	if err := config.SaveConfig(config.DefaultConfig(), cleanPath); err != nil {
		return fmt.Errorf("failed to create default config file: %w", err)
	}
	return nil
}

// loadConfiguration loads and validates the configuration file. A missing
// file yields the defaults with environment overrides applied.
func loadConfiguration(configPath string) (*config.Config, error) {
	cleanPath := filepath.Clean(configPath)

	cfg, err := config.LoadConfig(cleanPath)
	switch {
	case errors.Is(err, config.ErrFileNotFound):
		cfg = config.DefaultConfig()
		if err := cfg.ApplyEnvironmentOverrides(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load config from %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// buildOptions merges command-line flags over the configuration
func buildOptions(cfg *config.Config) (processor.Options, error) {
	from, to, err := cfg.DefaultKinds()
	if err != nil {
		return processor.Options{}, err
	}
	if *fromCalendar != "" {
		if from, err = calendar.ParseKind(*fromCalendar); err != nil {
			return processor.Options{}, err
		}
	}
	if *toCalendar != "" {
		if to, err = calendar.ParseKind(*toCalendar); err != nil {
			return processor.Options{}, err
		}
	}

	pattern := cfg.Engine.DefaultPattern
	if *formatFlag != "" {
		pattern = *formatFlag
	}

	var loc calendar.Locale
	if *localeFlag != "" {
		if loc, err = calendar.LookupLocale(*localeFlag); err != nil {
			return processor.Options{}, err
		}
		if cfg.Engine.NativeDigits {
			loc = loc.WithNativeDigits()
		}
	} else if loc, err = cfg.LocaleFor(to); err != nil {
		return processor.Options{}, err
	}
	if *nativeDigits {
		if loc.IsZero() {
			loc = calendar.Invariant()
		}
		loc = loc.WithNativeDigits()
	}

	out, err := cfg.OutputTemplate()
	if err != nil {
		return processor.Options{}, err
	}

	return processor.Options{
		Source:      from,
		Target:      to,
		Pattern:     pattern,
		Locale:      loc,
		Reinterpret: *convertMode,
		SkipInvalid: cfg.Batch.SkipInvalid,
		Separator:   cfg.Batch.Separator,
		Template:    out,
	}, nil
}

// today is the current local calendar day as a UTC midnight instant
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// runSingle converts one date, or today when none was given
func runSingle(dp *processor.DateProcessor, opts processor.Options) (string, error) {
	var (
		result string
		err    error
	)
	if *dateInput == "" {
		result, err = dp.ConvertInstant(today())
	} else {
		result, err = dp.ConvertDate(*dateInput)
	}
	if err != nil {
		return "", err
	}

	fmt.Printf("%s → %s: %s\n", opts.Source, opts.Target, result)
	return result, nil
}

func main() {
	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Calendar Engine v%s\n", constants.Version)
		os.Exit(0)
	}

	if *initConfig {
		if err := initConfiguration(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration created at: %s\n", filepath.Clean(*configFile))
		os.Exit(0)
	}

	startTime := time.Now()

	if err := validateArguments(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfiguration(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.Get()
	defer appLogger.Close()
	log := appLogger.Logger
	log.LogAttrs(context.Background(), slog.LevelDebug, "Configuration loaded",
		errorutil.Attrs(
			errorutil.ConfigContext(*configFile),
			errorutil.ConversionContext(cfg.Engine.DefaultFrom, cfg.Engine.DefaultTo),
		)...)

	engine, err := cfg.BuildEngine(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building calendar engine: %v\n", err)
		os.Exit(1)
	}

	mode, results, exitCode := execute(engine, cfg, log)
	appLogger.LogExecutionSummary(startTime, *configFile, mode, results, exitCode)
	if exitCode != 0 {
		appLogger.Close()
		os.Exit(exitCode)
	}
}

// execute runs the selected mode and reports its outcome for the summary
func execute(engine *calendar.Engine, cfg *config.Config, log *slog.Logger) (mode string, results []string, exitCode int) {
	if *demo {
		err := errorutil.ExecuteWithLogging(log, "demo", func() error {
			return runDemo(os.Stdout, engine, today())
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Demo failed: %v\n", err)
			return "demo", []string{err.Error()}, 1
		}
		return "demo", []string{"completed"}, 0
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return "setup", []string{err.Error()}, 1
	}

	dp, err := processor.NewDateProcessor(engine, opts, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return "setup", []string{err.Error()}, 1
	}

	if *inputFile != "" {
		batch, err := dp.ProcessFile(filepath.Clean(*inputFile), os.Stdout)
		processor.PrintBatchSummary(os.Stderr, batch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Batch conversion failed: %v\n", err)
			return "batch", []string{err.Error()}, 1
		}
		return "batch", []string{fmt.Sprintf("%d dates converted", batch.Converted)}, 0
	}

	result, err := runSingle(dp, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		if strings.TrimSpace(*dateInput) == "" {
			return "single", []string{err.Error()}, 1
		}
		return "single", []string{*dateInput + ": " + err.Error()}, 1
	}
	return "single", []string{result}, 0
}
