// Package errorutil holds the error plumbing shared by the CLI, the config
// loader and the batch processor: log-and-wrap helpers, structured context
// attributes, file checks and an accumulating validation builder.
package errorutil

import (
	"fmt"
	"log/slog"
	"time"
)

// LogAndWrap logs an error with structured context and returns it wrapped
// with the operation name
func LogAndWrap(logger *slog.Logger, operation string, err error, attrs ...slog.Attr) error {
	if logger == nil || err == nil {
		return err
	}

	logger.Error(operation+" failed", withError(err, attrs)...)
	return fmt.Errorf("%s: %w", operation, err)
}

// LogWarning logs a non-fatal error as warning without wrapping
// Used for recoverable errors, such as a skipped batch line
func LogWarning(logger *slog.Logger, operation string, err error, attrs ...slog.Attr) {
	if logger == nil || err == nil {
		return
	}

	logger.Warn("Non-fatal error in "+operation, withError(err, attrs)...)
}

// ExecuteWithLogging wraps a function call with operation logging
// Logs start and completion at debug level with timing; failures at error
func ExecuteWithLogging(logger *slog.Logger, operation string, fn func() error, attrs ...slog.Attr) error {
	if logger == nil {
		return fn()
	}

	start := time.Now()
	logger.Debug("Starting "+operation, toAny(attrs)...)

	err := fn()

	completion := append(append([]slog.Attr{}, attrs...), slog.Duration("duration", time.Since(start)))
	if err != nil {
		logger.Error("Failed "+operation, withError(err, completion)...)
		return fmt.Errorf("%s: %w", operation, err)
	}

	logger.Debug("Completed "+operation, toAny(completion)...)
	return nil
}

func withError(err error, attrs []slog.Attr) []any {
	all := make([]slog.Attr, 0, len(attrs)+1)
	all = append(all, slog.String("error", err.Error()))
	all = append(all, attrs...)
	return toAny(all)
}

func toAny(attrs []slog.Attr) []any {
	out := make([]any, len(attrs))
	for i, attr := range attrs {
		out[i] = attr
	}
	return out
}

// Common context helpers for frequently used attributes

// ConversionContext names the two ends of a conversion chain
func ConversionContext(source, target string) []slog.Attr {
	attrs := make([]slog.Attr, 0, 2)
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	if target != "" {
		attrs = append(attrs, slog.String("target", target))
	}
	return attrs
}

func PatternContext(pattern string) []slog.Attr {
	if pattern == "" {
		return nil
	}
	return []slog.Attr{slog.String("pattern", pattern)}
}

func ConfigContext(configFile string) []slog.Attr {
	if configFile == "" {
		return nil
	}
	return []slog.Attr{slog.String("config_file", configFile)}
}

func FileContext(filePath string) []slog.Attr {
	if filePath == "" {
		return nil
	}
	return []slog.Attr{slog.String("file_path", filePath)}
}

// LineContext locates an input line of a batch file
func LineContext(line int, text string) []slog.Attr {
	return []slog.Attr{slog.Int("line", line), slog.String("input", text)}
}

// Attrs concatenates context groups for a single log call
func Attrs(groups ...[]slog.Attr) []slog.Attr {
	var out []slog.Attr
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
