// Package logger provides the slog-based logger of the calendar-engine CLI.
// Records go to stderr, to a dated log file, or both, so command output on
// stdout stays machine-readable.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/nowwaveradio/calendar-engine/internal/constants"
)

// Config represents logging configuration
type Config struct {
	Enabled         bool   `toml:"enabled"`
	Directory       string `toml:"directory"`
	FilenamePattern string `toml:"filename_pattern"`
	Level           string `toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	ConsoleOutput   bool   `toml:"console_output"`
}

// Logger wraps slog.Logger with the log file it owns
type Logger struct {
	*slog.Logger
	config   Config
	file     *os.File
	fileName string
	mu       sync.Mutex
}

var (
	// Global logger instance
	globalLogger *Logger
	globalMu     sync.Mutex
)

// Initialize creates the global logger instance. Later calls replace it and
// close the previous log file.
func Initialize(config Config) error {
	l, err := NewLogger(config, os.Stderr)
	if err != nil {
		return err
	}

	globalMu.Lock()
	previous := globalLogger
	globalLogger = l
	globalMu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return nil
}

// Get returns the global logger instance
func Get() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		// Fallback to a warn-level console logger if not initialized
		consoleLogger := slog.New(newHandler(os.Stderr, slog.LevelWarn))
		globalLogger = &Logger{Logger: consoleLogger}
	}
	return globalLogger
}

// NewLogger creates a logger writing to console (when enabled) and to the
// configured log file.
func NewLogger(config Config, console io.Writer) (*Logger, error) {
	logger := &Logger{
		config: config,
	}

	level := parseLogLevel(config.Level)

	writers := []io.Writer{}
	if config.ConsoleOutput && console != nil {
		writers = append(writers, console)
	}

	if config.Enabled {
		if err := ValidateFilenamePattern(config.FilenamePattern); err != nil {
			return nil, err
		}

		logDir := expandLogDirectory(config.Directory)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		logFile, err := logger.openLogFile(time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.file = logFile
		writers = append(writers, logFile)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}
	logger.Logger = slog.New(newHandler(out, level))

	logger.Debug("Logger initialized",
		slog.String("log_file", logger.fileName),
		slog.String("level", config.Level),
		slog.Bool("console", config.ConsoleOutput))

	return logger, nil
}

// newHandler builds the text handler shared by every logger
func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Custom time format
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format("2006-01-02T15:04:05.000-07:00"))
			}
			return a
		},
	})
}

// FileName returns the path of the log file, or "" when file logging is off
func (l *Logger) FileName() string {
	return l.fileName
}

// openLogFile creates or opens the log file for the given day
func (l *Logger) openLogFile(now time.Time) (*os.File, error) {
	logDir := expandLogDirectory(l.config.Directory)
	filePath := filepath.Join(logDir, generateLogFilename(l.config.FilenamePattern, now))

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	l.fileName = filePath
	return file, nil
}

// expandLogDirectory expands the log directory path with platform-specific defaults
func expandLogDirectory(dir string) string {
	if dir == "" {
		dir = "logs"
	}

	if filepath.IsAbs(dir) {
		return dir
	}

	if dir == "logs" || strings.HasPrefix(dir, "./") {
		return dir
	}

	// "~" style names resolve under the user's profile
	if strings.HasPrefix(dir, "~") {
		var base string
		switch runtime.GOOS {
		case "windows":
			base = os.Getenv("APPDATA")
		default:
			base = os.Getenv("HOME")
		}
		if base != "" {
			return filepath.Join(base, strings.TrimLeft(dir[1:], `/\`))
		}
	}

	return dir
}

// generateLogFilename expands %Y %m %d %H %M in pattern
func generateLogFilename(pattern string, now time.Time) string {
	if pattern == "" {
		pattern = constants.DefaultLogFilenamePattern
	}

	replacer := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", now.Year()),
		"%m", fmt.Sprintf("%02d", int(now.Month())),
		"%d", fmt.Sprintf("%02d", now.Day()),
		"%H", fmt.Sprintf("%02d", now.Hour()),
		"%M", fmt.Sprintf("%02d", now.Minute()),
	)
	return replacer.Replace(pattern)
}

// parseLogLevel converts string level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// LogExecutionSummary logs a formatted execution summary for audit purposes
func (l *Logger) LogExecutionSummary(startTime time.Time, configFile string, mode string, results []string, exitCode int) {
	duration := time.Since(startTime)

	l.Info("=== EXECUTION SUMMARY ===")
	l.Info("Execution details",
		slog.Time("start_time", startTime),
		slog.String("config_file", configFile),
		slog.String("mode", mode),
		slog.Duration("total_duration", duration),
		slog.Int("exit_code", exitCode))

	for _, result := range results {
		l.Info(result)
	}
}
