// Package processor runs conversions for the CLI. It turns civil dates typed
// in a source calendar into instants, converts or formats them in the target
// calendar, and processes whole files of dates line by line.
package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nowwaveradio/calendar-engine/calendar"
	"github.com/nowwaveradio/calendar-engine/internal/dateutil"
	"github.com/nowwaveradio/calendar-engine/internal/errorutil"
	"github.com/nowwaveradio/calendar-engine/internal/template"
)

// Options describe one conversion chain
type Options struct {
	Source  calendar.Kind
	Target  calendar.Kind
	Pattern string
	Locale  calendar.Locale

	// Reinterpret takes the source calendar's numbers as a target date
	// (Formatter.Convert) instead of rendering the same day.
	Reinterpret bool

	// Batch settings. Template defaults to template.Separated(Separator).
	SkipInvalid bool
	Separator   string
	Template    *template.OutputTemplate
}

// DateProcessor converts dates with a fixed set of options
type DateProcessor struct {
	formatter calendar.Formatter
	source    calendar.Converter
	opts      Options
	logger    *slog.Logger
}

// LineResult contains the outcome of a single batch line
type LineResult struct {
	Line   int
	Input  string
	Output string
	Error  error
}

// BatchResult contains the results of processing a file of dates
type BatchResult struct {
	TotalLines    int
	Converted     int
	Failed        int
	Skipped       int
	Results       []LineResult
	TotalDuration time.Duration
}

// ErrBatchFailed is returned when a batch stops at, or finished with, invalid lines
var ErrBatchFailed = errors.New("batch conversion failed")

// NewDateProcessor resolves the source calendar and prepares the formatter
func NewDateProcessor(engine *calendar.Engine, opts Options, logger *slog.Logger) (*DateProcessor, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	source, err := engine.Registry().Resolve(opts.Source)
	if err != nil {
		return nil, errorutil.LogAndWrap(logger, "resolving source calendar", err,
			errorutil.ConversionContext(opts.Source.String(), opts.Target.String())...)
	}
	if _, err := engine.Registry().Resolve(opts.Target); err != nil {
		return nil, errorutil.LogAndWrap(logger, "resolving target calendar", err,
			errorutil.ConversionContext(opts.Source.String(), opts.Target.String())...)
	}
	if opts.Separator == "" {
		opts.Separator = "\t"
	}
	if opts.Template == nil {
		opts.Template = template.Separated(opts.Separator)
	}

	return &DateProcessor{
		formatter: engine.From(opts.Source).To(opts.Target).WithLocale(opts.Locale),
		source:    source,
		opts:      opts,
		logger:    logger,
	}, nil
}

// ConvertInstant renders t according to the processor's options
func (dp *DateProcessor) ConvertInstant(t time.Time) (string, error) {
	if dp.opts.Reinterpret {
		return dp.formatter.FormatConverted(t, dp.opts.Pattern)
	}
	return dp.formatter.Format(t, dp.opts.Pattern)
}

// ConvertDate parses input as a date of the source calendar and renders it.
// Persian and Arabic-Indic digits are accepted.
func (dp *DateProcessor) ConvertDate(input string) (string, error) {
	civil, err := dateutil.ParseCivilDate(input)
	if err != nil {
		return "", err
	}
	t, err := dp.source.ToInstant(civil)
	if err != nil {
		return "", err
	}
	return dp.ConvertInstant(t)
}

// ProcessReader converts every date line of r and writes the output
// template for each of them to w. Blank lines and lines starting with '#'
// are skipped. Without SkipInvalid the first bad line stops the batch and
// the footer is not written.
func (dp *DateProcessor) ProcessReader(r io.Reader, w io.Writer) (*BatchResult, error) {
	startTime := time.Now()
	result := &BatchResult{}
	batch := template.BatchData{
		Source:  dp.opts.Source.String(),
		Target:  dp.opts.Target.String(),
		Pattern: dp.opts.Pattern,
	}

	dp.logger.LogAttrs(context.Background(), slog.LevelInfo, "Starting batch conversion",
		errorutil.Attrs(
			errorutil.ConversionContext(batch.Source, batch.Target),
			errorutil.PatternContext(dp.opts.Pattern),
		)...)

	if err := dp.opts.Template.Header(w, batch); err != nil {
		return result, fmt.Errorf("writing header: %w", err)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		result.TotalLines++

		if text == "" || strings.HasPrefix(text, "#") {
			result.Skipped++
			continue
		}

		out, err := dp.ConvertDate(text)
		result.Results = append(result.Results, LineResult{Line: lineNo, Input: text, Output: out, Error: err})

		if err != nil {
			result.Failed++
			if !dp.opts.SkipInvalid {
				result.TotalDuration = time.Since(startTime)
				return result, errorutil.LogAndWrap(dp.logger, "batch conversion",
					fmt.Errorf("%w: line %d: %w", ErrBatchFailed, lineNo, err),
					errorutil.LineContext(lineNo, text)...)
			}
			errorutil.LogWarning(dp.logger, "batch conversion", err, errorutil.LineContext(lineNo, text)...)
			continue
		}

		result.Converted++
		err = dp.opts.Template.Line(w, template.LineData{
			Index:  result.Converted,
			Line:   lineNo,
			Input:  text,
			Output: out,
			Source: batch.Source,
			Target: batch.Target,
		})
		if err != nil {
			result.TotalDuration = time.Since(startTime)
			return result, fmt.Errorf("writing line %d: %w", lineNo, err)
		}
	}
	result.TotalDuration = time.Since(startTime)

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("reading input: %w", err)
	}

	batch.Total = result.TotalLines
	batch.Converted = result.Converted
	batch.Failed = result.Failed
	batch.Skipped = result.Skipped
	if err := dp.opts.Template.Footer(w, batch); err != nil {
		return result, fmt.Errorf("writing footer: %w", err)
	}

	dp.logger.Info("Batch conversion completed",
		slog.Int("total_lines", result.TotalLines),
		slog.Int("converted", result.Converted),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
		slog.Duration("total_duration", result.TotalDuration))

	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d dates invalid", ErrBatchFailed, result.Failed, result.Converted+result.Failed)
	}
	return result, nil
}

// ProcessFile opens path and runs ProcessReader over it
func (dp *DateProcessor) ProcessFile(path string, w io.Writer) (*BatchResult, error) {
	file, err := errorutil.OpenForRead(path, "batch input")
	if err != nil {
		return nil, errorutil.LogAndWrap(dp.logger, "opening batch input", err, errorutil.FileContext(path)...)
	}
	defer file.Close()

	return dp.ProcessReader(file, w)
}

// PrintBatchSummary displays the summary of a batch run
func PrintBatchSummary(w io.Writer, result *BatchResult) {
	if result == nil {
		return
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(w, "Batch Conversion Summary\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(w, "Total Lines: %d\n", result.TotalLines)
	fmt.Fprintf(w, "Converted: %d\n", result.Converted)
	fmt.Fprintf(w, "Failed: %d\n", result.Failed)
	fmt.Fprintf(w, "Skipped: %d\n", result.Skipped)
	fmt.Fprintf(w, "Duration: %s\n", result.TotalDuration.Round(time.Millisecond))

	if result.Failed > 0 {
		fmt.Fprintf(w, "\nInvalid Lines:\n")
		for _, res := range result.Results {
			if res.Error != nil {
				fmt.Fprintf(w, "• line %d %q: %v\n", res.Line, res.Input, res.Error)
			}
		}
	}

	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
