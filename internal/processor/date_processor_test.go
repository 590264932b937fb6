package processor

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nowwaveradio/calendar-engine/calendar"
	"github.com/nowwaveradio/calendar-engine/internal/dateutil"
	"github.com/nowwaveradio/calendar-engine/internal/errorutil"
	"github.com/nowwaveradio/calendar-engine/internal/template"
)

func newProcessor(t *testing.T, opts Options) *DateProcessor {
	t.Helper()
	dp, err := NewDateProcessor(calendar.New(nil), opts, nil)
	if err != nil {
		t.Fatalf("NewDateProcessor failed: %v", err)
	}
	return dp
}

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewDateProcessor(t *testing.T) {
	t.Run("nil engine", func(t *testing.T) {
		if _, err := NewDateProcessor(nil, Options{}, nil); err == nil {
			t.Error("expected error for nil engine")
		}
	})

	gregorianOnly, err := calendar.NewRegistry(calendar.NewGregorian())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	engine := calendar.New(gregorianOnly)

	tests := []struct {
		name   string
		source calendar.Kind
		target calendar.Kind
	}{
		{"missing source", calendar.Persian, calendar.Gregorian},
		{"missing target", calendar.Gregorian, calendar.Hijri},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateProcessor(engine, Options{Source: tt.source, Target: tt.target, Pattern: "yyyy"}, nil)
			if !errors.Is(err, calendar.ErrUnsupportedCalendar) {
				t.Errorf("error = %v, want ErrUnsupportedCalendar", err)
			}
		})
	}
}

func TestConvertDate(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		input string
		want  string
	}{
		{
			name:  "gregorian to persian",
			opts:  Options{Source: calendar.Gregorian, Target: calendar.Persian, Pattern: "yyyy/MM/dd"},
			input: "2023-03-21",
			want:  "1402/01/01",
		},
		{
			name:  "persian digits in, gregorian out",
			opts:  Options{Source: calendar.Persian, Target: calendar.Gregorian, Pattern: "yyyy-MM-dd"},
			input: "۱۴۰۲/۰۱/۰۱",
			want:  "2023-03-21",
		},
		{
			name:  "gregorian to hijri",
			opts:  Options{Source: calendar.Gregorian, Target: calendar.Hijri, Pattern: "yyyy/MM/dd"},
			input: "20230719",
			want:  "1445/01/01",
		},
		{
			name:  "reinterpretation keeps the numbers",
			opts:  Options{Source: calendar.Persian, Target: calendar.Gregorian, Pattern: "yyyy/MM/dd", Reinterpret: true},
			input: "1402/01/01",
			want:  "1402/01/01",
		},
		{
			name: "persian month names with native digits",
			opts: Options{
				Source:  calendar.Gregorian,
				Target:  calendar.Persian,
				Pattern: "d MMMM yyyy",
				Locale:  calendar.PersianIran().WithNativeDigits(),
			},
			input: "2023-03-21",
			want:  "۱ فروردین ۱۴۰۲",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dp := newProcessor(t, tt.opts)
			got, err := dp.ConvertDate(tt.input)
			if err != nil {
				t.Fatalf("ConvertDate(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ConvertDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvertDateErrors(t *testing.T) {
	dp := newProcessor(t, Options{Source: calendar.Persian, Target: calendar.Gregorian, Pattern: "yyyy/MM/dd"})

	tests := []struct {
		input string
		want  error
	}{
		{"yesterday", dateutil.ErrInvalidDate},
		{"1402/13/01", calendar.ErrOutOfRange},
		{"1402/07/31", calendar.ErrOutOfRange},
		{"0900/01/01", calendar.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := dp.ConvertDate(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("ConvertDate(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestConvertInstant(t *testing.T) {
	dp := newProcessor(t, Options{Source: calendar.Gregorian, Target: calendar.Persian, Pattern: "yyyy/MM/dd"})

	got, err := dp.ConvertInstant(time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ConvertInstant failed: %v", err)
	}
	if got != "1402/10/04" {
		t.Errorf("ConvertInstant(2023-12-25) = %q, want 1402/10/04", got)
	}
}

const batchInput = `# Holidays to convert
2023-03-21

2023-12-25
  2023/07/19
`

func TestProcessReader(t *testing.T) {
	dp := newProcessor(t, Options{
		Source:    calendar.Gregorian,
		Target:    calendar.Persian,
		Pattern:   "yyyy/MM/dd",
		Separator: " => ",
	})

	var out bytes.Buffer
	result, err := dp.ProcessReader(strings.NewReader(batchInput), &out)
	if err != nil {
		t.Fatalf("ProcessReader failed: %v", err)
	}

	want := "2023-03-21 => 1402/01/01\n2023-12-25 => 1402/10/04\n2023/07/19 => 1402/04/28\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}

	if result.TotalLines != 5 || result.Converted != 3 || result.Skipped != 2 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Results) != 3 || result.Results[2].Line != 5 {
		t.Errorf("line results = %+v", result.Results)
	}
}

func TestProcessReaderDefaultSeparator(t *testing.T) {
	dp := newProcessor(t, Options{Source: calendar.Gregorian, Target: calendar.Gregorian, Pattern: "dd.MM.yyyy"})

	var out bytes.Buffer
	if _, err := dp.ProcessReader(strings.NewReader("2023-03-21\n"), &out); err != nil {
		t.Fatalf("ProcessReader failed: %v", err)
	}
	if out.String() != "2023-03-21\t21.03.2023\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestProcessReaderTemplate(t *testing.T) {
	out, err := template.Parse("csv", template.Definition{
		Header: "{{lower .Source}},{{lower .Target}}",
		Line:   "{{.Input}}{{sep}}{{.Output}}",
		Footer: "# {{.Converted}} converted, {{.Skipped}} skipped",
	}, ",")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	dp := newProcessor(t, Options{
		Source:   calendar.Gregorian,
		Target:   calendar.Hijri,
		Pattern:  "yyyy/MM/dd",
		Template: out,
	})

	var buf bytes.Buffer
	if _, err := dp.ProcessReader(strings.NewReader("# new years\n2022-07-30\n2023-07-19\n"), &buf); err != nil {
		t.Fatalf("ProcessReader failed: %v", err)
	}

	want := "gregorian,hijri\n2022-07-30,1444/01/01\n2023-07-19,1445/01/01\n# 2 converted, 1 skipped\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestProcessReaderInvalidLines(t *testing.T) {
	input := "2023-03-21\nnot a date\n2023-02-30\n2023-12-25\n"

	t.Run("stop at first invalid line", func(t *testing.T) {
		dp := newProcessor(t, Options{Source: calendar.Gregorian, Target: calendar.Persian, Pattern: "yyyy/MM/dd"})

		var out bytes.Buffer
		result, err := dp.ProcessReader(strings.NewReader(input), &out)
		if !errors.Is(err, ErrBatchFailed) || !errors.Is(err, dateutil.ErrInvalidDate) {
			t.Fatalf("error = %v, want ErrBatchFailed wrapping ErrInvalidDate", err)
		}
		if !strings.Contains(err.Error(), "line 2") {
			t.Errorf("error %q does not name the line", err)
		}
		if result.Converted != 1 || result.Failed != 1 {
			t.Errorf("result = %+v", result)
		}
		if strings.Count(out.String(), "\n") != 1 {
			t.Errorf("output after stop = %q", out.String())
		}
	})

	t.Run("skip invalid lines", func(t *testing.T) {
		var logs bytes.Buffer
		log := newTestLogger(&logs)
		dp, err := NewDateProcessor(calendar.New(nil), Options{
			Source:      calendar.Gregorian,
			Target:      calendar.Persian,
			Pattern:     "yyyy/MM/dd",
			SkipInvalid: true,
		}, log)
		if err != nil {
			t.Fatalf("NewDateProcessor failed: %v", err)
		}

		var out bytes.Buffer
		result, err := dp.ProcessReader(strings.NewReader(input), &out)
		if !errors.Is(err, ErrBatchFailed) {
			t.Fatalf("error = %v, want ErrBatchFailed summary", err)
		}
		if result.Converted != 2 || result.Failed != 2 {
			t.Errorf("result = %+v", result)
		}
		if !errors.Is(result.Results[2].Error, calendar.ErrOutOfRange) {
			t.Errorf("line 3 error = %v, want ErrOutOfRange", result.Results[2].Error)
		}
		if strings.Count(logs.String(), "Non-fatal error in batch conversion") != 2 {
			t.Errorf("expected two warnings, got:\n%s", logs.String())
		}
	})
}

func TestProcessFile(t *testing.T) {
	dp := newProcessor(t, Options{Source: calendar.Gregorian, Target: calendar.Hijri, Pattern: "yyyy/MM/dd"})

	path := filepath.Join(t.TempDir(), "dates.txt")
	if err := os.WriteFile(path, []byte("2022-07-30\n2023-09-15\n"), 0644); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	var out bytes.Buffer
	result, err := dp.ProcessFile(path, &out)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if result.Converted != 2 {
		t.Errorf("Converted = %d, want 2", result.Converted)
	}
	if want := "2022-07-30\t1444/01/01\n2023-09-15\t1445/02/29\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	_, err = dp.ProcessFile(filepath.Join(t.TempDir(), "missing.txt"), &out)
	if !errors.Is(err, errorutil.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintBatchSummary(&buf, &BatchResult{
		TotalLines: 4,
		Converted:  2,
		Failed:     1,
		Skipped:    1,
		Results: []LineResult{
			{Line: 1, Input: "2023-03-21", Output: "1402/01/01"},
			{Line: 3, Input: "bad", Error: dateutil.ErrInvalidDate},
		},
		TotalDuration: 1500 * time.Microsecond,
	})

	out := buf.String()
	for _, want := range []string{"Total Lines: 4", "Converted: 2", "Failed: 1", "Skipped: 1", `line 3 "bad"`, "Duration: 2ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintBatchSummary(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("nil result printed %q", buf.String())
	}
}
