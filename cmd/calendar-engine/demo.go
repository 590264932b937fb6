package main

import (
	"fmt"
	"io"
	"time"

	"github.com/nowwaveradio/calendar-engine/calendar"
)

// demoPatterns are shown for today's date in each calendar
var demoPatterns = []string{
	"yyyy/MM/dd",
	"yy/MM/dd",
	"yyyy-MM-dd",
	"d MMMM yyyy",
	"dddd, d MMMM yyyy",
}

// demoLocales pairs each calendar with the culture its names are shown in
var demoLocales = []struct {
	kind   calendar.Kind
	locale calendar.Locale
}{
	{calendar.Gregorian, calendar.Invariant()},
	{calendar.Persian, calendar.PersianIran()},
	{calendar.Hijri, calendar.ArabicSaudi()},
}

// runDemo walks through conversions, formats and error cases. Expected
// failures are printed; any other failure aborts the demo.
func runDemo(w io.Writer, engine *calendar.Engine, today time.Time) error {
	fmt.Fprintf(w, "Calendar Engine Demo\n")
	fmt.Fprintf(w, "====================\n\n")

	steps := []struct {
		title string
		run   func(io.Writer, *calendar.Engine, time.Time) error
	}{
		{"Today in every calendar", demoToday},
		{"Format patterns", demoPatternsFor},
		{"Nowruz 1402 round trip", demoNowruz},
		{"Islamic new year 1445", demoIslamicNewYear},
		{"Christmas 2023", demoChristmas},
		{"Error handling", demoErrors},
	}

	for i, step := range steps {
		fmt.Fprintf(w, "%d. %s\n", i+1, step.title)
		fmt.Fprintf(w, "──────────────────────────────────────\n")
		if err := step.run(w, engine, today); err != nil {
			return fmt.Errorf("%s: %w", step.title, err)
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}

func demoToday(w io.Writer, engine *calendar.Engine, today time.Time) error {
	for _, target := range engine.Registry().Kinds() {
		s, err := engine.From(calendar.Gregorian).To(target).Format(today, "yyyy/MM/dd")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-10s %s\n", target, s)
	}
	return nil
}

func demoPatternsFor(w io.Writer, engine *calendar.Engine, today time.Time) error {
	for _, dl := range demoLocales {
		f := engine.From(calendar.Gregorian).To(dl.kind).WithLocale(dl.locale)
		fmt.Fprintf(w, "  %s (%s)\n", dl.kind, dl.locale)
		for _, p := range demoPatterns {
			s, err := f.Format(today, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "    %-20q %s\n", p, s)
		}
	}
	return nil
}

func demoNowruz(w io.Writer, engine *calendar.Engine, _ time.Time) error {
	persian, err := engine.Registry().Resolve(calendar.Persian)
	if err != nil {
		return err
	}
	nowruz, err := persian.ToInstant(calendar.CivilDate{Year: 1402, Month: 1, Day: 1})
	if err != nil {
		return err
	}

	gregorian, err := engine.From(calendar.Persian).To(calendar.Gregorian).Format(nowruz, "yyyy-MM-dd")
	if err != nil {
		return err
	}
	back, err := engine.From(calendar.Gregorian).To(calendar.Persian).Format(nowruz, "yyyy/MM/dd")
	if err != nil {
		return err
	}
	reinterpreted, err := engine.From(calendar.Persian).To(calendar.Gregorian).FormatConverted(nowruz, "yyyy/MM/dd")
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  Persian 1402/01/01 is Gregorian %s\n", gregorian)
	fmt.Fprintf(w, "  and back to Persian: %s\n", back)
	fmt.Fprintf(w, "  Convert keeps the numbers: %s (Gregorian)\n", reinterpreted)
	return nil
}

func demoIslamicNewYear(w io.Writer, engine *calendar.Engine, _ time.Time) error {
	hijri, err := engine.Registry().Resolve(calendar.Hijri)
	if err != nil {
		return err
	}
	newYear, err := hijri.ToInstant(calendar.CivilDate{Year: 1445, Month: 1, Day: 1})
	if err != nil {
		return err
	}

	for _, target := range []calendar.Kind{calendar.Gregorian, calendar.Persian} {
		s, err := engine.From(calendar.Hijri).To(target).Format(newYear, "dddd, d MMMM yyyy")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  Hijri 1445/01/01 in %s: %s\n", target, s)
	}
	return nil
}

func demoChristmas(w io.Writer, engine *calendar.Engine, _ time.Time) error {
	christmas := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	for _, dl := range demoLocales {
		s, err := engine.From(calendar.Gregorian).To(dl.kind).WithLocale(dl.locale).Format(christmas, "d MMMM yyyy")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-10s %s\n", dl.kind, s)
	}
	return nil
}

func demoErrors(w io.Writer, engine *calendar.Engine, today time.Time) error {
	_, err := engine.From(calendar.Gregorian).To(calendar.Persian).Format(today, "yyyy/QQ/dd")
	if err == nil {
		return fmt.Errorf("invalid pattern was accepted")
	}
	fmt.Fprintf(w, "  Invalid format: %v\n", err)

	gregorian, err := engine.Registry().Resolve(calendar.Gregorian)
	if err != nil {
		return err
	}
	_, err = gregorian.ToInstant(calendar.CivilDate{Year: 10000, Month: 1, Day: 1})
	if err == nil {
		return fmt.Errorf("year 10000 was accepted")
	}
	fmt.Fprintf(w, "  Year 10000: %v\n", err)
	return nil
}
