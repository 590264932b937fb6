package calendar

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DigitSet selects the numerals used for numeric fields
type DigitSet int

const (
	LatinDigits          DigitSet = iota // 0123456789
	ArabicIndicDigits                    // ٠١٢٣٤٥٦٧٨٩ (Arabic)
	ExtendedArabicDigits                 // ۰۱۲۳۴۵۶۷۸۹ (Persian, Urdu)
)

var digitZero = [...]rune{
	LatinDigits:          '0',
	ArabicIndicDigits:    '٠',
	ExtendedArabicDigits: '۰',
}

var digitShapers = [...]transform.Transformer{
	LatinDigits:          nil,
	ArabicIndicDigits:    shaper(ArabicIndicDigits),
	ExtendedArabicDigits: shaper(ExtendedArabicDigits),
}

func shaper(ds DigitSet) transform.Transformer {
	zero := digitZero[ds]
	return runes.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return zero + (r - '0')
		}
		return r
	})
}

func (ds DigitSet) String() string {
	switch ds {
	case LatinDigits:
		return "latin"
	case ArabicIndicDigits:
		return "arabic-indic"
	case ExtendedArabicDigits:
		return "extended-arabic-indic"
	default:
		return fmt.Sprintf("DigitSet(%d)", int(ds))
	}
}

// Shape rewrites ASCII digits in s into the digit set
func (ds DigitSet) Shape(s string) string {
	if ds <= LatinDigits || int(ds) >= len(digitShapers) {
		return s
	}
	out, _, err := transform.String(digitShapers[ds], s)
	if err != nil {
		return s
	}
	return out
}

// nameTable holds the culture strings of a locale. Month names belong to
// the locale's name calendar; weekdays start on Sunday.
type nameTable struct {
	nameCalendar Kind
	native       DigitSet
	months       [12]string
	monthsAbbr   [12]string
	weekdays     [7]string
	weekdaysAbbr [7]string
	am, pm       string
}

var englishNames = &nameTable{
	nameCalendar: Gregorian,
	native:       LatinDigits,
	months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	monthsAbbr: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	weekdays:     [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	weekdaysAbbr: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	am:           "AM",
	pm:           "PM",
}

var persianNames = &nameTable{
	nameCalendar: Persian,
	native:       ExtendedArabicDigits,
	months: [12]string{"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
		"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند"},
	monthsAbbr: [12]string{"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
		"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند"},
	weekdays:     [7]string{"یکشنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه", "پنجشنبه", "جمعه", "شنبه"},
	weekdaysAbbr: [7]string{"ی", "د", "س", "چ", "پ", "ج", "ش"},
	am:           "ق.ظ",
	pm:           "ب.ظ",
}

var arabicNames = &nameTable{
	nameCalendar: Hijri,
	native:       ArabicIndicDigits,
	months: [12]string{"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
		"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة"},
	monthsAbbr: [12]string{"محرم", "صفر", "ربيع 1", "ربيع 2", "جمادى 1", "جمادى 2",
		"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة"},
	weekdays:     [7]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"},
	weekdaysAbbr: [7]string{"أحد", "اثنين", "ثلاثاء", "أربعاء", "خميس", "جمعة", "سبت"},
	am:           "ص",
	pm:           "م",
}

// Locale carries the culture rules used when rendering a pattern: the
// language tag, the names of months and weekdays, the AM/PM designators and
// the digit set. The zero Locale means "the converter's default".
type Locale struct {
	tag    language.Tag
	names  *nameTable
	digits DigitSet
}

var (
	invariantTag = language.English
	persianTag   = language.MustParse("fa-IR")
	arabicTag    = language.MustParse("ar-SA")
)

// supportedTags are the cultures LookupLocale can match, first is the fallback
var supportedTags = []language.Tag{invariantTag, persianTag, arabicTag}

var localeMatcher = language.NewMatcher(supportedTags)

// Invariant is the culture-neutral English locale with Gregorian month names
func Invariant() Locale {
	return Locale{tag: invariantTag, names: englishNames}
}

// PersianIran is fa-IR with Persian (Jalali) month names and Latin digits
func PersianIran() Locale {
	return Locale{tag: persianTag, names: persianNames}
}

// ArabicSaudi is ar-SA with Hijri month names and Latin digits
func ArabicSaudi() Locale {
	return Locale{tag: arabicTag, names: arabicNames}
}

// LookupLocale resolves a culture name such as "fa-IR", "fa" or "ar-EG" to the
// closest supported locale. The empty string and "invariant" select
// Invariant. Cultures that match none of the supported languages fail with
// ErrUnsupportedLocale.
func LookupLocale(name string) (Locale, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "invariant") {
		return Invariant(), nil
	}

	tag, err := language.Parse(name)
	if err != nil {
		return Locale{}, fmt.Errorf("%w: %q: %v", ErrUnsupportedLocale, name, err)
	}

	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return Locale{}, fmt.Errorf("%w: %q", ErrUnsupportedLocale, name)
	}

	switch supportedTags[idx] {
	case persianTag:
		return PersianIran(), nil
	case arabicTag:
		return ArabicSaudi(), nil
	default:
		return Invariant(), nil
	}
}

// IsZero reports whether l is the zero Locale
func (l Locale) IsZero() bool {
	return l.names == nil
}

// Tag returns the BCP 47 language tag of the locale
func (l Locale) Tag() language.Tag {
	return l.tag
}

func (l Locale) String() string {
	if l.IsZero() {
		return "default"
	}
	if l.names == englishNames {
		return "invariant"
	}
	return l.tag.String()
}

// Digits returns the digit set numeric fields are rendered in
func (l Locale) Digits() DigitSet {
	return l.digits
}

// NameCalendar is the calendar whose month names the locale uses
func (l Locale) NameCalendar() Kind {
	return l.table().nameCalendar
}

// WithDigits returns a copy of l rendering numbers in ds
func (l Locale) WithDigits(ds DigitSet) Locale {
	l.digits = ds
	return l
}

// WithNativeDigits returns a copy of l rendering numbers in the culture's
// own numerals: Extended Arabic-Indic for Persian, Arabic-Indic for Arabic.
func (l Locale) WithNativeDigits() Locale {
	return l.WithDigits(l.table().native)
}

func (l Locale) table() *nameTable {
	if l.names == nil {
		return englishNames
	}
	return l.names
}
