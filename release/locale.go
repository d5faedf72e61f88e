package release

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is the immutable presentation context shared by DateResolver and
// SummaryBuilder. Build it once at startup with NewLocale.
type Locale struct {
	Tag      language.Tag
	Location *time.Location
	Currency currency.Unit

	symbol      string
	symbolAfter bool
	scale       int
	names       calendarNames
}

type calendarNames struct {
	weekdays [7]string
	format   func(n calendarNames, t time.Time) string
}

var viNames = calendarNames{
	weekdays: [7]string{"Chủ Nhật", "Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy"},
	format: func(n calendarNames, t time.Time) string {
		return fmt.Sprintf("%s, %d tháng %d, %d", n.weekdays[t.Weekday()], t.Day(), int(t.Month()), t.Year())
	},
}

var enNames = calendarNames{
	format: func(_ calendarNames, t time.Time) string {
		return fmt.Sprintf("%s, %s %d, %d", t.Weekday(), t.Month(), t.Day(), t.Year())
	},
}

var currencySymbols = map[string]string{
	"VND": "₫",
	"USD": "$",
	"EUR": "€",
	"JPY": "¥",
	"GBP": "£",
}

// NewLocale parses a BCP 47 tag, an IANA zone and an ISO 4217 code.
func NewLocale(tag, zone, code string) (Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Locale{}, fmt.Errorf("parse locale %q: %w", tag, err)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Locale{}, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Locale{}, fmt.Errorf("parse currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)

	l := Locale{Tag: t, Location: loc, Currency: unit, scale: scale, names: enNames}
	l.symbol = currencySymbols[unit.String()]
	if l.symbol == "" {
		l.symbol = unit.String()
	}
	base, _ := t.Base()
	if base.String() == "vi" {
		l.names = viNames
		l.symbolAfter = true
	}
	return l, nil
}

// MustLocale is NewLocale for package-level defaults and tests.
func MustLocale(tag, zone, code string) Locale {
	l, err := NewLocale(tag, zone, code)
	if err != nil {
		panic(err)
	}
	return l
}

// FormatDate renders t as a full calendar date in the locale's zone.
func (l Locale) FormatDate(t time.Time) string {
	if l.Location != nil {
		t = t.In(l.Location)
	}
	if l.names.format == nil {
		return enNames.format(enNames, t)
	}
	return l.names.format(l.names, t)
}

// FormatCurrency renders v with locale digit grouping and the currency symbol.
func (l Locale) FormatCurrency(v float64) string {
	p := message.NewPrinter(l.Tag)
	amount := p.Sprint(number.Decimal(v, number.Scale(l.scale)))
	if l.symbolAfter {
		return amount + " " + l.symbol
	}
	return strings.TrimSpace(l.symbol + amount)
}
