package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is shown in place of any absent value.
const NotAvailable = "N/A"

// Options configures a Formatter.
type Options struct {
	Locale         string
	CurrencySymbol string
	SymbolSuffix   string
	TimeLayout     string
	Location       *time.Location
}

// DefaultOptions matches the NSE dashboard: Indian locale, rupee, ".NS".
func DefaultOptions() Options {
	return Options{
		Locale:         "en-IN",
		CurrencySymbol: "₹",
		SymbolSuffix:   ".NS",
		TimeLayout:     "2 Jan 2006, 15:04:05",
		Location:       time.UTC,
	}
}

// Formatter renders numbers, symbols and timestamps for display.
type Formatter struct {
	printer    *message.Printer
	decimalSep string
	currency   string
	suffix     string
	timeLayout string
	location   *time.Location
}

// NewFormatter creates a formatter. An unparsable locale falls back to
// English.
func NewFormatter(opts Options) *Formatter {
	defaults := DefaultOptions()
	tag, err := language.Parse(opts.Locale)
	if err != nil || opts.Locale == "" {
		tag = language.English
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = defaults.TimeLayout
	}
	if opts.Location == nil {
		opts.Location = defaults.Location
	}

	printer := message.NewPrinter(tag)
	return &Formatter{
		printer:    printer,
		decimalSep: decimalSeparator(printer),
		currency:   opts.CurrencySymbol,
		suffix:     opts.SymbolSuffix,
		timeLayout: opts.TimeLayout,
		location:   opts.Location,
	}
}

// Currency formats an amount with the currency symbol, locale grouping and
// exactly two decimal places.
func (f *Formatter) Currency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + f.currency + f.grouped(rounded, 2)
}

// grouped formats a non-negative d with locale digits and grouping and
// exactly places fraction digits. The digits come from the decimal itself,
// never from a float64.
func (f *Formatter) grouped(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fixed
	}
	var b strings.Builder
	b.WriteString(f.printer.Sprint(number.Decimal(n)))
	if frac != "" {
		b.WriteString(f.decimalSep)
		for _, c := range frac {
			b.WriteString(f.printer.Sprint(number.Decimal(int(c - '0'))))
		}
	}
	return b.String()
}

// OptionalCurrency is Currency for a value that may be absent.
func (f *Formatter) OptionalCurrency(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return NotAvailable
	}
	return f.Currency(amount.Decimal)
}

// decimalSeparator is whatever the locale puts between "1" and "5" in 1.5.
func decimalSeparator(p *message.Printer) string {
	r := []rune(p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1), number.MaxFractionDigits(1))))
	if len(r) < 3 {
		return "."
	}
	return string(r[1 : len(r)-1])
}

// Fixed formats d with a fixed number of decimal places.
func (f *Formatter) Fixed(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

// OptionalFixed is Fixed for a value that may be absent.
func (f *Formatter) OptionalFixed(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return NotAvailable
	}
	return f.Fixed(d.Decimal, places)
}

// Percent formats a value that is already a percentage.
func (f *Formatter) Percent(d decimal.Decimal, places int32) string {
	return d.StringFixed(places) + "%"
}

// OptionalPercent is Percent for a value that may be absent.
func (f *Formatter) OptionalPercent(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return NotAvailable
	}
	return f.Percent(d.Decimal, places)
}

// OptionalRatioPercent renders a fraction (0.153) as a percentage (15.3%).
func (f *Formatter) OptionalRatioPercent(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return NotAvailable
	}
	return f.Percent(d.Decimal.Shift(2), places)
}

// OptionalRaw renders the value as the backend sent it, with an optional unit.
func (f *Formatter) OptionalRaw(d decimal.NullDecimal, unit string) string {
	if !d.Valid {
		return NotAvailable
	}
	return d.Decimal.String() + unit
}

// OptionalAmount formats a large amount with locale grouping and no
// currency symbol or fraction.
func (f *Formatter) OptionalAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return NotAvailable
	}
	rounded := d.Decimal.Round(0)
	if rounded.IsNegative() {
		return "-" + f.grouped(rounded.Abs(), 0)
	}
	return f.grouped(rounded, 0)
}

// Score renders a 0-10 score the way the backend sent it.
func (f *Formatter) Score(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "/10"
}

// OptionalScore is Score for a value that may be absent.
func (f *Formatter) OptionalScore(score decimal.NullDecimal) string {
	if !score.Valid {
		return NotAvailable + "/10"
	}
	return score.Decimal.String() + "/10"
}

// DisplaySymbol strips the exchange suffix from a ticker.
func (f *Formatter) DisplaySymbol(symbol string) string {
	if f.suffix == "" {
		return symbol
	}
	return strings.TrimSuffix(symbol, f.suffix)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp formats a backend timestamp for the last-updated display.
// Unparsable input is returned as-is.
func (f *Formatter) Timestamp(raw string) string {
	if raw == "" {
		return "Never"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(f.location).Format(f.timeLayout)
		}
	}
	return raw
}
