// Package formatter renders country figures for display.
package formatter

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable stands in for a missing value.
const NotAvailable = "N/A"

// Formatter formats numbers with the grouping rules of one locale.
type Formatter struct {
	printer *message.Printer
}

// New returns a formatter for tag. language.Und falls back to English.
func New(tag language.Tag) *Formatter {
	if tag == language.Und {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Number groups digits, e.g. 67391582 -> "67,391,582" in English.
func (f *Formatter) Number(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Population formats a population, or NotAvailable when unknown.
func (f *Formatter) Population(p *int64) string {
	if p == nil {
		return NotAvailable
	}
	return f.Number(*p)
}

// Area formats an area in square kilometres, rounded to whole units.
func (f *Formatter) Area(a *float64) string {
	if a == nil {
		return NotAvailable
	}
	return f.Number(int64(*a+0.5)) + " km²"
}

// List joins values with ", ", or NotAvailable when there are none.
func List(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return NotAvailable
	}
	return strings.Join(parts, ", ")
}

// DialingCode returns the international calling code for a two-letter
// region code, e.g. "FR" -> "+33", or "" when the region has none.
func DialingCode(cca2 string) string {
	code := phonenumbers.GetCountryCodeForRegion(strings.ToUpper(strings.TrimSpace(cca2)))
	if code == 0 {
		return ""
	}
	return fmt.Sprintf("+%d", code)
}
