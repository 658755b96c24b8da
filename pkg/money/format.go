package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol is appended to every formatted amount.
const Symbol = "₫"

// Formatter renders amounts with locale digit grouping and no fraction digits.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for the given BCP 47 locale. Unknown
// locales fall back to Vietnamese.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Vietnamese
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

var defaultFormatter = NewFormatter("vi")

// Format renders a as e.g. "100.000₫". Invalid amounts render as "0₫".
func (f *Formatter) Format(a Amount) string {
	if !a.Valid() {
		return f.printer.Sprintf("%d", 0) + Symbol
	}
	return f.printer.Sprintf("%d", a.Decimal().Round(0).IntPart()) + Symbol
}

// Format uses the Vietnamese formatter.
func Format(a Amount) string {
	return defaultFormatter.Format(a)
}

