package render

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders numbers for one locale. It is safe for concurrent use.
type Formatter struct {
	tag language.Tag
}

// NewFormatter parses locale ("ru", "ru-RU", "en") and falls back to Russian.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Russian
	}
	return Formatter{tag: tag}
}

// Tag returns the formatter's language.
func (f Formatter) Tag() language.Tag { return f.tag }

func (f Formatter) printer() *message.Printer { return message.NewPrinter(f.tag) }

// Number groups thousands and keeps up to three fraction digits.
func (f Formatter) Number(v float64) string {
	return f.printer().Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// Int rounds v to an integer and groups thousands.
func (f Formatter) Int(v float64) string {
	return f.printer().Sprintf("%v", number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}

// Points always shows exactly one decimal.
func (f Formatter) Points(v float64) string {
	return f.printer().Sprintf("%v", number.Decimal(v, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}
