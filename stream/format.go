package stream

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders counter values with locale digit grouping.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter creates a Formatter for a BCP 47 locale such as "pt-BR".
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.Wrapf(err, "parse locale %q", locale)
	}

	f := new(Formatter)
	f.tag = tag
	f.printer = message.NewPrinter(tag)
	return f, nil
}

// Int formats the floor of v as a grouped integer.
func (f *Formatter) Int(v float64) string {
	return f.printer.Sprintf("%d", int64(math.Floor(v)))
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}
