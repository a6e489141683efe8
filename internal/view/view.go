// Package view holds the presentation models that asset-class consumers build
// and the HTML templates render. Values are already formatted strings.
package view

import (
	"net/url"
	"strings"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/shopspring/decimal"
)

// Tone colours a value in the rendered page.
type Tone string

const (
	ToneNeutral  Tone = ""
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// ToneOf returns the tone matching the sign of v.
func ToneOf(v decimal.Decimal) Tone {
	switch v.Sign() {
	case 1:
		return TonePositive
	case -1:
		return ToneNegative
	}
	return ToneNeutral
}

// Metric is one summary card.
type Metric struct {
	Label  string
	Value  string
	Detail string
	Tone   Tone
}

type Column struct {
	Header  string
	Numeric bool
}

type Cell struct {
	Text  string
	Tone  Tone
	Badge bool
}

type Row struct {
	ID    string
	Cells []Cell
}

// Table is the holdings listing.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Section is a titled list of label/value pairs, e.g. a maturity schedule.
type Section struct {
	Title string
	Items []Metric
}

// Content is everything an asset-class consumer contributes to its page.
type Content struct {
	Metrics  []Metric
	Table    Table
	Sections []Section
}

// Field describes one input of an "add asset" form.
type Field struct {
	Name     string
	Label    string
	Kind     string
	Required bool
	Options  []string
}

// Form reads typed values out of submitted form data.
type Form struct {
	values url.Values
	errs   []string
}

// NewForm wraps submitted form values.
func NewForm(values url.Values) *Form {
	return &Form{values: values}
}

// String returns the trimmed value of name; required fields record an error
// when empty.
func (f *Form) String(name string, required bool) string {
	v := strings.TrimSpace(f.values.Get(name))
	if v == "" && required {
		f.errs = append(f.errs, name+" is required")
	}
	return v
}

// Decimal parses name as a decimal number within the storable range.
func (f *Form) Decimal(name string, required bool) decimal.NullDecimal {
	v := f.String(name, required)
	if v == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		f.errs = append(f.errs, name+" must be a number")
		return decimal.NullDecimal{}
	}
	if err := domain.CheckAmount(d); err != nil {
		f.errs = append(f.errs, name+" "+err.Error())
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Float parses name as a float, returning 0 when absent.
func (f *Form) Float(name string, required bool) float64 {
	d := f.Decimal(name, required)
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}

// FormError lists the problems found in a submitted form.
type FormError struct {
	Problems []string
}

func (e *FormError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Err returns a *FormError when any field failed, or nil.
func (f *Form) Err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return &FormError{Problems: f.errs}
}
