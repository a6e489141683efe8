package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter renders amounts in the display currency.
type Formatter struct {
	currency string
	fraction int32
}

// NewFormatter creates a formatter for an ISO 4217 code. Unknown codes fall
// back to USD.
func NewFormatter(code string) *Formatter {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		cur = money.GetCurrency("USD")
	}
	return &Formatter{currency: cur.Code, fraction: int32(cur.Fraction)}
}

// Currency returns the ISO code used for display.
func (f *Formatter) Currency() string { return f.currency }

// maxMinorUnits is the largest amount in minor units go-money can hold.
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Money formats v with the currency symbol and grouping, e.g. "$1,234.50".
// Amounts beyond int64 minor units are written as grouped digits followed by
// the currency code.
func (f *Formatter) Money(v decimal.Decimal) string {
	minor := v.Shift(f.fraction).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return groupDigits(v.StringFixed(f.fraction)) + " " + f.currency
	}
	return money.New(minor.IntPart(), f.currency).Display()
}

// groupDigits inserts thousands separators into a plain decimal string.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

// SignedMoney prefixes positive amounts with "+".
func (f *Formatter) SignedMoney(v decimal.Decimal) string {
	if v.IsPositive() {
		return "+" + f.Money(v)
	}
	return f.Money(v)
}

// Percent formats p (already in percent units) with two decimals.
func (f *Formatter) Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedPercent prefixes positive percentages with "+".
func (f *Formatter) SignedPercent(p float64) string {
	if p > 0 {
		return "+" + f.Percent(p)
	}
	return f.Percent(p)
}

// Quantity formats a unit count without trailing zeros.
func (f *Formatter) Quantity(q decimal.NullDecimal) string {
	if !q.Valid {
		return "-"
	}
	return q.Decimal.String()
}
