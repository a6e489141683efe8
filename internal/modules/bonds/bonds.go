// Package bonds maps stored bond holdings into the bonds page: a holdings
// table, fixed-income summary cards and a maturity schedule.
//
// Stored rows carry face value in Quantity and current value in Value; the
// remaining attributes live in Meta.
package bonds

import (
	"fmt"
	"sort"
	"time"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Kinds lists the bond categories offered by the add form.
var Kinds = []string{
	"Government", "Treasury", "Municipal", "Corporate", "Agency", "Sovereign",
	"Convertible", "Zero-Coupon", "Floating Rate", "Inflation-Linked",
	"High-Yield", "Green", "Perpetual", "Other",
}

// Statuses lists the lifecycle states of a bond.
var Statuses = []string{"Active", "Matured", "Called", "Sold"}

// Bond is the bonds-page view of one holding.
type Bond struct {
	ID              string
	Ticker          string
	Description     string
	Issuer          string
	Kind            string
	Status          string
	FaceValue       decimal.Decimal
	CurrentValue    decimal.Decimal
	CouponRate      float64
	YieldToMaturity float64
	MaturityDate    time.Time
	HasMaturity     bool
}

// FromAsset builds a Bond from a stored asset.
func FromAsset(a domain.Asset) Bond {
	b := Bond{
		ID:              a.ID,
		Ticker:          a.Meta.String("ticker"),
		Description:     a.Name,
		Issuer:          a.Meta.String("issuer"),
		Kind:            a.Meta.String("type"),
		Status:          a.Meta.String("status"),
		CurrentValue:    a.Value,
		FaceValue:       a.Value,
		CouponRate:      a.Meta.Float("couponRate"),
		YieldToMaturity: a.Meta.Float("yieldToMaturity"),
	}
	if a.Quantity.Valid {
		b.FaceValue = a.Quantity.Decimal
	}
	if b.Status == "" {
		b.Status = "Active"
	}
	b.MaturityDate, b.HasMaturity = a.Meta.Date("maturityDate")
	return b
}

// AnnualIncome is the yearly coupon: face value times coupon rate.
func (b Bond) AnnualIncome() decimal.Decimal {
	return b.FaceValue.Mul(decimal.NewFromFloat(b.CouponRate)).Div(decimal.NewFromInt(100))
}

// Summary aggregates the holdings shown in the summary cards.
type Summary struct {
	FaceValue    decimal.Decimal
	CurrentValue decimal.Decimal
	AnnualIncome decimal.Decimal
	AverageYield float64
	ActiveCount  int
	NextMaturity *Bond
}

// Summarize aggregates bonds. NextMaturity is the earliest maturity after now.
func Summarize(bonds []Bond, now time.Time) Summary {
	s := Summary{
		FaceValue:    decimal.Zero,
		CurrentValue: decimal.Zero,
		AnnualIncome: decimal.Zero,
	}
	yields := make([]float64, 0, len(bonds))
	for _, b := range bonds {
		s.FaceValue = s.FaceValue.Add(b.FaceValue)
		s.CurrentValue = s.CurrentValue.Add(b.CurrentValue)
		s.AnnualIncome = s.AnnualIncome.Add(b.AnnualIncome())
		yields = append(yields, b.YieldToMaturity)
		if b.Status == "Active" {
			s.ActiveCount++
		}
	}
	if len(yields) > 0 {
		s.AverageYield = stat.Mean(yields, nil)
	}

	for _, b := range MaturitySchedule(bonds) {
		if b.MaturityDate.After(now) {
			next := b
			s.NextMaturity = &next
			break
		}
	}
	return s
}

// MaturitySchedule returns bonds with a maturity date, soonest first.
func MaturitySchedule(bonds []Bond) []Bond {
	out := make([]Bond, 0, len(bonds))
	for _, b := range bonds {
		if b.HasMaturity {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MaturityDate.Before(out[j].MaturityDate)
	})
	return out
}

// TimeRemaining renders the gap until maturity as "{years}y {months}m",
// counting 365-day years and 30-day months. Past dates render "Matured".
func TimeRemaining(maturity, now time.Time) string {
	diff := maturity.Sub(now)
	if diff <= 0 {
		return "Matured"
	}
	days := int(diff.Hours() / 24)
	return fmt.Sprintf("%dy %dm", days/365, (days%365)/30)
}
