// Package shares maps stored equity holdings into the shares page.
package shares

import (
	"sort"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Sectors offered by the add form.
var Sectors = []string{
	"Technology", "Finance", "Energy", "Healthcare", "FMCG", "Automobile",
	"Telecom", "Materials", "Utilities", "Other",
}

// Durations are the holding horizons a position can be tagged with.
var Durations = []string{"Short", "Mid", "Long"}

var hundred = decimal.NewFromInt(100)

// Share is the shares-page view of one holding.
type Share struct {
	ID              string
	Symbol          string
	Name            string
	Sector          string
	HoldingDuration string
	Quantity        decimal.Decimal
	AveragePrice    decimal.Decimal
	CurrentPrice    decimal.Decimal
	TotalInvested   decimal.Decimal
	TotalValue      decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent float64
}

// FromAsset builds a Share from a stored asset. A missing cost basis is
// treated as equal to current value.
func FromAsset(a domain.Asset) Share {
	s := Share{
		ID:              a.ID,
		Symbol:          a.Meta.String("symbol"),
		Name:            a.Name,
		Sector:          a.Meta.String("sector"),
		HoldingDuration: a.Meta.String("holdingDuration"),
		TotalValue:      a.Value,
		TotalInvested:   a.Value,
		Quantity:        decimal.Zero,
	}
	if a.CostBasis.Valid {
		s.TotalInvested = a.CostBasis.Decimal
	}
	if a.Quantity.Valid {
		s.Quantity = a.Quantity.Decimal
	}
	if s.Quantity.IsPositive() {
		s.AveragePrice = s.TotalInvested.Div(s.Quantity)
		s.CurrentPrice = s.TotalValue.Div(s.Quantity)
	}
	s.GainLoss = s.TotalValue.Sub(s.TotalInvested)
	s.GainLossPercent = percentOf(s.GainLoss, s.TotalInvested)
	return s
}

// Summary aggregates the shares page cards.
type Summary struct {
	TotalValue      decimal.Decimal
	TotalInvested   decimal.Decimal
	GainLoss        decimal.Decimal
	GainLossPercent float64
	AverageReturn   float64
	Count           int
}

// Summarize aggregates holdings. AverageReturn is the unweighted mean of
// per-holding gain/loss percentages.
func Summarize(shares []Share) Summary {
	s := Summary{TotalValue: decimal.Zero, TotalInvested: decimal.Zero, Count: len(shares)}
	returns := make([]float64, 0, len(shares))
	for _, sh := range shares {
		s.TotalValue = s.TotalValue.Add(sh.TotalValue)
		s.TotalInvested = s.TotalInvested.Add(sh.TotalInvested)
		returns = append(returns, sh.GainLossPercent)
	}
	s.GainLoss = s.TotalValue.Sub(s.TotalInvested)
	s.GainLossPercent = percentOf(s.GainLoss, s.TotalInvested)
	if len(returns) > 0 {
		s.AverageReturn = stat.Mean(returns, nil)
	}
	return s
}

// SectorWeight is one sector's share of portfolio value.
type SectorWeight struct {
	Sector  string
	Value   decimal.Decimal
	Percent float64
}

// SectorAllocation groups value by sector, largest first.
func SectorAllocation(shares []Share) []SectorWeight {
	total := decimal.Zero
	bySector := make(map[string]decimal.Decimal)
	for _, sh := range shares {
		sector := sh.Sector
		if sector == "" {
			sector = "Other"
		}
		bySector[sector] = bySector[sector].Add(sh.TotalValue)
		total = total.Add(sh.TotalValue)
	}

	out := make([]SectorWeight, 0, len(bySector))
	for sector, v := range bySector {
		out = append(out, SectorWeight{Sector: sector, Value: v, Percent: percentOf(v, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value.Equal(out[j].Value) {
			return out[i].Sector < out[j].Sector
		}
		return out[i].Value.GreaterThan(out[j].Value)
	})
	return out
}

func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).Div(whole).InexactFloat64()
}
