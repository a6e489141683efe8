// Package crypto maps stored cryptocurrency holdings into the crypto page.
package crypto

import (
	"sort"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Networks offered by the add form.
var Networks = []string{
	"Bitcoin", "Ethereum", "Solana", "Cardano", "Polkadot", "Avalanche",
	"Polygon", "Binance Smart Chain",
}

var hundred = decimal.NewFromInt(100)

// Holding is the crypto-page view of one position.
type Holding struct {
	ID                   string
	Symbol               string
	Name                 string
	Network              string
	Wallet               string
	Quantity             decimal.Decimal
	AverageBuyPrice      decimal.Decimal
	CurrentPrice         decimal.Decimal
	TotalValue           decimal.Decimal
	CostBasis            decimal.Decimal
	UnrealizedPnL        decimal.Decimal
	UnrealizedPnLPercent float64
	AllocationPercent    float64
	PriceChange24h       float64
}

// FromAssets builds holdings and fills in each one's share of total value.
func FromAssets(assets []domain.Asset) []Holding {
	total := decimal.Zero
	out := make([]Holding, 0, len(assets))
	for _, a := range assets {
		h := Holding{
			ID:             a.ID,
			Symbol:         a.Meta.String("symbol"),
			Name:           a.Name,
			Network:        a.Meta.String("network"),
			Wallet:         a.Meta.String("wallet"),
			PriceChange24h: a.Meta.Float("priceChange24h"),
			TotalValue:     a.Value,
			CostBasis:      a.Value,
			Quantity:       decimal.Zero,
		}
		if a.CostBasis.Valid {
			h.CostBasis = a.CostBasis.Decimal
		}
		if a.Quantity.Valid {
			h.Quantity = a.Quantity.Decimal
		}
		if h.Quantity.IsPositive() {
			h.AverageBuyPrice = h.CostBasis.Div(h.Quantity)
			h.CurrentPrice = h.TotalValue.Div(h.Quantity)
		}
		h.UnrealizedPnL = h.TotalValue.Sub(h.CostBasis)
		h.UnrealizedPnLPercent = percentOf(h.UnrealizedPnL, h.CostBasis)
		total = total.Add(h.TotalValue)
		out = append(out, h)
	}
	for i := range out {
		out[i].AllocationPercent = percentOf(out[i].TotalValue, total)
	}
	return out
}

// Summary aggregates the crypto page cards.
type Summary struct {
	TotalValue           decimal.Decimal
	CostBasis            decimal.Decimal
	UnrealizedPnL        decimal.Decimal
	UnrealizedPnLPercent float64
	Change24h            float64
	Count                int
}

// Summarize aggregates holdings. Change24h is the value-weighted mean of the
// per-asset 24h price change.
func Summarize(holdings []Holding) Summary {
	s := Summary{TotalValue: decimal.Zero, CostBasis: decimal.Zero, Count: len(holdings)}
	changes := make([]float64, 0, len(holdings))
	weights := make([]float64, 0, len(holdings))
	for _, h := range holdings {
		s.TotalValue = s.TotalValue.Add(h.TotalValue)
		s.CostBasis = s.CostBasis.Add(h.CostBasis)
		changes = append(changes, h.PriceChange24h)
		weights = append(weights, h.TotalValue.InexactFloat64())
	}
	s.UnrealizedPnL = s.TotalValue.Sub(s.CostBasis)
	s.UnrealizedPnLPercent = percentOf(s.UnrealizedPnL, s.CostBasis)
	if s.TotalValue.IsPositive() {
		s.Change24h = stat.Mean(changes, weights)
	}
	return s
}

// NetworkWeight is one network's share of total value.
type NetworkWeight struct {
	Network string
	Value   decimal.Decimal
	Percent float64
	Assets  int
}

// ByNetwork groups holdings by chain, largest first.
func ByNetwork(holdings []Holding) []NetworkWeight {
	total := decimal.Zero
	idx := make(map[string]int)
	var out []NetworkWeight
	for _, h := range holdings {
		network := h.Network
		if network == "" {
			network = "Other"
		}
		i, ok := idx[network]
		if !ok {
			i = len(out)
			idx[network] = i
			out = append(out, NetworkWeight{Network: network, Value: decimal.Zero})
		}
		out[i].Value = out[i].Value.Add(h.TotalValue)
		out[i].Assets++
		total = total.Add(h.TotalValue)
	}
	for i := range out {
		out[i].Percent = percentOf(out[i].Value, total)
	}
	sort.SliceStable(out, func(i, j int) bool {
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
