package crypto

import (
	"strconv"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/view"
	"github.com/shopspring/decimal"
)

// Consumer renders the crypto asset page content.
type Consumer struct{}

// NewConsumer creates the crypto page consumer.
func NewConsumer() *Consumer { return &Consumer{} }

func (c *Consumer) Type() domain.AssetType { return domain.AssetTypeCrypto }

func (c *Consumer) Content(assets []domain.Asset, f *view.Formatter) view.Content {
	holdings := FromAssets(assets)
	sum := Summarize(holdings)

	content := view.Content{
		Metrics: []view.Metric{
			{
				Label:  "Unrealized P&L",
				Value:  f.SignedMoney(sum.UnrealizedPnL),
				Detail: f.SignedPercent(sum.UnrealizedPnLPercent),
				Tone:   view.ToneOf(sum.UnrealizedPnL),
			},
			{Label: "24h Change", Value: f.SignedPercent(sum.Change24h), Tone: toneOfFloat(sum.Change24h)},
			{Label: "Assets", Value: strconv.Itoa(sum.Count)},
		},
		Table: view.Table{
			Columns: []view.Column{
				{Header: "Asset"}, {Header: "Network"}, {Header: "Wallet"},
				{Header: "Quantity", Numeric: true}, {Header: "Avg Buy", Numeric: true},
				{Header: "Price", Numeric: true}, {Header: "24h", Numeric: true},
				{Header: "Value", Numeric: true}, {Header: "P&L", Numeric: true},
				{Header: "Allocation", Numeric: true},
			},
		},
	}

	for _, h := range holdings {
		content.Table.Rows = append(content.Table.Rows, view.Row{
			ID: h.ID,
			Cells: []view.Cell{
				{Text: h.Symbol + " · " + h.Name},
				{Text: h.Network, Badge: true},
				{Text: h.Wallet},
				{Text: h.Quantity.String()},
				{Text: f.Money(h.AverageBuyPrice)},
				{Text: f.Money(h.CurrentPrice)},
				{Text: f.SignedPercent(h.PriceChange24h), Tone: toneOfFloat(h.PriceChange24h)},
				{Text: f.Money(h.TotalValue)},
				{Text: f.SignedMoney(h.UnrealizedPnL), Tone: view.ToneOf(h.UnrealizedPnL)},
				{Text: f.Percent(h.AllocationPercent)},
			},
		})
	}

	if networks := ByNetwork(holdings); len(networks) > 0 {
		section := view.Section{Title: "Networks"}
		for _, n := range networks {
			section.Items = append(section.Items, view.Metric{
				Label:  n.Network,
				Value:  f.Percent(n.Percent),
				Detail: f.Money(n.Value) + " · " + strconv.Itoa(n.Assets) + " assets",
			})
		}
		content.Sections = append(content.Sections, section)
	}
	return content
}

func (c *Consumer) FormFields() []view.Field {
	return []view.Field{
		{Name: "symbol", Label: "Symbol", Kind: "text", Required: true},
		{Name: "name", Label: "Name", Kind: "text", Required: true},
		{Name: "network", Label: "Network", Kind: "select", Options: Networks},
		{Name: "wallet", Label: "Wallet", Kind: "text"},
		{Name: "quantity", Label: "Quantity", Kind: "number", Required: true},
		{Name: "average_buy_price", Label: "Average Buy Price", Kind: "number", Required: true},
		{Name: "current_price", Label: "Current Price", Kind: "number"},
		{Name: "price_change_24h", Label: "24h Change (%)", Kind: "number"},
	}
}

// ParseForm builds a crypto asset from submitted form values.
func (c *Consumer) ParseForm(form *view.Form) (*domain.Asset, error) {
	symbol := form.String("symbol", true)
	name := form.String("name", true)
	network := form.String("network", false)
	wallet := form.String("wallet", false)
	qty := form.Decimal("quantity", true)
	avg := form.Decimal("average_buy_price", true)
	current := form.Decimal("current_price", false)
	change := form.Float("price_change_24h", false)
	if err := form.Err(); err != nil {
		return nil, err
	}
	if !current.Valid {
		current = avg
	}

	return &domain.Asset{
		Type:      domain.AssetTypeCrypto,
		Name:      name,
		Value:     qty.Decimal.Mul(current.Decimal),
		CostBasis: decimal.NewNullDecimal(qty.Decimal.Mul(avg.Decimal)),
		Quantity:  qty,
		Meta: domain.Meta{
			"symbol":         symbol,
			"network":        network,
			"wallet":         wallet,
			"priceChange24h": change,
		},
	}, nil
}

func toneOfFloat(v float64) view.Tone {
	switch {
	case v > 0:
		return view.TonePositive
	case v < 0:
		return view.ToneNegative
	}
	return view.ToneNeutral
}
