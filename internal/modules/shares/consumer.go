package shares

import (
	"strconv"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/view"
	"github.com/shopspring/decimal"
)

// Consumer renders the shares asset page content.
type Consumer struct{}

// NewConsumer creates the shares page consumer.
func NewConsumer() *Consumer { return &Consumer{} }

func (c *Consumer) Type() domain.AssetType { return domain.AssetTypeShare }

func (c *Consumer) Content(assets []domain.Asset, f *view.Formatter) view.Content {
	shares := make([]Share, 0, len(assets))
	for _, a := range assets {
		shares = append(shares, FromAsset(a))
	}
	sum := Summarize(shares)

	content := view.Content{
		Metrics: []view.Metric{
			{Label: "Total Invested", Value: f.Money(sum.TotalInvested)},
			{
				Label:  "Total Gain/Loss",
				Value:  f.SignedMoney(sum.GainLoss),
				Detail: f.SignedPercent(sum.GainLossPercent) + " overall",
				Tone:   view.ToneOf(sum.GainLoss),
			},
			{Label: "Average Return", Value: f.SignedPercent(sum.AverageReturn)},
			{Label: "Holdings", Value: strconv.Itoa(sum.Count)},
		},
		Table: view.Table{
			Columns: []view.Column{
				{Header: "Symbol"}, {Header: "Company"}, {Header: "Sector"},
				{Header: "Qty", Numeric: true}, {Header: "Avg Price", Numeric: true},
				{Header: "Current Price", Numeric: true}, {Header: "Value", Numeric: true},
				{Header: "Gain/Loss", Numeric: true},
			},
		},
	}

	for _, s := range shares {
		tone := view.ToneOf(s.GainLoss)
		content.Table.Rows = append(content.Table.Rows, view.Row{
			ID: s.ID,
			Cells: []view.Cell{
				{Text: s.Symbol, Badge: true},
				{Text: s.Name},
				{Text: s.Sector},
				{Text: s.Quantity.String()},
				{Text: f.Money(s.AveragePrice)},
				{Text: f.Money(s.CurrentPrice)},
				{Text: f.Money(s.TotalValue)},
				{Text: f.SignedMoney(s.GainLoss) + " (" + f.SignedPercent(s.GainLossPercent) + ")", Tone: tone},
			},
		})
	}

	if alloc := SectorAllocation(shares); len(alloc) > 0 {
		section := view.Section{Title: "Sector Allocation"}
		for _, w := range alloc {
			section.Items = append(section.Items, view.Metric{
				Label:  w.Sector,
				Value:  f.Percent(w.Percent),
				Detail: f.Money(w.Value),
			})
		}
		content.Sections = append(content.Sections, section)
	}
	return content
}

func (c *Consumer) FormFields() []view.Field {
	return []view.Field{
		{Name: "symbol", Label: "Symbol", Kind: "text", Required: true},
		{Name: "name", Label: "Company", Kind: "text", Required: true},
		{Name: "sector", Label: "Sector", Kind: "select", Options: Sectors},
		{Name: "quantity", Label: "Quantity", Kind: "number", Required: true},
		{Name: "average_price", Label: "Average Price", Kind: "number", Required: true},
		{Name: "current_price", Label: "Current Price", Kind: "number"},
		{Name: "holding_duration", Label: "Holding Duration", Kind: "select", Options: Durations},
	}
}

// ParseForm builds a share asset: value is quantity times current price,
// cost basis is quantity times average price.
func (c *Consumer) ParseForm(form *view.Form) (*domain.Asset, error) {
	symbol := form.String("symbol", true)
	name := form.String("name", true)
	sector := form.String("sector", false)
	qty := form.Decimal("quantity", true)
	avg := form.Decimal("average_price", true)
	current := form.Decimal("current_price", false)
	duration := form.String("holding_duration", false)
	if err := form.Err(); err != nil {
		return nil, err
	}
	if !current.Valid {
		current = avg
	}
	if sector == "" {
		sector = "Other"
	}

	return &domain.Asset{
		Type:      domain.AssetTypeShare,
		Name:      name,
		Value:     qty.Decimal.Mul(current.Decimal),
		CostBasis: decimal.NewNullDecimal(qty.Decimal.Mul(avg.Decimal)),
		Quantity:  qty,
		Meta: domain.Meta{
			"symbol":          symbol,
			"sector":          sector,
			"holdingDuration": duration,
		},
	}, nil
}
