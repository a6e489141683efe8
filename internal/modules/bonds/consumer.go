package bonds

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/view"
	"github.com/shopspring/decimal"
)

// Consumer renders the bonds asset page content.
type Consumer struct {
	now func() time.Time
}

// NewConsumer creates the bonds page consumer.
func NewConsumer() *Consumer {
	return &Consumer{now: time.Now}
}

func (c *Consumer) Type() domain.AssetType { return domain.AssetTypeBond }

// Content builds summary cards, the holdings table and the maturity schedule.
func (c *Consumer) Content(assets []domain.Asset, f *view.Formatter) view.Content {
	now := c.now()
	bonds := make([]Bond, 0, len(assets))
	for _, a := range assets {
		bonds = append(bonds, FromAsset(a))
	}
	sum := Summarize(bonds, now)

	next := view.Metric{Label: "Next Maturity", Value: "-"}
	if sum.NextMaturity != nil {
		next.Value = sum.NextMaturity.MaturityDate.Format("Jan 2006")
		next.Detail = sum.NextMaturity.Ticker
	}

	content := view.Content{
		Metrics: []view.Metric{
			{Label: "Face Value", Value: f.Money(sum.FaceValue)},
			{Label: "Annual Coupon Income", Value: f.Money(sum.AnnualIncome), Tone: view.TonePositive},
			{Label: "Average Yield", Value: f.Percent(sum.AverageYield)},
			{Label: "Active Bonds", Value: strconv.Itoa(sum.ActiveCount)},
			next,
		},
		Table: view.Table{
			Columns: []view.Column{
				{Header: "Bond"}, {Header: "Issuer"}, {Header: "Type"},
				{Header: "Coupon", Numeric: true}, {Header: "Maturity"},
				{Header: "Face Value", Numeric: true}, {Header: "Current Value", Numeric: true},
				{Header: "YTM", Numeric: true}, {Header: "Status"},
			},
		},
	}

	for _, b := range bonds {
		maturity := "-"
		if b.HasMaturity {
			maturity = b.MaturityDate.Format("2006-01-02")
		}
		content.Table.Rows = append(content.Table.Rows, view.Row{
			ID: b.ID,
			Cells: []view.Cell{
				{Text: label(b.Ticker, b.Description)},
				{Text: b.Issuer},
				{Text: b.Kind},
				{Text: f.Percent(b.CouponRate)},
				{Text: maturity},
				{Text: f.Money(b.FaceValue)},
				{Text: f.Money(b.CurrentValue), Tone: view.ToneOf(b.CurrentValue.Sub(b.FaceValue))},
				{Text: f.Percent(b.YieldToMaturity)},
				{Text: b.Status, Badge: true},
			},
		})
	}

	schedule := view.Section{Title: "Maturity Schedule"}
	for _, b := range MaturitySchedule(bonds) {
		schedule.Items = append(schedule.Items, view.Metric{
			Label:  label(b.Ticker, b.Description),
			Value:  b.MaturityDate.Format("2006-01-02"),
			Detail: TimeRemaining(b.MaturityDate, now) + " · " + f.Money(b.FaceValue),
		})
	}
	if len(schedule.Items) > 0 {
		content.Sections = append(content.Sections, schedule)
	}
	return content
}

// FormFields describes the "Add Bonds Holdings" form.
func (c *Consumer) FormFields() []view.Field {
	return []view.Field{
		{Name: "name", Label: "Description", Kind: "text", Required: true},
		{Name: "ticker", Label: "Ticker", Kind: "text"},
		{Name: "issuer", Label: "Issuer", Kind: "text", Required: true},
		{Name: "type", Label: "Type", Kind: "select", Options: Kinds},
		{Name: "face_value", Label: "Face Value", Kind: "number", Required: true},
		{Name: "current_value", Label: "Current Value", Kind: "number"},
		{Name: "coupon_rate", Label: "Coupon Rate (%)", Kind: "number", Required: true},
		{Name: "yield_to_maturity", Label: "Yield to Maturity (%)", Kind: "number"},
		{Name: "maturity_date", Label: "Maturity Date", Kind: "date", Required: true},
		{Name: "status", Label: "Status", Kind: "select", Options: Statuses},
	}
}

// ParseForm builds a bond asset from submitted form values. Current value
// defaults to face value and an omitted yield to maturity to the coupon rate.
func (c *Consumer) ParseForm(form *view.Form) (*domain.Asset, error) {
	name := form.String("name", true)
	ticker := form.String("ticker", false)
	issuer := form.String("issuer", true)
	kind := form.String("type", false)
	face := form.Decimal("face_value", true)
	current := form.Decimal("current_value", false)
	coupon := form.Float("coupon_rate", true)
	ytm := form.Decimal("yield_to_maturity", false)
	maturity := form.String("maturity_date", true)
	status := form.String("status", false)
	if err := form.Err(); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", maturity); err != nil {
		return nil, fmt.Errorf("%w: maturity_date must be YYYY-MM-DD", domain.ErrInvalidAsset)
	}
	if kind == "" {
		kind = "Other"
	}
	if status == "" {
		status = "Active"
	}
	if !current.Valid {
		current = face
	}
	yield := coupon
	if ytm.Valid {
		yield = ytm.Decimal.InexactFloat64()
	}

	return &domain.Asset{
		Type:     domain.AssetTypeBond,
		Name:     name,
		Value:    current.Decimal,
		Quantity: decimal.NewNullDecimal(face.Decimal),
		Meta: domain.Meta{
			"ticker":          ticker,
			"issuer":          issuer,
			"type":            kind,
			"status":          status,
			"couponRate":      coupon,
			"yieldToMaturity": yield,
			"maturityDate":    maturity,
		},
	}, nil
}

func label(ticker, description string) string {
	if ticker == "" {
		return description
	}
	return ticker + " · " + description
}
