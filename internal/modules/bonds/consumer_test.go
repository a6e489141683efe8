package bonds

import (
	"net/url"
	"testing"
	"time"

	"github.com/aetherwealth/aether/internal/domain"
	testingpkg "github.com/aetherwealth/aether/internal/testing"
	"github.com/aetherwealth/aether/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumer_Content(t *testing.T) {
	c := NewConsumer()
	c.now = func() time.Time { return refNow }

	content := c.Content(testingpkg.NewBondFixtures(), view.NewFormatter("USD"))

	require.Len(t, content.Metrics, 5)
	assert.Equal(t, "Face Value", content.Metrics[0].Label)
	assert.Equal(t, "$700,000.00", content.Metrics[0].Value)
	assert.Equal(t, "$52,000.00", content.Metrics[1].Value)
	assert.Equal(t, "7.60%", content.Metrics[2].Value)
	assert.Equal(t, "1", content.Metrics[3].Value)
	assert.Equal(t, "Mar 2029", content.Metrics[4].Value)

	require.Len(t, content.Table.Rows, 2)
	assert.Equal(t, "bond-1", content.Table.Rows[0].ID)
	assert.Equal(t, "GOI33 · 7.18% GOI 2033", content.Table.Rows[0].Cells[0].Text)
	assert.Len(t, content.Table.Rows[0].Cells, len(content.Table.Columns))

	require.Len(t, content.Sections, 1)
	assert.Equal(t, "Maturity Schedule", content.Sections[0].Title)
	assert.Equal(t, "2029-03-01", content.Sections[0].Items[0].Value)
}

func TestConsumer_ParseForm(t *testing.T) {
	c := NewConsumer()

	a, err := c.ParseForm(view.NewForm(url.Values{
		"name":          {"Mumbai Municipal Bond 6.5%"},
		"issuer":        {"Brihanmumbai Municipal Corp"},
		"face_value":    {"1000000"},
		"coupon_rate":   {"6.5"},
		"maturity_date": {"2028-03-31"},
	}))
	require.NoError(t, err)
	require.NoError(t, a.Validate())

	assert.Equal(t, domain.AssetTypeBond, a.Type)
	assert.Equal(t, "1000000", a.Value.String())
	assert.Equal(t, "1000000", a.Quantity.Decimal.String())
	assert.Equal(t, "Other", a.Meta.String("type"))
	assert.Equal(t, "Active", a.Meta.String("status"))
	assert.Equal(t, 6.5, a.Meta.Float("yieldToMaturity"))
}

func TestConsumer_ParseFormKeepsExplicitZeroYield(t *testing.T) {
	c := NewConsumer()
	base := url.Values{
		"name":          {"Zero Yield Note"},
		"issuer":        {"Example Treasury"},
		"face_value":    {"1000"},
		"coupon_rate":   {"4.25"},
		"maturity_date": {"2029-01-15"},
	}

	tests := []struct {
		name string
		ytm  []string
		want float64
	}{
		{"omitted", nil, 4.25},
		{"blank", []string{"  "}, 4.25},
		{"explicit zero", []string{"0"}, 0},
		{"explicit value", []string{"3.9"}, 3.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			for k, v := range base {
				values[k] = v
			}
			if tt.ytm != nil {
				values["yield_to_maturity"] = tt.ytm
			}

			a, err := c.ParseForm(view.NewForm(values))
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Meta.Float("yieldToMaturity"))
		})
	}
}

func TestConsumer_ParseFormErrors(t *testing.T) {
	c := NewConsumer()

	_, err := c.ParseForm(view.NewForm(url.Values{"name": {"x"}}))
	assert.Error(t, err)

	_, err = c.ParseForm(view.NewForm(url.Values{
		"name":          {"x"},
		"issuer":        {"y"},
		"face_value":    {"100"},
		"coupon_rate":   {"5"},
		"maturity_date": {"31/03/2028"},
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidAsset)
}
