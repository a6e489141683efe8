package dashboard

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/shopspring/decimal"
)

// TotalsSource sums holdings per asset class for a user.
type TotalsSource interface {
	Totals(ctx context.Context, userID string) (map[domain.AssetType]decimal.Decimal, error)
}

var classLabels = map[domain.AssetType]string{
	domain.AssetTypeRealEstate: "Real Estate",
	domain.AssetTypeShare:      "Shares & Stocks",
	domain.AssetTypeBond:       "Bonds",
	domain.AssetTypeCrypto:     "Crypto",
	domain.AssetTypeBusiness:   "Business",
}

type overviewClass struct {
	Label string
	Value string
	Share string
	Href  string
}

type overviewData struct {
	Name    string
	Total   string
	Classes []overviewClass
}

// handleOverview serves GET /dashboard.
func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	totals, err := h.totals.Totals(r.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to total holdings")
		http.Error(w, "Holdings are temporarily unavailable.", http.StatusServiceUnavailable)
		return
	}

	grand := decimal.Zero
	for _, v := range totals {
		grand = grand.Add(v)
	}

	data := overviewData{Name: user.FullName, Total: h.formatter.Money(grand)}
	for _, t := range domain.AllAssetTypes {
		v := totals[t]
		share := decimal.Zero
		if grand.IsPositive() {
			share = v.Mul(decimal.NewFromInt(100)).Div(grand)
		}
		class := overviewClass{
			Label: classLabels[t],
			Value: h.formatter.Money(v),
			Share: h.formatter.Percent(share.InexactFloat64()),
		}
		if _, ok := h.template.Consumer(t); ok {
			class.Href = "/dashboard/" + segmentFor(t)
		}
		data.Classes = append(data.Classes, class)
	}

	h.page(w, r, http.StatusOK, Shell{Title: "Overview", Active: "overview"}, "overview", data)
}

// handleHelp serves GET /dashboard/help. No holdings provider is mounted.
func (h *Handler) handleHelp(w http.ResponseWriter, r *http.Request) {
	var body bytes.Buffer
	if err := HelpPage.Render(&body, h.renderer); err != nil {
		h.log.Error().Err(err).Msg("Failed to render help page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	h.write(w, r, http.StatusOK, Shell{Title: HelpPage.Title, Active: "help"}, template.HTML(body.String()))
}
