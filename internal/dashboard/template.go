package dashboard

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/modules/holdings"
	"github.com/aetherwealth/aether/internal/view"
)

// RenderOutcome reports which state the asset page rendered.
type RenderOutcome string

const (
	OutcomeOK          RenderOutcome = "ok"
	OutcomeEmpty       RenderOutcome = "empty"
	OutcomeLoading     RenderOutcome = "loading"
	OutcomeUnavailable RenderOutcome = "unavailable"
	OutcomeUnsupported RenderOutcome = "unsupported"
)

// HTTPStatus maps an outcome to the response status of the page.
func (o RenderOutcome) HTTPStatus() int {
	switch o {
	case OutcomeUnavailable:
		return http.StatusServiceUnavailable
	case OutcomeUnsupported:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

const (
	loadingMessage     = "Loading assets..."
	unavailableMessage = "Holdings are temporarily unavailable."
)

// Consumer turns the holdings of one asset class into page content and
// parses that class's add form.
type Consumer interface {
	Type() domain.AssetType
	Content(assets []domain.Asset, f *view.Formatter) view.Content
	FormFields() []view.Field
	ParseForm(form *view.Form) (*domain.Asset, error)
}

// AssetPageTemplate renders the shared page for every asset class. It reads
// holdings only from the snapshot it is handed.
type AssetPageTemplate struct {
	renderer  *Renderer
	formatter *view.Formatter
	consumers map[domain.AssetType]Consumer
}

// NewAssetPageTemplate registers one consumer per asset class.
func NewAssetPageTemplate(renderer *Renderer, formatter *view.Formatter, consumers ...Consumer) *AssetPageTemplate {
	t := &AssetPageTemplate{
		renderer:  renderer,
		formatter: formatter,
		consumers: make(map[domain.AssetType]Consumer, len(consumers)),
	}
	for _, c := range consumers {
		t.consumers[c.Type()] = c
	}
	return t
}

// Consumer returns the consumer registered for t.
func (t *AssetPageTemplate) Consumer(typ domain.AssetType) (Consumer, bool) {
	c, ok := t.consumers[typ]
	return c, ok
}

type assetPageData struct {
	Type        string
	Title       string
	Description string
	State       RenderOutcome
	Message     string
	TotalLabel  string
	Total       string
	AddLabel    string
	CanAdd      bool
	ActionBase  string
	Content     view.Content
	Fields      []view.Field
	FormError   string
}

// Render writes the asset page for cfg using snap and reports the state it
// rendered. A write or template error is returned alongside the outcome.
func (t *AssetPageTemplate) Render(w io.Writer, cfg domain.AssetClassConfig, snap holdings.Snapshot) (RenderOutcome, error) {
	return t.render(w, cfg, snap, "")
}

func (t *AssetPageTemplate) render(w io.Writer, cfg domain.AssetClassConfig, snap holdings.Snapshot, formError string) (RenderOutcome, error) {
	data := assetPageData{
		Type:        string(cfg.Type),
		Title:       cfg.Title,
		Description: cfg.Description,
		TotalLabel:  "Total " + cfg.Title + " Value",
		AddLabel:    "Add " + cfg.Title,
		FormError:   formError,
	}

	consumer, ok := t.consumers[cfg.Type]
	switch {
	case !cfg.Type.Valid() || !ok:
		data.State = OutcomeUnsupported
		data.Message = fmt.Sprintf("No page is available for asset type %q.", string(cfg.Type))
	case snap.Type != cfg.Type:
		data.State = OutcomeUnsupported
		data.Message = fmt.Sprintf("Holdings of type %q cannot be shown on the %s page.", string(snap.Type), cfg.Title)
	default:
		data.CanAdd = true
		data.ActionBase = "/dashboard/" + segmentFor(cfg.Type) + "/assets"
		data.Fields = consumer.FormFields()
		data.Total = t.formatter.Money(snap.Total())

		switch snap.Status {
		case holdings.StatusLoading:
			data.State = OutcomeLoading
			data.Message = loadingMessage
		case holdings.StatusFailed, holdings.StatusReleased:
			data.State = OutcomeUnavailable
			data.Message = unavailableMessage
		default:
			if len(snap.Assets) == 0 {
				data.State = OutcomeEmpty
				data.Message = "No assets found. Add your first " + strings.ToLower(cfg.Title) + " to get started."
			} else {
				data.State = OutcomeOK
				data.Content = consumer.Content(snap.Assets, t.formatter)
			}
		}
	}

	if err := t.renderer.Fragment(w, "asset_page", data); err != nil {
		return data.State, fmt.Errorf("failed to render %s asset page: %w", cfg.Type, err)
	}
	return data.State, nil
}
