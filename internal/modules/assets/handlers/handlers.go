// Package handlers provides the JSON API for holdings of every asset class.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AssetService is the subset of assets.Service the API needs.
type AssetService interface {
	ListByType(ctx context.Context, userID string, t domain.AssetType) ([]domain.Asset, error)
	Create(ctx context.Context, a *domain.Asset) error
	Delete(ctx context.Context, userID string, t domain.AssetType, id string) error
}

// Handler provides HTTP handlers for asset endpoints.
type Handler struct {
	service AssetService
	log     zerolog.Logger
}

// NewHandler creates a new assets handler.
func NewHandler(service AssetService, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "assets").Logger(),
	}
}

// ListResponse is returned by GET /api/assets/{type}.
type ListResponse struct {
	Type   domain.AssetType `json:"type"`
	Count  int              `json:"count"`
	Total  decimal.Decimal  `json:"total"`
	Assets []domain.Asset   `json:"assets"`
}

// CreateRequest is the body of POST /api/assets/{type}.
type CreateRequest struct {
	Name      string              `json:"name"`
	Value     decimal.Decimal     `json:"value"`
	CostBasis decimal.NullDecimal `json:"cost_basis"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	Meta      domain.Meta         `json:"meta"`
}

// HandleList handles GET /api/assets/{type}
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, typ, ok := h.scope(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListByType(r.Context(), user.ID, typ)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(typ)).Msg("Failed to list assets")
		h.writeError(w, http.StatusServiceUnavailable, domain.ErrDataUnavailable.Error())
		return
	}

	total := decimal.Zero
	for _, a := range list {
		total = total.Add(a.Value)
	}
	h.writeJSON(w, http.StatusOK, ListResponse{Type: typ, Count: len(list), Total: total, Assets: list})
}

// HandleCreate handles POST /api/assets/{type}
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, typ, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset := &domain.Asset{
		UserID:    user.ID,
		Type:      typ,
		Name:      req.Name,
		Value:     req.Value,
		CostBasis: req.CostBasis,
		Quantity:  req.Quantity,
		Meta:      req.Meta,
	}
	if err := asset.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.Create(r.Context(), asset); err != nil {
		if errors.Is(err, domain.ErrInvalidAsset) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("type", string(typ)).Msg("Failed to create asset")
		h.writeError(w, http.StatusInternalServerError, "Failed to create asset")
		return
	}

	h.writeJSON(w, http.StatusCreated, asset)
}

// HandleDelete handles DELETE /api/assets/{type}/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, typ, ok := h.scope(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), user.ID, typ, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("Failed to delete asset")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete asset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// scope resolves the signed-in user and the {type} URL parameter, writing
// the error response itself when either is missing.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (*auth.User, domain.AssetType, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, "", false
	}
	typ, err := domain.ParseAssetType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return user, typ, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
