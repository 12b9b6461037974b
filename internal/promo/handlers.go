package promo

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopfront/backend-shopfront/internal/common"
)

// Handler exposes public and admin promo endpoints.
type Handler struct {
	Svc *Service
}

// PublicRule is the shopper-facing projection of a rule.
type PublicRule struct {
	Code        string  `json:"code"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	MinSubtotal int64   `json:"minSubtotal"`
}

// List handles GET /api/v1/promos: active rules only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo service not configured", nil)
		return
	}
	rules, err := h.Svc.Active(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]PublicRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, PublicRule{
			Code:        rule.Code,
			Label:       rule.Label,
			Description: rule.Description,
			Type:        rule.Type,
			Value:       rule.Value,
			MinSubtotal: rule.MinSubtotal,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// AdminList handles GET /api/v1/admin/promos: the full collection.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo service not configured", nil)
		return
	}
	rules, err := h.Svc.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rules})
}

// AdminReplace handles PUT /api/v1/admin/promos: full-collection replace.
func (h *Handler) AdminReplace(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo service not configured", nil)
		return
	}
	var payload struct {
		Rules []Rule `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	stored, err := h.Svc.Replace(r.Context(), payload.Rules)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": stored})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo store unavailable", nil)
}
