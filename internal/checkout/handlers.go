package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopfront/backend-shopfront/internal/common"
)

// Handler exposes the quote and checkout endpoints.
type Handler struct {
	Svc *Service
}

// Quote handles POST /api/v1/checkout/quote: price a cart without
// creating anything.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var in CartInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	quote, err := h.Svc.Quote(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

// Place handles POST /api/v1/checkout: assemble a pending order for the
// authenticated shopper.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var in PlaceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	created, err := h.Svc.Place(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.WriteAppError(w, appErr, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed", nil)
}
