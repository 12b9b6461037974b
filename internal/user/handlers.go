package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/shopfront/backend-shopfront/internal/common"
)

// Handler exposes the authenticated address book endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// ListAddresses handles GET /api/v1/me/addresses.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	addresses, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if addresses == nil {
		addresses = []Address{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": addresses})
}

// CreateAddress handles POST /api/v1/me/addresses.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var input AddressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(input); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid address payload", err.Error())
			return
		}
	}
	created, err := h.Svc.Create(r.Context(), userID, input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// DeleteAddress handles DELETE /api/v1/me/addresses/{id}.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	addressID := chi.URLParam(r, "id")
	if addressID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "missing address id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), userID, addressID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.WriteAppError(w, appErr, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "address book unavailable", nil)
}
