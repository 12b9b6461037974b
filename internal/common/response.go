package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the canonical error payload returned by the API.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v to the response writer as JSON with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the canonical error shape.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, map[string]any{
		"error": ErrorBody{Code: code, Message: message, Details: details},
	})
}

// WriteAppError renders err as the canonical envelope, falling back to the
// provided defaults when err is not an AppError.
func WriteAppError(w http.ResponseWriter, err error, fallbackStatus int, fallbackCode string) {
	if appErr, ok := err.(*AppError); ok && appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = fallbackStatus
		}
		code := appErr.Code
		if code == "" {
			code = fallbackCode
		}
		JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	JSONError(w, fallbackStatus, fallbackCode, err.Error(), nil)
}
