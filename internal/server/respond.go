package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/menupress/menupress/pkg/errors"
)

// errorResponse is the JSON envelope for API errors.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		// Encoding failures after WriteHeader cannot be reported to the
		// client; the truncated body is the signal.
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps an error to an HTTP status and writes the envelope.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	var overflow *errors.ContentOverflowError
	if stderrors.As(err, &overflow) {
		code = overflow.Code()
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}

	writeJSON(w, statusForCode(code), errorResponse{
		Error: errorBody{
			Code:    string(code),
			Message: errors.UserMessage(err),
		},
	})
}

// statusForCode maps machine-readable error codes to HTTP statuses.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidTemplate,
		errors.ErrCodeInvalidMenu,
		errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeContentOverflow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound,
		errors.ErrCodeTemplateNotFound,
		errors.ErrCodeMenuNotFound,
		errors.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCache, errors.ErrCodeStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
