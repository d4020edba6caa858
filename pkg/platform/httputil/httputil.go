// Package httputil maps domain errors onto HTTP responses. Handlers call
// WriteError with whatever the service returned; the mapping keeps internal
// details out of client-facing payloads.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "orderflow/pkg/domain-errors"
)

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeNotFound:     http.StatusNotFound,
	dErrors.CodeForbidden:    http.StatusForbidden,
	dErrors.CodeUnauthorized: http.StatusUnauthorized,
	dErrors.CodeInvalidGroup: http.StatusUnprocessableEntity,
	dErrors.CodeValidation:   http.StatusUnprocessableEntity,
	dErrors.CodeBadRequest:   http.StatusBadRequest,
	dErrors.CodeConflict:     http.StatusConflict,
	dErrors.CodeTimeout:      http.StatusGatewayTimeout,
	dErrors.CodeInternal:     http.StatusInternalServerError,
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError writes a JSON error body derived from the error's code.
// Internal errors omit the description so storage details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes a JSON payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
