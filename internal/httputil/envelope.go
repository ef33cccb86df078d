// Package httputil writes response envelopes.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/af-corp/bfhl-gateway/internal/types"
)

// WriteEnvelope writes env as JSON with the given status.
func WriteEnvelope(w http.ResponseWriter, requestID string, statusCode int, env types.Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to write response", "request_id", requestID, "error", err)
	}
}

func WriteSuccess(w http.ResponseWriter, requestID, email string, data any) {
	WriteEnvelope(w, requestID, http.StatusOK, types.Success(email, data))
}

func WriteFailure(w http.ResponseWriter, requestID, email string, statusCode int, message string) {
	WriteEnvelope(w, requestID, statusCode, types.Failure(email, message))
}

// WriteError derives status and message from err. Anything that is not a
// *types.Error becomes a 500.
func WriteError(w http.ResponseWriter, requestID, email string, err error) {
	WriteFailure(w, requestID, email, types.StatusOf(err), types.MessageOf(err))
}

func WriteNotFound(w http.ResponseWriter, requestID, email string) {
	WriteError(w, requestID, email, types.NewNotFoundError())
}

func WriteRateLimitError(w http.ResponseWriter, requestID, email, message string) {
	WriteError(w, requestID, email, types.NewRateLimitedError(message))
}

func WriteInternalError(w http.ResponseWriter, requestID, email, message string) {
	if message == "" {
		message = "Internal Server Error"
	}
	WriteFailure(w, requestID, email, http.StatusInternalServerError, message)
}
