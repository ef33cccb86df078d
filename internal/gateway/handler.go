package gateway

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/af-corp/bfhl-gateway/internal/config"
	"github.com/af-corp/bfhl-gateway/internal/dispatch"
	"github.com/af-corp/bfhl-gateway/internal/httputil"
	"github.com/af-corp/bfhl-gateway/internal/telemetry"
	"github.com/af-corp/bfhl-gateway/internal/types"
)

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	identity   func() config.IdentityConfig
	metrics    *telemetry.Metrics
}

func NewHandler(dispatcher *dispatch.Dispatcher, identity func() config.IdentityConfig, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		identity:   identity,
		metrics:    metrics,
	}
}

// Email returns the identity string echoed in every envelope.
func (h *Handler) Email() string {
	return h.identity().OfficialEmail
}

// Compute handles POST /bfhl
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()
	email := h.Email()

	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("request body too large", "request_id", reqID, "limit", tooLarge.Limit)
			tooLargeErr := types.NewPayloadTooLargeError(err)
			h.record("unknown", tooLargeErr.Status, tooLargeErr.Kind, receivedAt)
			httputil.WriteError(w, reqID, email, tooLargeErr)
			return
		}
		h.record("unknown", http.StatusBadRequest, types.KindShape, receivedAt)
		httputil.WriteFailure(w, reqID, email, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if !jsonContent(r.Header.Get("Content-Type")) {
		body = nil
	}

	op, data, err := h.dispatcher.Dispatch(r.Context(), body)
	opLabel := string(op)
	if opLabel == "" {
		opLabel = "unknown"
	}
	duration := time.Since(receivedAt)

	if err != nil {
		status := types.StatusOf(err)
		kind := types.KindOf(err)
		attrs := []any{
			"request_id", reqID,
			"operation", opLabel,
			"kind", string(kind),
			"status_code", status,
			"duration_ms", duration.Milliseconds(),
		}
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", append(attrs, "error", err)...)
		} else {
			slog.Info("request rejected", append(attrs, "reason", types.MessageOf(err))...)
		}
		h.record(opLabel, status, kind, receivedAt)
		httputil.WriteError(w, reqID, email, err)
		return
	}

	slog.Info("request completed",
		"request_id", reqID,
		"operation", opLabel,
		"status_code", http.StatusOK,
		"duration_ms", duration.Milliseconds(),
	)
	h.record(opLabel, http.StatusOK, "", receivedAt)
	httputil.WriteSuccess(w, reqID, email, data)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteEnvelope(w, w.Header().Get("X-Request-ID"), http.StatusOK, types.Bare(h.Email()))
}

// NotFound answers every unmatched route, including a known path with the
// wrong method.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFound(w, w.Header().Get("X-Request-ID"), h.Email())
}

func (h *Handler) record(op string, status int, kind types.ErrorKind, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordRequest(telemetry.RequestLabels{
		Operation:    op,
		Status:       strconv.Itoa(status),
		DurationMs:   float64(time.Since(start).Milliseconds()),
		RejectedKind: string(kind),
	})
}

// jsonContent reports whether a body with this Content-Type is parsed as
// JSON. A missing header is accepted; any other media type reads as an empty
// body.
func jsonContent(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
