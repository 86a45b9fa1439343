package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/lyall/statusd/internal/logging"
	"github.com/lyall/statusd/internal/version"
)

// Fixed payload values
const (
	StatusSuccess = "success"
	StatusData    = "yes!"
	ServiceName   = "go"
)

// StatusResponse is the payload returned by GET /
type StatusResponse struct {
	Status  string `json:"status"`
	Data    string `json:"data"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// NewStatusResponse builds the payload for the given service and build version
func NewStatusResponse(service string, v version.Version) StatusResponse {
	return StatusResponse{
		Status:  StatusSuccess,
		Data:    StatusData,
		Service: service,
		Version: v.String(),
	}
}

func encodeStatus(resp StatusResponse) ([]byte, error) {
	return json.Marshal(resp)
}

// StatusHandler serves the status payload
type StatusHandler struct {
	service string
	version version.Version
	logger  *slog.Logger
	encode  func(StatusResponse) ([]byte, error)
}

// NewStatusHandler creates a new status handler. The version is resolved by
// the caller once and reused for every request.
func NewStatusHandler(service string, v version.Version, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandler{
		service: service,
		version: v,
		logger:  logger,
		encode:  encodeStatus,
	}
}

// Status returns the status payload
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	body, err := h.encode(NewStatusResponse(h.service, h.version))
	if err != nil {
		logging.WithRequestID(r.Context(), h.logger, middleware.GetReqID(r.Context())).
			Error("failed to encode status response", "error", err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, body)
}
