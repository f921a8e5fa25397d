package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qubic/go-transfers-trigger/entities"
	"go.uber.org/zap"
)

type Poller interface {
	PollIdentity(ctx context.Context, identity string, mode entities.Mode) ([][]entities.TriggerResult, error)
}

type HealthResponse struct {
	Status string `json:"status"`
}

type PollResponse struct {
	Identity string                     `json:"identity"`
	Batches  [][]entities.TriggerResult `json:"batches"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	poller Poller
	logger *zap.SugaredLogger
}

func NewHandler(poller Poller, logger *zap.SugaredLogger) *Handler {
	return &Handler{poller: poller, logger: logger}
}

// RegisterRoutes adds the health and poll routes to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.GetHealth)
	mux.HandleFunc("POST /v1/identities/{identity}/poll", h.PollIdentity)
}

func (h *Handler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJson(w, http.StatusOK, HealthResponse{Status: "UP"})
}

// PollIdentity runs one manual poll for a configured identity.
func (h *Handler) PollIdentity(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")
	if err := entities.ValidateIdentity(identity); err != nil {
		h.writeJson(w, http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	batches, err := h.poller.PollIdentity(r.Context(), identity, entities.ModeManual)
	if err != nil {
		status := statusCode(err)
		if status == http.StatusInternalServerError {
			h.logger.Errorw("Error polling identity.", "identity", identity, "error", err)
		}
		h.writeJson(w, status, ErrorResponse{Message: err.Error()})
		return
	}

	if batches == nil {
		batches = [][]entities.TriggerResult{}
	}
	h.writeJson(w, http.StatusOK, PollResponse{Identity: identity, Batches: batches})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, entities.ErrUnknownIdentity):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		h.logger.Errorw("Error encoding response.", "error", err)
	}
}
