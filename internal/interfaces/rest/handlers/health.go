package handlers

import (
	"net/http"

	"github.com/DanielPopoola/ipn-relay/internal/interfaces/rest"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	rest.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: h.version,
	})
}
