package handlers

import (
	"net/http"

	"github.com/DanielPopoola/ipn-relay/internal/interfaces/rest"
)

type ClearLogsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *Handlers) GetLogs(w http.ResponseWriter, r *http.Request) {
	data, err := h.activity.Read()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read activity log", "error", err)
		http.Error(w, "could not read logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handlers) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := h.activity.Clear(); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to clear activity log", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not clear logs"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, ClearLogsResponse{
		Status:  "ok",
		Message: "logs cleared",
	})
}
