package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ipn-relay/internal/application"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	IP    string `json:"ip,omitempty"`
}

// WriteError maps application errors to HTTP responses. 5xx bodies carry a generic
// message; the cause only goes to the log.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	statusCode := application.ToHTTPStatus(err)

	response := ErrorResponse{
		Error: application.PublicMessage(err),
		Code:  application.ToErrorCode(err),
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		response.IP = domainErr.IP
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			"code", response.Code,
			"category", application.CategorizeError(err),
			"error", err,
		)
	}

	WriteJSON(w, statusCode, response)
}

func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
