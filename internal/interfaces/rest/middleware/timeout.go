package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPopoola/ipn-relay/internal/interfaces/rest"
)

// Timeout bounds the handlers behind it and answers 503 with the usual error body once
// the deadline passes. The handler's context is cancelled at the same moment.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(rest.ErrorResponse{
		Error: "request timed out after " + timeout.String(),
		Code:  "timeout",
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
