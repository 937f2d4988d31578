package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/DanielPopoola/ipn-relay/internal/interfaces/rest"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Recovery turns a handler panic into the generic 500 body. http.ErrAbortHandler is
// re-raised so net/http can drop the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				reqLogger := logger.With(
					"request_id", chimiddleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				reqLogger.Error("panic recovered", "panic", rec, "stack", string(debug.Stack()))

				rest.WriteError(w, fmt.Errorf("panic in %s %s: %v", r.Method, r.URL.Path, rec), reqLogger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
