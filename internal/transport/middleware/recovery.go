package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/transport"
)

// RecoveryMiddleware turns a panic into a generic 500. The panic value and
// stack go to the log only.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					base.Logger.ErrorContext(r.Context(), "panic recovered",
						"error", err,
						"method", r.Method,
						"path", redactPath(r.URL.Path),
						"stack", string(debug.Stack()))

					base.WriteAppError(w, internal.NewInternalError("Internal server error.", nil))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
