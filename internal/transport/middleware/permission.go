package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/transport"
)

// RequireRole lets the request through only when the identity attached by the
// auth middleware carries one of roles. It must run after that middleware.
func RequireRole(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				base.WriteAppError(w, internal.ErrInvalidToken)
				return
			}

			if !HasRole(id, roles...) {
				base.Logger.WarnContext(r.Context(), "access denied: role not permitted",
					"user_id", id.UserID,
					"role", id.Role,
					"required_roles", roles)
				base.WriteAppError(w, internal.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func HasRole(id internal.Identity, roles ...string) bool {
	for _, role := range roles {
		if id.Role == role {
			return true
		}
	}
	return false
}
