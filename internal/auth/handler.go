package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/transport"
	"github.com/frahmantamala/expense-approval/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto ForgotPasswordDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.ForgotPassword(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.ResetPassword(r.Context(), chi.URLParam(r, "token"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the caller's identity to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.DebugContext(r.Context(), "auth middleware: missing authorization token", "path", r.URL.Path)
			h.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.DebugContext(r.Context(), "auth middleware: token validation failed", "path", r.URL.Path)
			h.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), internal.Identity{
			UserID:    claims.UserID,
			Role:      claims.Role,
			CompanyID: claims.CompanyID,
		})
		ctx = logger.With(ctx, slog.Int64("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
