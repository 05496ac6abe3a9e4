package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/transport"
	"github.com/frahmantamala/expense-approval/pkg/logger"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetProfile(r.Context(), id.UserID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	users, err := h.Service.ListCompanyUsers(r.Context(), id.UserID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto CreateUserDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.CreateUser(r.Context(), id.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) AssignManager(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		h.WriteAppError(w, internal.NewValidationFieldError("id", "id must be a positive integer", internal.ErrCodeValidationFailed))
		return
	}

	var dto AssignManagerDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.AssignManager(r.Context(), id.UserID, userID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}
