package approval

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

func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	items, err := h.Service.ListQueue(r.Context(), id.UserID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	expenseID, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	exp, err := h.Service.Approve(r.Context(), expenseID, id.UserID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	expenseID, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	var dto RejectDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	exp, err := h.Service.Reject(r.Context(), expenseID, id.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "expenseId")
	expenseID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || expenseID <= 0 {
		h.WriteAppError(w, internal.NewValidationFieldError("expenseId", "expenseId must be a positive integer", internal.ErrCodeValidationFailed))
		return 0, false
	}
	return expenseID, true
}
