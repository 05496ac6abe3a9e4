package expense

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-approval/internal/transport"
	"github.com/frahmantamala/expense-approval/pkg/logger"
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	expense, err := h.Service.Submit(r.Context(), id.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) GetMyExpenses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	expenses, err := h.Service.ListMine(r.Context(), id.UserID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}
