package expense

import (
	"context"
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/expense"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const DateLayout = "2006-01-02"

type Expense struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employee_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ExpenseDate string    `json:"expense_date"`
	Status      string    `json:"status"`
	Comments    *string   `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsDecided reports whether the expense has left PENDING. APPROVED and
// REJECTED are terminal.
func (e *Expense) IsDecided() bool {
	return e.Status == StatusApproved || e.Status == StatusRejected
}

type RepositoryAPI interface {
	Create(ctx context.Context, exp *expenseDatamodel.Expense) error
	ListByEmployee(ctx context.Context, employeeID int64) ([]*expenseDatamodel.Expense, error)
}

func FromDataModel(m *expenseDatamodel.Expense) *Expense {
	if m == nil {
		return nil
	}
	return &Expense{
		ID:          m.ID,
		EmployeeID:  m.EmployeeID,
		Amount:      m.Amount,
		Currency:    m.Currency,
		Category:    m.Category,
		Description: m.Description,
		ExpenseDate: m.ExpenseDate.Format(DateLayout),
		Status:      m.Status,
		Comments:    m.Comments,
		CreatedAt:   m.CreatedAt,
	}
}
