package approval

import (
	"context"
	"errors"

	expenseDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-approval/internal/expense"
)

// QueueItem is a pending expense as shown to the approving manager.
type QueueItem struct {
	expense.Expense
	EmployeeName string `json:"employee_name"`
}

type RepositoryAPI interface {
	ListPendingForManager(ctx context.Context, managerID int64) ([]*expenseDatamodel.PendingExpense, error)
	// Decide moves a PENDING expense owned by one of the manager's direct
	// reports to status in a single conditional update and returns the
	// updated row. A nil comments leaves the stored comments untouched.
	Decide(ctx context.Context, expenseID, managerID int64, status string, comments *string) (*expenseDatamodel.Expense, error)
}

// ErrNoMatchingExpense means the guarded update matched no row: the expense
// does not exist, is already decided, or does not belong to a direct report.
var ErrNoMatchingExpense = errors.New("no pending expense matches for this manager")

func queueItemFromDataModel(m *expenseDatamodel.PendingExpense) *QueueItem {
	return &QueueItem{
		Expense:      *expense.FromDataModel(&m.Expense),
		EmployeeName: m.EmployeeName,
	}
}
