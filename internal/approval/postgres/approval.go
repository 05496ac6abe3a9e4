package postgres

import (
	"context"

	"github.com/frahmantamala/expense-approval/internal/approval"
	expenseDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-approval/internal/expense"
	"gorm.io/gorm"
)

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

const pendingForManagerQuery = `
	SELECT e.*, u.full_name AS employee_name
	  FROM expenses e
	  JOIN users u ON e.employee_id = u.id
	 WHERE u.manager_id = ? AND e.status = ?
	 ORDER BY e.created_at DESC, e.id DESC`

func (r *ApprovalRepository) ListPendingForManager(ctx context.Context, managerID int64) ([]*expenseDatamodel.PendingExpense, error) {
	var rows []*expenseDatamodel.PendingExpense
	err := r.db.WithContext(ctx).Raw(pendingForManagerQuery, managerID, expense.StatusPending).Scan(&rows).Error
	return rows, err
}

// The status predicate and the reporting-line check live in the UPDATE itself,
// so of two racing decisions at most one matches.
const decideStatement = `
	UPDATE expenses
	   SET status = ?, comments = COALESCE(?, comments)
	 WHERE id = ?
	   AND status = ?
	   AND employee_id IN (SELECT id FROM users WHERE manager_id = ?)`

func (r *ApprovalRepository) Decide(ctx context.Context, expenseID, managerID int64, status string, comments *string) (*expenseDatamodel.Expense, error) {
	var decided expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(decideStatement, status, comments, expenseID, expense.StatusPending, managerID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return approval.ErrNoMatchingExpense
		}
		return tx.First(&decided, expenseID).Error
	})
	if err != nil {
		return nil, err
	}
	return &decided, nil
}
