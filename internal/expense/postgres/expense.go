package postgres

import (
	"context"

	expenseDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.RepositoryAPI interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create saves a new expense to the database
func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

// ListByEmployee retrieves every expense the employee submitted
func (r *ExpenseRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("expense_date DESC").
		Order("id DESC").
		Find(&expenses).Error
	return expenses, err
}
