package expense

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-approval/internal"
	expenseDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/expense"
)

type ServiceAPI interface {
	Submit(ctx context.Context, employeeID int64, dto CreateExpenseDTO) (*Expense, error)
	ListMine(ctx context.Context, employeeID int64) ([]*Expense, error)
}

// Service handles expense business logic
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

// NewService creates a new expense service
func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Submit records a new PENDING expense for the employee. Whether the employee
// has a manager is not checked; without one the expense sits in no queue.
func (s *Service) Submit(ctx context.Context, employeeID int64, dto CreateExpenseDTO) (*Expense, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	date, err := dto.Date()
	if err != nil {
		return nil, internal.NewValidationFieldError("expense_date", "expense_date must be a date in 2006-01-02 format", internal.ErrCodeValidationFailed)
	}

	model := &expenseDatamodel.Expense{
		EmployeeID:  employeeID,
		Amount:      dto.Amount,
		Currency:    dto.Currency,
		Category:    dto.Category,
		Description: dto.Description,
		ExpenseDate: date,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, model); err != nil {
		return nil, internal.NewInternalError("Server error while submitting expense.", err)
	}

	s.logger.InfoContext(ctx, "expense submitted",
		"expense_id", model.ID,
		"employee_id", employeeID,
		"amount", model.Amount,
		"currency", model.Currency)

	return FromDataModel(model), nil
}

// ListMine returns the employee's expenses, most recent expense date first.
func (s *Service) ListMine(ctx context.Context, employeeID int64) ([]*Expense, error) {
	rows, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, internal.NewInternalError("Server error while fetching expenses.", err)
	}

	out := make([]*Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}
