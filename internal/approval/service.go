package approval

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/core/events"
	"github.com/frahmantamala/expense-approval/internal/expense"
)

type ServiceAPI interface {
	ListQueue(ctx context.Context, managerID int64) ([]*QueueItem, error)
	Approve(ctx context.Context, expenseID, managerID int64) (*expense.Expense, error)
	Reject(ctx context.Context, expenseID, managerID int64, dto RejectDTO) (*expense.Expense, error)
}

// Publisher receives decision events once the decision is stored. It may be nil.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) int
}

type Service struct {
	repo      RepositoryAPI
	publisher Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// ListQueue returns the PENDING expenses of the manager's direct reports,
// newest first.
func (s *Service) ListQueue(ctx context.Context, managerID int64) ([]*QueueItem, error) {
	rows, err := s.repo.ListPendingForManager(ctx, managerID)
	if err != nil {
		return nil, internal.NewInternalError("Server error while fetching approval queue.", err)
	}

	items := make([]*QueueItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, queueItemFromDataModel(row))
	}
	return items, nil
}

func (s *Service) Approve(ctx context.Context, expenseID, managerID int64) (*expense.Expense, error) {
	return s.decide(ctx, expenseID, managerID, expense.StatusApproved, nil)
}

// Reject requires non-blank comments; blank comments are refused before any
// write.
func (s *Service) Reject(ctx context.Context, expenseID, managerID int64, dto RejectDTO) (*expense.Expense, error) {
	comments := dto.TrimmedComments()
	if comments == "" {
		return nil, internal.ErrCommentsRequired
	}
	return s.decide(ctx, expenseID, managerID, expense.StatusRejected, &comments)
}

func (s *Service) decide(ctx context.Context, expenseID, managerID int64, status string, comments *string) (*expense.Expense, error) {
	row, err := s.repo.Decide(ctx, expenseID, managerID, status, comments)
	if err != nil {
		if errors.Is(err, ErrNoMatchingExpense) {
			return nil, internal.ErrNotFoundOrForbidden
		}
		return nil, internal.NewInternalError("Server error while deciding expense.", err)
	}

	s.logger.InfoContext(ctx, "expense decided",
		"expense_id", expenseID,
		"manager_id", managerID,
		"status", status)

	decided := expense.FromDataModel(row)
	s.publishDecision(ctx, decided, managerID)

	return decided, nil
}

// publishDecision never affects the outcome of the decision itself.
func (s *Service) publishDecision(ctx context.Context, e *expense.Expense, managerID int64) {
	if s.publisher == nil {
		return
	}

	eventType := events.EventTypeExpenseApproved
	if e.Status == expense.StatusRejected {
		eventType = events.EventTypeExpenseRejected
	}

	event := events.NewExpenseDecidedEvent(eventType, e.ID, e.EmployeeID, managerID, e.Status, e.Amount, e.Currency, e.Comments)
	if failed := s.publisher.Publish(ctx, event); failed > 0 {
		s.logger.WarnContext(ctx, "decision event not fully handled",
			"expense_id", e.ID,
			"event_id", event.EventID(),
			"failed_handlers", failed)
	}
}
