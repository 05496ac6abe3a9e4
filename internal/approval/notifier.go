package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/expense-approval/internal"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-approval/internal/core/events"
	"github.com/frahmantamala/expense-approval/internal/mail"
)

// EmployeeLookup resolves the recipient of a decision email.
type EmployeeLookup interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

// DecisionNotifier emails the employee when one of their expenses is decided.
type DecisionNotifier struct {
	users   EmployeeLookup
	mailer  mail.Sender
	timeout time.Duration
	logger  *slog.Logger
}

func NewDecisionNotifier(users EmployeeLookup, mailer mail.Sender, timeout time.Duration, logger *slog.Logger) *DecisionNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionNotifier{users: users, mailer: mailer, timeout: timeout, logger: logger}
}

func (n *DecisionNotifier) HandleExpenseDecided(ctx context.Context, event events.Event) error {
	decided, ok := event.(*events.ExpenseDecidedEvent)
	if !ok {
		return fmt.Errorf("expected ExpenseDecidedEvent, got %T", event)
	}

	employee, err := n.users.GetByID(ctx, decided.EmployeeID)
	if err != nil {
		return fmt.Errorf("lookup employee %d: %w", decided.EmployeeID, err)
	}

	mailCtx, cancel := internal.WithTimeout(ctx, n.timeout)
	defer cancel()

	subject := fmt.Sprintf("Expense #%d %s", decided.ExpenseID, strings.ToLower(decided.Status))
	if err := n.mailer.Send(mailCtx, employee.Email, subject, decisionBody(employee.FullName, decided)); err != nil {
		return fmt.Errorf("send decision email for expense %d: %w", decided.ExpenseID, err)
	}

	n.logger.InfoContext(ctx, "decision email sent",
		"expense_id", decided.ExpenseID,
		"employee_id", decided.EmployeeID,
		"event_id", decided.EventID())
	return nil
}

func (n *DecisionNotifier) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeExpenseApproved, n.HandleExpenseDecided)
	bus.Subscribe(events.EventTypeExpenseRejected, n.HandleExpenseDecided)
}

func decisionBody(name string, e *events.ExpenseDecidedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Your expense #%d of %.2f %s has been %s.\n", e.ExpenseID, e.Amount, e.Currency, strings.ToLower(e.Status))
	if e.Comments != nil && *e.Comments != "" {
		fmt.Fprintf(&b, "\nComments from your manager:\n%s\n", *e.Comments)
	}
	return b.String()
}
