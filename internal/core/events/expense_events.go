package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseApproved = "expense.approved"
	EventTypeExpenseRejected = "expense.rejected"
)

// ExpenseDecidedEvent is published after a manager's decision has been stored.
type ExpenseDecidedEvent struct {
	BaseEvent
	ExpenseID  int64   `json:"expense_id"`
	EmployeeID int64   `json:"employee_id"`
	ManagerID  int64   `json:"manager_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Comments   *string `json:"comments,omitempty"`
}

func NewExpenseDecidedEvent(eventType string, expenseID, employeeID, managerID int64, status string, amount float64, currency string, comments *string) *ExpenseDecidedEvent {
	return &ExpenseDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
		},
		ExpenseID:  expenseID,
		EmployeeID: employeeID,
		ManagerID:  managerID,
		Status:     status,
		Amount:     amount,
		Currency:   currency,
		Comments:   comments,
	}
}
