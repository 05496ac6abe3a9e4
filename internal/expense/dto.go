package expense

import (
	"strings"
	"time"

	"github.com/frahmantamala/expense-approval/internal/core/common/validation"
)

// CreateExpenseDTO represents the request payload for creating an expense
type CreateExpenseDTO struct {
	Amount      float64 `json:"amount" validate:"gt=0,lt=10000000000,cents"`
	Currency    string  `json:"currency" validate:"required,len=3,alpha"`
	Category    string  `json:"category" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	ExpenseDate string  `json:"expense_date" validate:"required,datetime=2006-01-02"`
}

func (dto *CreateExpenseDTO) Normalize() {
	dto.Currency = strings.ToUpper(strings.TrimSpace(dto.Currency))
	dto.Category = strings.TrimSpace(dto.Category)
	dto.Description = strings.TrimSpace(dto.Description)
	dto.ExpenseDate = strings.TrimSpace(dto.ExpenseDate)
}

func (dto CreateExpenseDTO) Validate() error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	return nil
}

// Date parses ExpenseDate; call after Validate.
func (dto CreateExpenseDTO) Date() (time.Time, error) {
	return time.ParseInLocation(DateLayout, dto.ExpenseDate, time.UTC)
}
