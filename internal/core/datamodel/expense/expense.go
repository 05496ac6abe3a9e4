package expense

import "time"

type Expense struct {
	ID          int64     `gorm:"primaryKey"`
	EmployeeID  int64     `gorm:"column:employee_id;not null;index"`
	Amount      float64   `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency    string    `gorm:"column:currency;size:3;not null"`
	Category    string    `gorm:"column:category;not null"`
	Description string    `gorm:"column:description"`
	ExpenseDate time.Time `gorm:"column:expense_date;type:date;not null"`
	Status      string    `gorm:"column:status;not null;default:PENDING"`
	Comments    *string   `gorm:"column:comments"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}

// PendingExpense is an expense row joined with the owning employee's name.
type PendingExpense struct {
	Expense
	EmployeeName string `gorm:"column:employee_name"`
}
