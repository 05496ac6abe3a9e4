// Package datamodel groups the gorm row types. The production schema is owned
// by the goose migrations under db/migrations; Models is used where the schema
// is derived from the row types instead (in-memory SQLite).
package datamodel

import (
	"github.com/frahmantamala/expense-approval/internal/core/datamodel/company"
	"github.com/frahmantamala/expense-approval/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
)

func Models() []interface{} {
	return []interface{}{
		&company.Company{},
		&user.User{},
		&expense.Expense{},
	}
}
