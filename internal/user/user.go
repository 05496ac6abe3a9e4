package user

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/expense-approval/internal"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
)

type User struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ManagerID *int64    `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == internal.RoleAdmin
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	// SetManager points userID at managerID (nil clears it). Both users must
	// belong to companyID and the new reporting line must not close a loop.
	SetManager(ctx context.Context, companyID, userID int64, managerID *int64) (*userDatamodel.User, error)
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrForeignManager = errors.New("manager not found in company")
	ErrCycle          = errors.New("manager assignment would create a cycle")
)

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		ManagerID: u.ManagerID,
		CreatedAt: u.CreatedAt,
	}
}
