package user

import (
	"strings"

	"github.com/frahmantamala/expense-approval/internal/core/common/validation"
)

type CreateUserDTO struct {
	FullName  string `json:"fullName" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=ADMIN MANAGER EMPLOYEE"`
	ManagerID *int64 `json:"managerId" validate:"omitempty,gt=0"`
}

func (d *CreateUserDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Role = strings.ToUpper(strings.TrimSpace(d.Role))
}

func (d CreateUserDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// AssignManagerDTO sets or, with a null managerId, clears a manager.
type AssignManagerDTO struct {
	ManagerID *int64 `json:"managerId" validate:"omitempty,gt=0"`
}

func (d AssignManagerDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}
