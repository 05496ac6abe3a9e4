package auth

import (
	"strings"

	"github.com/frahmantamala/expense-approval/internal/core/common/validation"
)

type SignupDTO struct {
	CompanyName string `json:"companyName" validate:"required,max=200"`
	Currency    string `json:"currency" validate:"required,len=3,alpha"`
	FullName    string `json:"fullName" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

func (d *SignupDTO) Normalize() {
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = NormalizeEmail(d.Email)
}

func (d SignupDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (d LoginDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required"`
}

func (d ForgotPasswordDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type ResetPasswordDTO struct {
	Password string `json:"password" validate:"required"`
}

func (d ResetPasswordDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address; emails are stored and
// looked up in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
