package auth

import (
	"context"
	"errors"
	"time"

	companyDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

// RepositoryAPI is the credential store used by the auth service.
type RepositoryAPI interface {
	// CreateCompanyWithAdmin inserts both rows in one transaction and fills in
	// their IDs. Returns ErrEmailExists when the admin's email is taken.
	CreateCompanyWithAdmin(ctx context.Context, company *companyDatamodel.Company, admin *userDatamodel.User) error
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// ResetPassword swaps the password hash and clears the reset fields, only
	// if tokenHash is stored and unexpired at now. Returns ErrResetTokenNotFound otherwise.
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) error
}

// TokenGenerator issues and verifies identity credentials.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, role string, companyID *int64) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"userId"`
	Role      string `json:"role"`
	CompanyID *int64 `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

type AuthResult struct {
	Token   string `json:"token"`
	UserID  int64  `json:"userId"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const (
	msgSignupSucceeded = "Company and Admin user created successfully!"
	msgLoginSucceeded  = "Logged in successfully!"
	msgResetRequested  = "If an account with that email exists, a password reset link has been sent."
	msgResetSucceeded  = "Password has been reset successfully."
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenNotFound = errors.New("reset token not found or expired")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
