package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/expense-approval/internal"
	companyDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-approval/internal/mail"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Signup(ctx context.Context, dto SignupDTO) (*AuthResult, error)
	Login(ctx context.Context, dto LoginDTO) (*AuthResult, error)
	ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) (*MessageResponse, error)
	ResetPassword(ctx context.Context, token string, dto ResetPasswordDTO) (*MessageResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Options struct {
	BCryptCost      int
	ResetTokenTTL   time.Duration
	FrontendBaseURL string
	MailTimeout     time.Duration
	Now             func() time.Time
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	mailer         mail.Sender
	opts           Options
	logger         *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, mailer mail.Sender, opts Options, logger *slog.Logger) *Service {
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		mailer:         mailer,
		opts:           opts,
		logger:         logger,
	}
}

func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*AuthResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("Server error during signup.", err)
	}

	company := &companyDatamodel.Company{
		Name:            dto.CompanyName,
		DefaultCurrency: dto.Currency,
	}
	admin := &userDatamodel.User{
		FullName:     dto.FullName,
		Email:        dto.Email,
		PasswordHash: passwordHash,
		Role:         internal.RoleAdmin,
	}

	if err := s.repo.CreateCompanyWithAdmin(ctx, company, admin); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, internal.ErrEmailTaken
		}
		return nil, internal.NewInternalError("Server error during signup.", err)
	}

	token, err := s.tokenGenerator.GenerateAccessToken(admin.ID, admin.Role, nil)
	if err != nil {
		return nil, internal.NewInternalError("Server error during signup.", err)
	}

	s.logger.InfoContext(ctx, "company provisioned", "company_id", company.ID, "user_id", admin.ID)

	return &AuthResult{Token: token, UserID: admin.ID, Message: msgSignupSucceeded}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail with the
// same error after the same amount of hashing work.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthResult, error) {
	dto.Email = NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(dto.Password))
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("Server error during login.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	companyID := user.CompanyID
	token, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Role, &companyID)
	if err != nil {
		return nil, internal.NewInternalError("Server error during login.", err)
	}

	return &AuthResult{Token: token, UserID: user.ID, Message: msgLoginSucceeded}, nil
}

// ForgotPassword answers with the same acknowledgment whether or not the email
// belongs to an account. The reset token is stored before the mail goes out;
// a failed send leaves it valid until expiry or until a newer request replaces it.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) (*MessageResponse, error) {
	dto.Email = NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ack := &MessageResponse{Message: msgResetRequested}

	user, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ack, nil
		}
		return nil, internal.NewInternalError("Server error.", err)
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return nil, internal.NewInternalError("Server error.", err)
	}

	expiresAt := s.now().Add(s.opts.ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, hashResetToken(token), expiresAt); err != nil {
		return nil, internal.NewInternalError("Server error.", err)
	}

	mailCtx, cancel := internal.WithTimeout(ctx, s.opts.MailTimeout)
	defer cancel()

	if err := s.mailer.Send(mailCtx, user.Email, resetSubject, s.resetBody(token)); err != nil {
		s.logger.ErrorContext(ctx, "failed to send password reset email", "user_id", user.ID, "error", err)
		return ack, nil
	}

	s.logger.InfoContext(ctx, "password reset email sent", "user_id", user.ID)
	return ack, nil
}

// ResetPassword consumes a reset token. Unknown, expired and already used
// tokens are indistinguishable to the caller.
func (s *Service) ResetPassword(ctx context.Context, token string, dto ResetPasswordDTO) (*MessageResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, internal.ErrResetTokenInvalid
	}

	passwordHash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("Server error.", err)
	}

	if err := s.repo.ResetPassword(ctx, hashResetToken(token), passwordHash, s.now()); err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return nil, internal.ErrResetTokenInvalid
		}
		return nil, internal.NewInternalError("Server error.", err)
	}

	return &MessageResponse{Message: msgResetSucceeded}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BCryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.opts.BCryptCost)
	})
	return s.dummyHash
}

func (s *Service) now() time.Time {
	return s.opts.Now().UTC()
}

const resetSubject = "Password Reset Request"

func (s *Service) resetBody(token string) string {
	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.opts.FrontendBaseURL, "/"), token)
	return fmt.Sprintf("You requested a password reset. Open the link below to choose a new password. "+
		"The link expires in %s.\n\n%s\n\nIf you did not request this, you can ignore this email.\n",
		s.opts.ResetTokenTTL, link)
}

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hashResetToken is the lookup key stored for a reset token.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
