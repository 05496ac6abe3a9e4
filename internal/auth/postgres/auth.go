package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/expense-approval/internal/auth"
	"github.com/frahmantamala/expense-approval/internal/core/datamodel"
	companyDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreateCompanyWithAdmin(ctx context.Context, company *companyDatamodel.Company, admin *userDatamodel.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&userDatamodel.User{}).Where("email = ?", admin.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return auth.ErrEmailExists
		}

		if err := tx.Create(company).Error; err != nil {
			return err
		}

		admin.CompanyID = company.ID
		if err := tx.Create(admin).Error; err != nil {
			if datamodel.IsUniqueViolation(err) {
				return auth.ErrEmailExists
			}
			return err
		}
		return nil
	})
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetResetToken replaces any outstanding token for the user.
func (r *Repository) SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": expiresAt.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *Repository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now time.Time) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE users
		    SET password_hash = ?, reset_token_hash = NULL, reset_token_expires_at = NULL
		  WHERE reset_token_hash = ? AND reset_token_expires_at > ?`,
		passwordHash, tokenHash, now.UTC(),
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return auth.ErrResetTokenNotFound
	}
	return nil
}
