package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/expense-approval/internal/core/datamodel"
	companyDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-approval/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return getByID(r.db.WithContext(ctx), id)
}

func (r *UserRepository) ListByCompany(ctx context.Context, companyID int64) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if datamodel.IsUniqueViolation(err) {
			return user.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) SetManager(ctx context.Context, companyID, userID int64, managerID *int64) (*userDatamodel.User, error) {
	var updated *userDatamodel.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCompany(tx, companyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}

		target, err := getByID(tx, userID)
		if err != nil {
			return err
		}
		if target.CompanyID != companyID {
			return user.ErrNotFound
		}

		if managerID != nil {
			if err := checkReportingLine(tx, companyID, userID, *managerID); err != nil {
				return err
			}
		}

		if err := tx.Model(target).Update("manager_id", managerID).Error; err != nil {
			return err
		}
		target.ManagerID = managerID
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// lockCompany takes a row lock on the company. Every SetManager in the company
// queues behind it, so each cycle walk reads the chain as committed by the
// previous assignment.
func lockCompany(tx *gorm.DB, companyID int64) *gorm.DB {
	var company companyDatamodel.Company
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Select("id").First(&company, companyID)
}

// checkReportingLine walks up from managerID and fails if the chain reaches
// userID or leaves the company.
func checkReportingLine(tx *gorm.DB, companyID, userID, managerID int64) error {
	seen := map[int64]bool{}
	next := &managerID
	for next != nil {
		if *next == userID {
			return user.ErrCycle
		}
		if seen[*next] {
			// pre-existing loop above us; it cannot contain userID
			return nil
		}
		seen[*next] = true

		current, err := getByID(tx, *next)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return user.ErrForeignManager
			}
			return err
		}
		if current.CompanyID != companyID {
			return user.ErrForeignManager
		}
		next = current.ManagerID
	}
	return nil
}

func getByID(db *gorm.DB, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
