package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/auth"
	authPostgres "github.com/frahmantamala/expense-approval/internal/auth/postgres"
	companyDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/company"
	expenseDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/expense"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-approval/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-approval/internal/expense/postgres"
	"github.com/frahmantamala/expense-approval/internal/user"
	userPostgres "github.com/frahmantamala/expense-approval/internal/user/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	seedPassword      = "password"
	seedAdminEmail    = "padil@mail.com"
	seedManagerEmail  = "manager@mail.com"
	seedEmployeeEmail = "fadhil@mail.com"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed a demo company with an admin, a manager and an employee reporting to that manager.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()

		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seed(ctx, db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	},
}

func seed(ctx context.Context, db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	authRepo := authPostgres.NewRepository(db)
	userRepo := userPostgres.NewUserRepository(db)

	admin, err := authRepo.GetByEmail(ctx, seedAdminEmail)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		admin = &userDatamodel.User{
			FullName:     "Padil Admin",
			Email:        seedAdminEmail,
			PasswordHash: string(hash),
			Role:         internal.RoleAdmin,
		}
		company := &companyDatamodel.Company{Name: "Demo Company", DefaultCurrency: "IDR"}
		if err := authRepo.CreateCompanyWithAdmin(ctx, company, admin); err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		fmt.Println("Seeded company and admin:", seedAdminEmail)
	case err != nil:
		return fmt.Errorf("lookup admin: %w", err)
	default:
		fmt.Println("admin user already exists:", seedAdminEmail)
	}

	manager, err := ensureUser(ctx, authRepo, userRepo, &userDatamodel.User{
		CompanyID:    admin.CompanyID,
		FullName:     "Manny Manager",
		Email:        seedManagerEmail,
		PasswordHash: string(hash),
		Role:         internal.RoleManager,
	})
	if err != nil {
		return err
	}

	employee, err := ensureUser(ctx, authRepo, userRepo, &userDatamodel.User{
		CompanyID:    admin.CompanyID,
		FullName:     "Fadhil",
		Email:        seedEmployeeEmail,
		PasswordHash: string(hash),
		Role:         internal.RoleEmployee,
		ManagerID:    &manager.ID,
	})
	if err != nil {
		return err
	}

	expenseRepo := expensePostgres.NewExpenseRepository(db)
	existing, err := expenseRepo.ListByEmployee(ctx, employee.ID)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	if len(existing) > 0 {
		fmt.Println("sample expenses already exist")
		return nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	samples := []*expenseDatamodel.Expense{
		{EmployeeID: employee.ID, Amount: 150000, Currency: "IDR", Category: "travel", Description: "Taxi to client office", ExpenseDate: today.AddDate(0, 0, -2)},
		{EmployeeID: employee.ID, Amount: 85000, Currency: "IDR", Category: "meals", Description: "Team lunch", ExpenseDate: today.AddDate(0, 0, -1)},
	}
	for _, e := range samples {
		e.Status = expense.StatusPending
		if err := expenseRepo.Create(ctx, e); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
	}
	fmt.Printf("Seeded %d pending expenses for %s\n", len(samples), seedEmployeeEmail)

	fmt.Printf("All seeded users sign in with password %q\n", seedPassword)
	return nil
}

func ensureUser(ctx context.Context, authRepo *authPostgres.Repository, userRepo *userPostgres.UserRepository, u *userDatamodel.User) (*userDatamodel.User, error) {
	existing, err := authRepo.GetByEmail(ctx, u.Email)
	if err == nil {
		fmt.Println("user already exists:", u.Email)
		return existing, nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", u.Email, err)
	}

	if err := userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return authRepo.GetByEmail(ctx, u.Email)
		}
		return nil, fmt.Errorf("create %s: %w", u.Email, err)
	}
	fmt.Println("Seeded user:", u.Email)
	return u, nil
}

func clearSeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"expenses", "users", "companies"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
