package user_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/frahmantamala/expense-approval/internal"
	companyDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/company"
	"github.com/frahmantamala/expense-approval/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/expense-approval/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-approval/internal/user"
	userPostgres "github.com/frahmantamala/expense-approval/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("User Service", func() {
	var (
		db      *gorm.DB
		service *user.Service
		ctx     context.Context

		acme, globex *companyDatamodel.Company
		admin        *userDatamodel.User
	)

	seedCompany := func(name string) *companyDatamodel.Company {
		c := &companyDatamodel.Company{Name: name, DefaultCurrency: "USD"}
		Expect(db.Create(c).Error).To(Succeed())
		return c
	}

	seedUser := func(company *companyDatamodel.Company, email, role string, managerID *int64) *userDatamodel.User {
		u := &userDatamodel.User{
			CompanyID:    company.ID,
			FullName:     email,
			Email:        email,
			PasswordHash: "hash",
			Role:         role,
			ManagerID:    managerID,
		}
		Expect(db.Create(u).Error).To(Succeed())
		return u
	}

	managerOf := func(id int64) *int64 {
		var u userDatamodel.User
		Expect(db.First(&u, id).Error).To(Succeed())
		return u.ManagerID
	}

	ptr := func(v int64) *int64 { return &v }

	BeforeEach(func() {
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
		service = user.NewService(userPostgres.NewUserRepository(db), bcrypt.MinCost, slog.New(slog.NewTextHandler(io.Discard, nil)))

		acme = seedCompany("Acme")
		globex = seedCompany("Globex")
		admin = seedUser(acme, "admin@acme.test", internal.RoleAdmin, nil)
	})

	AfterEach(func() {
		Expect(sqlitetest.Close(db)).To(Succeed())
	})

	Describe("GetProfile", func() {
		It("should return the user without credentials", func() {
			profile, err := service.GetProfile(ctx, admin.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Email).To(Equal("admin@acme.test"))
			Expect(profile.IsAdmin()).To(BeTrue())
		})

		It("should report unknown users", func() {
			_, err := service.GetProfile(ctx, 4242)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("CreateUser", func() {
		It("should add a user to the admin's company under a manager", func() {
			manager, err := service.CreateUser(ctx, admin.ID, user.CreateUserDTO{
				FullName: "Manny Manager",
				Email:    " Manny@Acme.test",
				Password: "pw",
				Role:     "manager",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.CompanyID).To(Equal(acme.ID))
			Expect(manager.Email).To(Equal("manny@acme.test"))
			Expect(manager.Role).To(Equal(internal.RoleManager))

			employee, err := service.CreateUser(ctx, admin.ID, user.CreateUserDTO{
				FullName:  "Eve Employee",
				Email:     "eve@acme.test",
				Password:  "pw",
				Role:      internal.RoleEmployee,
				ManagerID: &manager.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*employee.ManagerID).To(Equal(manager.ID))

			var stored userDatamodel.User
			Expect(db.First(&stored, employee.ID).Error).To(Succeed())
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw"))).To(Succeed())
		})

		It("should refuse non-admin actors", func() {
			employee := seedUser(acme, "eve@acme.test", internal.RoleEmployee, nil)

			_, err := service.CreateUser(ctx, employee.ID, user.CreateUserDTO{
				FullName: "Mallory", Email: "mallory@acme.test", Password: "pw", Role: internal.RoleAdmin,
			})
			Expect(err).To(Equal(internal.ErrAdminRequired))
		})

		It("should refuse a manager from another company", func() {
			outsider := seedUser(globex, "boss@globex.test", internal.RoleManager, nil)

			_, err := service.CreateUser(ctx, admin.ID, user.CreateUserDTO{
				FullName: "Eve", Email: "eve@acme.test", Password: "pw", Role: internal.RoleEmployee, ManagerID: &outsider.ID,
			})
			Expect(err).To(Equal(internal.ErrInvalidManager))
		})

		It("should refuse a duplicate email", func() {
			_, err := service.CreateUser(ctx, admin.ID, user.CreateUserDTO{
				FullName: "Copy", Email: "ADMIN@acme.test", Password: "pw", Role: internal.RoleEmployee,
			})
			Expect(err).To(Equal(internal.ErrEmailTaken))
		})

		It("should validate the role", func() {
			_, err := service.CreateUser(ctx, admin.ID, user.CreateUserDTO{
				FullName: "Eve", Email: "eve@acme.test", Password: "pw", Role: "OWNER",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ListCompanyUsers", func() {
		It("should list only the admin's company", func() {
			seedUser(acme, "eve@acme.test", internal.RoleEmployee, nil)
			seedUser(globex, "boss@globex.test", internal.RoleManager, nil)

			users, err := service.ListCompanyUsers(ctx, admin.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			for _, u := range users {
				Expect(u.CompanyID).To(Equal(acme.ID))
			}
		})
	})

	Describe("AssignManager", func() {
		var manager, lead, employee *userDatamodel.User

		BeforeEach(func() {
			manager = seedUser(acme, "manny@acme.test", internal.RoleManager, nil)
			lead = seedUser(acme, "lead@acme.test", internal.RoleManager, &manager.ID)
			employee = seedUser(acme, "eve@acme.test", internal.RoleEmployee, nil)
		})

		It("should set and clear a manager", func() {
			updated, err := service.AssignManager(ctx, admin.ID, employee.ID, user.AssignManagerDTO{ManagerID: &lead.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.ManagerID).To(Equal(lead.ID))
			Expect(*managerOf(employee.ID)).To(Equal(lead.ID))

			updated, err = service.AssignManager(ctx, admin.ID, employee.ID, user.AssignManagerDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ManagerID).To(BeNil())
			Expect(managerOf(employee.ID)).To(BeNil())
		})

		It("should refuse self-management", func() {
			_, err := service.AssignManager(ctx, admin.ID, employee.ID, user.AssignManagerDTO{ManagerID: &employee.ID})
			Expect(err).To(Equal(internal.ErrManagerCycle))
		})

		It("should refuse a reporting cycle and keep the old manager", func() {
			// lead reports to manny, so manny reporting to lead closes a loop
			_, err := service.AssignManager(ctx, admin.ID, manager.ID, user.AssignManagerDTO{ManagerID: &lead.ID})
			Expect(err).To(Equal(internal.ErrManagerCycle))
			Expect(managerOf(manager.ID)).To(BeNil())
		})

		It("should refuse users and managers outside the company", func() {
			outsider := seedUser(globex, "boss@globex.test", internal.RoleManager, nil)

			_, err := service.AssignManager(ctx, admin.ID, employee.ID, user.AssignManagerDTO{ManagerID: &outsider.ID})
			Expect(err).To(Equal(internal.ErrInvalidManager))

			_, err = service.AssignManager(ctx, admin.ID, outsider.ID, user.AssignManagerDTO{ManagerID: &manager.ID})
			Expect(err).To(Equal(internal.ErrUserNotFound))

			_, err = service.AssignManager(ctx, admin.ID, employee.ID, user.AssignManagerDTO{ManagerID: ptr(9999)})
			Expect(err).To(Equal(internal.ErrInvalidManager))
		})

		It("should refuse non-admin actors", func() {
			_, err := service.AssignManager(ctx, manager.ID, employee.ID, user.AssignManagerDTO{ManagerID: &manager.ID})
			Expect(err).To(Equal(internal.ErrAdminRequired))
		})
	})
})
