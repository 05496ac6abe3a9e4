package expense_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/core/datamodel/sqlitetest"
	"github.com/frahmantamala/expense-approval/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-approval/internal/expense/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Expense Service", func() {
	var (
		db      *gorm.DB
		service *expense.Service
		ctx     context.Context
	)

	validDTO := func() expense.CreateExpenseDTO {
		return expense.CreateExpenseDTO{
			Amount:      42.5,
			Currency:    "usd",
			Category:    " Travel ",
			Description: "Taxi to client",
			ExpenseDate: "2025-02-14",
		}
	}

	BeforeEach(func() {
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
		service = expense.NewService(expensePostgres.NewExpenseRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	AfterEach(func() {
		Expect(sqlitetest.Close(db)).To(Succeed())
	})

	Describe("Submit", func() {
		It("should create a pending expense", func() {
			created, err := service.Submit(ctx, 7, validDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.EmployeeID).To(Equal(int64(7)))
			Expect(created.Status).To(Equal(expense.StatusPending))
			Expect(created.Currency).To(Equal("USD"))
			Expect(created.Category).To(Equal("Travel"))
			Expect(created.ExpenseDate).To(Equal("2025-02-14"))
			Expect(created.Comments).To(BeNil())
			Expect(created.IsDecided()).To(BeFalse())
		})

		It("should keep amounts the column can hold exactly", func() {
			dto := validDTO()
			dto.Amount = 9999999999.99

			created, err := service.Submit(ctx, 7, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Amount).To(Equal(9999999999.99))

			dto.Amount = 10.01
			created, err = service.Submit(ctx, 7, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Amount).To(Equal(10.01))
		})

		DescribeTable("should reject invalid input",
			func(mutate func(*expense.CreateExpenseDTO), field string) {
				dto := validDTO()
				mutate(&dto)

				_, err := service.Submit(ctx, 7, dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
				details, ok := appErr.Details.(internal.ValidationErrors)
				Expect(ok).To(BeTrue())
				Expect(details.Errors[0].Field).To(Equal(field))

				mine, err := service.ListMine(ctx, 7)
				Expect(err).NotTo(HaveOccurred())
				Expect(mine).To(BeEmpty())
			},
			Entry("zero amount", func(d *expense.CreateExpenseDTO) { d.Amount = 0 }, "amount"),
			Entry("negative amount", func(d *expense.CreateExpenseDTO) { d.Amount = -3 }, "amount"),
			Entry("amount rounding to zero cents", func(d *expense.CreateExpenseDTO) { d.Amount = 0.001 }, "amount"),
			Entry("amount with sub-cent precision", func(d *expense.CreateExpenseDTO) { d.Amount = 10.005 }, "amount"),
			Entry("amount beyond the column precision", func(d *expense.CreateExpenseDTO) { d.Amount = 1e13 }, "amount"),
			Entry("currency too long", func(d *expense.CreateExpenseDTO) { d.Currency = "EURO" }, "currency"),
			Entry("currency with digits", func(d *expense.CreateExpenseDTO) { d.Currency = "U5D" }, "currency"),
			Entry("missing category", func(d *expense.CreateExpenseDTO) { d.Category = "  " }, "category"),
			Entry("malformed date", func(d *expense.CreateExpenseDTO) { d.ExpenseDate = "14/02/2025" }, "expense_date"),
			Entry("missing date", func(d *expense.CreateExpenseDTO) { d.ExpenseDate = "" }, "expense_date"),
		)
	})

	Describe("ListMine", func() {
		It("should return only the caller's expenses, newest expense date first", func() {
			for _, date := range []string{"2025-01-10", "2025-03-01", "2025-02-01"} {
				dto := validDTO()
				dto.ExpenseDate = date
				_, err := service.Submit(ctx, 7, dto)
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.Submit(ctx, 8, validDTO())
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.ListMine(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(3))
			Expect(mine[0].ExpenseDate).To(Equal("2025-03-01"))
			Expect(mine[1].ExpenseDate).To(Equal("2025-02-01"))
			Expect(mine[2].ExpenseDate).To(Equal("2025-01-10"))
		})

		It("should break ties on the same date by newest id", func() {
			first, err := service.Submit(ctx, 7, validDTO())
			Expect(err).NotTo(HaveOccurred())
			second, err := service.Submit(ctx, 7, validDTO())
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.ListMine(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine[0].ID).To(Equal(second.ID))
			Expect(mine[1].ID).To(Equal(first.ID))
		})

		It("should return an empty list, not null", func() {
			mine, err := service.ListMine(ctx, 99)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).NotTo(BeNil())
			Expect(mine).To(BeEmpty())
		})
	})
})
