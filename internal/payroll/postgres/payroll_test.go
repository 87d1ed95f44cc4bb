package postgres

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/payroll"
)

func TestPayrollRepository(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Payroll Repository Suite")
}

var _ = ginkgo.Describe("PayrollRepository", func() {
	var (
		db   *gorm.DB
		repo payroll.Repository
	)

	now := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)

	newRecord := func(employeeID int64, month, year int, gross int64) *payroll.Record {
		grossDec := decimal.NewFromInt(gross)
		deductions := payroll.Deductions{
			Tax:           grossDec.Mul(decimal.NewFromFloat(0.10)),
			ProvidentFund: grossDec.Mul(decimal.NewFromFloat(0.12)),
			Insurance:     decimal.NewFromInt(50),
			Loan:          decimal.Zero,
			Other:         decimal.Zero,
		}
		total := deductions.Total()
		return &payroll.Record{
			EmployeeID:      employeeID,
			Month:           month,
			Year:            year,
			WorkingDays:     20,
			OvertimeHours:   decimal.Zero,
			BasicSalary:     grossDec,
			Allowances:      map[string]decimal.Decimal{"housing": decimal.NewFromInt(500)},
			OvertimePay:     decimal.Zero,
			GrossSalary:     grossDec,
			Deductions:      deductions,
			TotalDeductions: total,
			NetSalary:       grossDec.Sub(total),
			Status:          payroll.StatusPending,
			ProcessedBy:     42,
			ProcessedAt:     now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	ginkgo.BeforeEach(func() {
		// Use in-memory SQLite for testing
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		err = db.AutoMigrate(&payrollDatamodel.Payroll{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		repo = NewPayrollRepository(db)
	})

	ginkgo.Describe("CreateBatch", func() {
		ginkgo.It("inserts all records and assigns IDs", func() {
			records := []*payroll.Record{
				newRecord(1, 3, 2026, 3000),
				newRecord(2, 3, 2026, 2500),
			}

			err := repo.CreateBatch(records)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(records[0].ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(records[1].ID).To(gomega.BeNumerically(">", 0))
		})

		ginkgo.It("rejects a duplicate employee-period pair", func() {
			gomega.Expect(repo.CreateBatch([]*payroll.Record{newRecord(1, 3, 2026, 3000)})).To(gomega.Succeed())

			err := repo.CreateBatch([]*payroll.Record{newRecord(1, 3, 2026, 3000)})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("persists no rows when one insert in the batch fails", func() {
			gomega.Expect(repo.CreateBatch([]*payroll.Record{newRecord(2, 3, 2026, 2500)})).To(gomega.Succeed())

			// Second record collides with the existing row, so the whole
			// transaction must roll back including the first record.
			err := repo.CreateBatch([]*payroll.Record{
				newRecord(3, 3, 2026, 4000),
				newRecord(2, 3, 2026, 2500),
			})
			gomega.Expect(err).To(gomega.HaveOccurred())

			exists, err := repo.ExistsForPeriod(3, 2026, []int64{3})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("ExistsForPeriod", func() {
		ginkgo.BeforeEach(func() {
			gomega.Expect(repo.CreateBatch([]*payroll.Record{newRecord(1, 3, 2026, 3000)})).To(gomega.Succeed())
		})

		ginkgo.It("detects an existing record in the target set", func() {
			exists, err := repo.ExistsForPeriod(3, 2026, []int64{1, 2})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeTrue())
		})

		ginkgo.It("ignores records outside the target set", func() {
			exists, err := repo.ExistsForPeriod(3, 2026, []int64{2, 3})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeFalse())
		})

		ginkgo.It("ignores other periods", func() {
			exists, err := repo.ExistsForPeriod(4, 2026, []int64{1})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("UpdateStatusIfPending", func() {
		var record *payroll.Record

		ginkgo.BeforeEach(func() {
			record = newRecord(1, 3, 2026, 3000)
			gomega.Expect(repo.CreateBatch([]*payroll.Record{record})).To(gomega.Succeed())
		})

		ginkgo.It("applies the transition while the record is pending", func() {
			gomega.Expect(record.Approve(9, now)).To(gomega.Succeed())

			updated, err := repo.UpdateStatusIfPending(record)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated).To(gomega.BeTrue())

			stored, err := repo.GetByID(record.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Status).To(gomega.Equal(payroll.StatusApproved))
			gomega.Expect(*stored.ApprovedBy).To(gomega.Equal(int64(9)))
		})

		ginkgo.It("updates nothing once the record left pending", func() {
			gomega.Expect(record.Approve(9, now)).To(gomega.Succeed())
			updated, err := repo.UpdateStatusIfPending(record)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated).To(gomega.BeTrue())

			// A losing reject attempt sees zero rows affected.
			loser, err := repo.GetByID(record.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			loser.Status = payroll.StatusRejected
			reason := "too slow"
			loser.RejectedBy = &record.ProcessedBy
			loser.RejectionReason = &reason

			updated, err = repo.UpdateStatusIfPending(loser)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated).To(gomega.BeFalse())

			stored, err := repo.GetByID(record.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Status).To(gomega.Equal(payroll.StatusApproved))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			a := newRecord(1, 3, 2026, 3000)
			b := newRecord(2, 3, 2026, 2500)
			c := newRecord(1, 4, 2026, 3000)
			gomega.Expect(repo.CreateBatch([]*payroll.Record{a, b, c})).To(gomega.Succeed())

			gomega.Expect(b.Approve(9, now)).To(gomega.Succeed())
			updated, err := repo.UpdateStatusIfPending(b)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated).To(gomega.BeTrue())
		})

		ginkgo.It("filters by period and sums over the whole filtered set", func() {
			query := payroll.ListQuery{Month: 3, Year: 2026, Page: 1, Limit: 1}
			query.Normalize()

			records, total, totals, err := repo.List(query)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(records).To(gomega.HaveLen(1))
			gomega.Expect(total).To(gomega.Equal(int64(2)))
			gomega.Expect(totals.TotalGrossSalary.Equal(decimal.NewFromInt(5500))).To(gomega.BeTrue())
		})

		ginkgo.It("filters by status", func() {
			query := payroll.ListQuery{Status: payroll.StatusApproved}
			query.Normalize()

			records, total, _, err := repo.List(query)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(int64(1)))
			gomega.Expect(records[0].EmployeeID).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("filters by employee set", func() {
			query := payroll.ListQuery{EmployeeIDs: []int64{1}}
			query.Normalize()

			_, total, _, err := repo.List(query)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("round-trips the allowance snapshot", func() {
			query := payroll.ListQuery{Month: 4, Year: 2026}
			query.Normalize()

			records, _, _, err := repo.List(query)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(records).To(gomega.HaveLen(1))
			gomega.Expect(records[0].Allowances["housing"].Equal(decimal.NewFromInt(500))).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("YearlySummary", func() {
		ginkgo.It("groups by month in ascending order", func() {
			gomega.Expect(repo.CreateBatch([]*payroll.Record{
				newRecord(1, 7, 2026, 3000),
				newRecord(2, 7, 2026, 2500),
				newRecord(1, 3, 2026, 3000),
				newRecord(1, 12, 2025, 9999),
			})).To(gomega.Succeed())

			summaries, err := repo.YearlySummary(2026)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(summaries).To(gomega.HaveLen(2))

			gomega.Expect(summaries[0].Month).To(gomega.Equal(3))
			gomega.Expect(summaries[0].TotalEmployees).To(gomega.Equal(int64(1)))
			gomega.Expect(summaries[1].Month).To(gomega.Equal(7))
			gomega.Expect(summaries[1].TotalEmployees).To(gomega.Equal(int64(2)))
			gomega.Expect(summaries[1].TotalGrossSalary.Equal(decimal.NewFromInt(5500))).To(gomega.BeTrue())
		})

		ginkgo.It("returns an empty slice for a year with no records", func() {
			summaries, err := repo.YearlySummary(2030)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(summaries).To(gomega.BeEmpty())
		})
	})
})
