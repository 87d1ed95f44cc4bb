package payroll_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/attendance"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/employee"
	"github.com/frahmantamala/payroll-management/internal/payroll"
	"github.com/frahmantamala/payroll-management/internal/tax"
)

// Mock repository for testing
type mockPayrollRepository struct {
	records        map[int64]*payroll.Record
	nextID         int64
	createError    error
	existsError    error
	conditionalErr error
}

func newMockPayrollRepository() *mockPayrollRepository {
	return &mockPayrollRepository{
		records: make(map[int64]*payroll.Record),
		nextID:  1,
	}
}

func (m *mockPayrollRepository) CreateBatch(records []*payroll.Record) error {
	if m.createError != nil {
		return m.createError
	}
	for _, record := range records {
		record.ID = m.nextID
		m.nextID++
		copied := *record
		m.records[record.ID] = &copied
	}
	return nil
}

func (m *mockPayrollRepository) GetByID(id int64) (*payroll.Record, error) {
	record, exists := m.records[id]
	if !exists {
		return nil, errors.New("payroll not found")
	}
	copied := *record
	return &copied, nil
}

func (m *mockPayrollRepository) ExistsForPeriod(month, year int, employeeIDs []int64) (bool, error) {
	if m.existsError != nil {
		return false, m.existsError
	}
	targets := make(map[int64]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		targets[id] = true
	}
	for _, record := range m.records {
		if record.Month == month && record.Year == year && (len(targets) == 0 || targets[record.EmployeeID]) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPayrollRepository) UpdateStatusIfPending(record *payroll.Record) (bool, error) {
	if m.conditionalErr != nil {
		return false, m.conditionalErr
	}
	stored, exists := m.records[record.ID]
	if !exists || stored.Status != payroll.StatusPending {
		return false, nil
	}
	copied := *record
	m.records[record.ID] = &copied
	return true, nil
}

func (m *mockPayrollRepository) List(query payroll.ListQuery) ([]*payroll.Record, int64, payroll.Totals, error) {
	var result []*payroll.Record
	totals := payroll.Totals{
		TotalGrossSalary: decimal.Zero,
		TotalDeductions:  decimal.Zero,
		TotalNetSalary:   decimal.Zero,
	}
	for _, record := range m.records {
		if query.Month > 0 && record.Month != query.Month {
			continue
		}
		if query.Year > 0 && record.Year != query.Year {
			continue
		}
		if query.Status != "" && record.Status != query.Status {
			continue
		}
		result = append(result, record)
		totals.TotalGrossSalary = totals.TotalGrossSalary.Add(record.GrossSalary)
		totals.TotalDeductions = totals.TotalDeductions.Add(record.TotalDeductions)
		totals.TotalNetSalary = totals.TotalNetSalary.Add(record.NetSalary)
	}
	return result, int64(len(result)), totals, nil
}

func (m *mockPayrollRepository) YearlySummary(year int) ([]*payroll.MonthlySummary, error) {
	return []*payroll.MonthlySummary{}, nil
}

type mockEmployeeDirectory struct {
	employees map[int64]*employee.Employee
	byDept    map[string][]int64
}

func newMockEmployeeDirectory(emps ...*employee.Employee) *mockEmployeeDirectory {
	m := &mockEmployeeDirectory{
		employees: make(map[int64]*employee.Employee),
		byDept:    make(map[string][]int64),
	}
	for _, emp := range emps {
		m.employees[emp.ID] = emp
		m.byDept[emp.Department] = append(m.byDept[emp.Department], emp.ID)
	}
	return m
}

func (m *mockEmployeeDirectory) GetByID(id int64) (*employee.Employee, error) {
	emp, exists := m.employees[id]
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *mockEmployeeDirectory) GetByIDs(ids []int64) ([]*employee.Employee, error) {
	var result []*employee.Employee
	for _, id := range ids {
		if emp, exists := m.employees[id]; exists {
			result = append(result, emp)
		}
	}
	return result, nil
}

func (m *mockEmployeeDirectory) GetActive() ([]*employee.Employee, error) {
	var result []*employee.Employee
	for _, emp := range m.employees {
		if emp.Status == employee.StatusActive {
			result = append(result, emp)
		}
	}
	return result, nil
}

func (m *mockEmployeeDirectory) GetIDsByDepartment(department string) ([]int64, error) {
	return m.byDept[department], nil
}

type mockAggregator struct {
	summaries map[int64]*attendance.Summary
	err       error
}

func (m *mockAggregator) Summarize(employeeID int64, periodStart, periodEnd time.Time) (*attendance.Summary, error) {
	if m.err != nil {
		return nil, m.err
	}
	if summary, exists := m.summaries[employeeID]; exists {
		return summary, nil
	}
	return &attendance.Summary{OvertimeHours: decimal.Zero}, nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) eventTypes() []string {
	types := make([]string, len(m.published))
	for i, event := range m.published {
		types[i] = event.EventType()
	}
	return types
}

var _ = Describe("Service", func() {
	var (
		repo      *mockPayrollRepository
		directory *mockEmployeeDirectory
		agg       *mockAggregator
		bus       *mockPublisher
		service   *payroll.Service

		admin   *internal.Actor
		officer *internal.Actor
		worker  *internal.Actor
	)

	newEmployee := func(id int64, dept, bracket string) *employee.Employee {
		return &employee.Employee{
			ID:               id,
			Department:       dept,
			Status:           employee.StatusActive,
			BasicSalary:      decimal.NewFromInt(3000),
			HourlyRate:       decimal.NewFromInt(20),
			InsurancePremium: decimal.NewFromInt(50),
			TaxBracket:       bracket,
		}
	}

	BeforeEach(func() {
		repo = newMockPayrollRepository()
		directory = newMockEmployeeDirectory(
			newEmployee(1, "engineering", "standard"),
			newEmployee(2, "finance", "low"),
		)
		agg = &mockAggregator{summaries: map[int64]*attendance.Summary{
			1: {WorkingDays: 20, AbsentDays: 2, OvertimeHours: decimal.NewFromInt(10)},
			2: {WorkingDays: 22, OvertimeHours: decimal.Zero},
		}}
		bus = &mockPublisher{}

		calculator := payroll.NewCalculator(tax.NewBracketCalculator(tax.DefaultBrackets()), testLogger())
		service = payroll.NewService(repo, directory, agg, calculator, bus, testLogger())

		admin = &internal.Actor{ID: 100, Role: "admin"}
		officer = &internal.Actor{ID: 101, Role: "payroll"}
		worker = &internal.Actor{ID: 102, Role: "employee", EmployeeID: 2}
	})

	Describe("ProcessBatch", func() {
		It("creates one pending record per active employee", func() {
			records, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026}, officer)
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(2))

			for _, record := range records {
				Expect(record.Status).To(Equal(payroll.StatusPending))
				Expect(record.ID).To(BeNumerically(">", 0))
				Expect(record.ProcessedBy).To(Equal(officer.ID))
			}

			Expect(bus.eventTypes()).To(ContainElement(events.EventPayrollProcessed))
		})

		It("processes only the requested employees", func() {
			records, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026, EmployeeIDs: []int64{2}}, officer)
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].EmployeeID).To(Equal(int64(2)))
		})

		It("fails when a requested employee does not exist", func() {
			_, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026, EmployeeIDs: []int64{1, 99}}, officer)
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
			Expect(repo.records).To(BeEmpty())
		})

		Context("when the period was already processed", func() {
			It("returns a conflict and creates nothing", func() {
				_, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026}, officer)
				Expect(err).ToNot(HaveOccurred())
				created := len(repo.records)

				_, err = service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026}, officer)
				Expect(err).To(MatchError(internal.ErrPayrollAlreadyExists))
				Expect(repo.records).To(HaveLen(created))
			})

			It("allows a different period", func() {
				_, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026}, officer)
				Expect(err).ToNot(HaveOccurred())

				records, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 4, Year: 2026}, officer)
				Expect(err).ToNot(HaveOccurred())
				Expect(records).To(HaveLen(2))
			})
		})

		Context("when one employee fails to compute", func() {
			It("aborts the whole batch", func() {
				directory.employees[2].TaxBracket = "platinum"

				_, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026}, officer)
				Expect(err).To(HaveOccurred())

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeComputation))
				Expect(repo.records).To(BeEmpty())
				Expect(bus.published).To(BeEmpty())
			})
		})

		Context("with invalid input", func() {
			It("rejects a missing period", func() {
				_, err := service.ProcessBatch(payroll.ProcessPayrollDTO{}, officer)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Message).To(Equal("Month and year are required"))
			})

			It("rejects month 13", func() {
				_, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 13, Year: 2026}, officer)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})
		})
	})

	Describe("Approve", func() {
		var recordID int64

		BeforeEach(func() {
			records, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026, EmployeeIDs: []int64{1}}, officer)
			Expect(err).ToNot(HaveOccurred())
			recordID = records[0].ID
			bus.published = nil
		})

		It("moves a pending record to approved and emits the event", func() {
			record, err := service.Approve(recordID, admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(record.Status).To(Equal(payroll.StatusApproved))
			Expect(*record.ApprovedBy).To(Equal(admin.ID))

			stored, _ := repo.GetByID(recordID)
			Expect(stored.Status).To(Equal(payroll.StatusApproved))
			Expect(bus.eventTypes()).To(Equal([]string{events.EventPayrollApproved}))
		})

		It("fails on an already approved record and leaves it unchanged", func() {
			_, err := service.Approve(recordID, admin)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Approve(recordID, admin)
			Expect(err).To(MatchError(internal.ErrInvalidStateTransition))

			stored, _ := repo.GetByID(recordID)
			Expect(stored.Status).To(Equal(payroll.StatusApproved))
		})

		It("fails when the record does not exist", func() {
			_, err := service.Approve(9999, admin)
			Expect(err).To(MatchError(internal.ErrPayrollNotFound))
		})
	})

	Describe("Reject", func() {
		var recordID int64

		BeforeEach(func() {
			records, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026, EmployeeIDs: []int64{1}}, officer)
			Expect(err).ToNot(HaveOccurred())
			recordID = records[0].ID
			bus.published = nil
		})

		It("requires a reason", func() {
			_, err := service.Reject(recordID, payroll.RejectPayrollDTO{}, admin)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("moves a pending record to rejected with the reason", func() {
			record, err := service.Reject(recordID, payroll.RejectPayrollDTO{Reason: "attendance data incomplete"}, admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(record.Status).To(Equal(payroll.StatusRejected))
			Expect(*record.RejectionReason).To(Equal("attendance data incomplete"))
			Expect(bus.eventTypes()).To(Equal([]string{events.EventPayrollRejected}))
		})

		It("fails on a rejected record", func() {
			_, err := service.Reject(recordID, payroll.RejectPayrollDTO{Reason: "first"}, admin)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Reject(recordID, payroll.RejectPayrollDTO{Reason: "second"}, admin)
			Expect(err).To(MatchError(internal.ErrInvalidStateTransition))

			stored, _ := repo.GetByID(recordID)
			Expect(*stored.RejectionReason).To(Equal("first"))
		})
	})

	Describe("Get", func() {
		var ownRecordID, otherRecordID int64

		BeforeEach(func() {
			records, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026}, officer)
			Expect(err).ToNot(HaveOccurred())
			for _, record := range records {
				if record.EmployeeID == worker.EmployeeID {
					ownRecordID = record.ID
				} else {
					otherRecordID = record.ID
				}
			}
		})

		It("lets staff read any record", func() {
			record, err := service.Get(otherRecordID, admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(record.ID).To(Equal(otherRecordID))
		})

		It("lets an employee read their own record", func() {
			record, err := service.Get(ownRecordID, worker)
			Expect(err).ToNot(HaveOccurred())
			Expect(record.EmployeeID).To(Equal(worker.EmployeeID))
		})

		It("denies an employee another employee's record", func() {
			_, err := service.Get(otherRecordID, worker)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			_, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026}, officer)
			Expect(err).ToNot(HaveOccurred())
		})

		It("denies employees", func() {
			_, err := service.List(payroll.ListQuery{}, worker)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})

		It("returns totals over the filtered set", func() {
			result, err := service.List(payroll.ListQuery{Month: 3, Year: 2026}, admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Data).To(HaveLen(2))
			Expect(result.Total).To(Equal(int64(2)))
			Expect(result.CurrentPage).To(Equal(1))

			var gross decimal.Decimal
			for _, record := range result.Data {
				gross = gross.Add(record.GrossSalary)
			}
			Expect(result.Summary.TotalGrossSalary.Equal(gross)).To(BeTrue())
		})

		It("returns an empty page for an unknown department", func() {
			result, err := service.List(payroll.ListQuery{Department: "marketing"}, admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Data).To(BeEmpty())
			Expect(result.Total).To(BeZero())
		})
	})

	Describe("YearlySummary", func() {
		It("denies employees", func() {
			_, err := service.YearlySummary(2026, worker)
			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})

		It("rejects an out-of-range year", func() {
			_, err := service.YearlySummary(1999, admin)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ForPayslip", func() {
		It("returns the record with its employee", func() {
			records, err := service.ProcessBatch(payroll.ProcessPayrollDTO{Month: 3, Year: 2026, EmployeeIDs: []int64{1}}, officer)
			Expect(err).ToNot(HaveOccurred())

			record, emp, err := service.ForPayslip(records[0].ID, admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(record.EmployeeID).To(Equal(emp.ID))
		})
	})
})
