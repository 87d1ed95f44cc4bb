package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/attendance"
	"github.com/frahmantamala/payroll-management/internal/auth"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/employee"
)

// Repository defines the data access methods for payroll records.
type Repository interface {
	CreateBatch(records []*Record) error
	GetByID(id int64) (*Record, error)
	ExistsForPeriod(month, year int, employeeIDs []int64) (bool, error)
	// UpdateStatusIfPending applies the transition fields of the record only
	// if the stored status is still pending, and reports whether a row was
	// updated. This is the atomic check-then-set for approve/reject.
	UpdateStatusIfPending(record *Record) (bool, error)
	List(query ListQuery) ([]*Record, int64, Totals, error)
	YearlySummary(year int) ([]*MonthlySummary, error)
}

// Aggregator is the attendance reduction the batch processor runs per employee.
type Aggregator interface {
	Summarize(employeeID int64, periodStart, periodEnd time.Time) (*attendance.Summary, error)
}

// Publisher emits domain events consumed by the notification dispatcher.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service orchestrates batch processing, the record lifecycle, and the read
// side. Batch runs for the same period serialize on a per-(month,year) lock
// held across the duplicate guard and record creation.
type Service struct {
	repo        Repository
	employees   employee.Repository
	aggregator  Aggregator
	calculator  *Calculator
	bus         Publisher
	logger      *slog.Logger
	periodLocks sync.Map
	now         func() time.Time
}

func NewService(repo Repository, employees employee.Repository, aggregator Aggregator, calculator *Calculator, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		employees:  employees,
		aggregator: aggregator,
		calculator: calculator,
		bus:        bus,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) lockPeriod(month, year int) func() {
	key := fmt.Sprintf("%04d-%02d", year, month)
	value, _ := s.periodLocks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ProcessBatch runs payroll for the given period over the explicit employee
// set, or over all active employees when none is given. The duplicate guard
// is all-or-nothing: any existing record for the period intersecting the
// target set aborts the batch. Any per-employee failure aborts the batch too;
// records are persisted in one transaction so no partial batch is ever
// visible.
func (s *Service) ProcessBatch(dto ProcessPayrollDTO, actor *internal.Actor) ([]*Record, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("process batch validation failed", "error", err)
		return nil, err
	}

	unlock := s.lockPeriod(dto.Month, dto.Year)
	defer unlock()

	targets, err := s.resolveEmployees(dto.EmployeeIDs)
	if err != nil {
		return nil, err
	}

	targetIDs := make([]int64, len(targets))
	for i, emp := range targets {
		targetIDs[i] = emp.ID
	}

	exists, err := s.repo.ExistsForPeriod(dto.Month, dto.Year, targetIDs)
	if err != nil {
		s.logger.Error("duplicate guard check failed", "error", err, "month", dto.Month, "year", dto.Year)
		return nil, internal.NewInternalError("failed to check existing payroll", err)
	}
	if exists {
		s.logger.Warn("payroll already processed for period",
			"month", dto.Month,
			"year", dto.Year,
			"employee_count", len(targetIDs))
		return nil, internal.ErrPayrollAlreadyExists
	}

	periodStart, periodEnd := attendance.PeriodBounds(dto.Month, dto.Year)
	now := s.now()

	records := make([]*Record, 0, len(targets))
	for _, emp := range targets {
		summary, err := s.aggregator.Summarize(emp.ID, periodStart, periodEnd)
		if err != nil {
			s.logger.Error("attendance aggregation failed, aborting batch",
				"error", err, "employee_id", emp.ID)
			return nil, internal.NewInternalError("failed to aggregate attendance", err)
		}

		record, err := s.calculator.Compute(emp, summary, dto.Month, dto.Year, actor.ID, now)
		if err != nil {
			s.logger.Error("payroll computation failed, aborting batch",
				"error", err, "employee_id", emp.ID)
			return nil, err
		}

		records = append(records, record)
	}

	if err := s.repo.CreateBatch(records); err != nil {
		s.logger.Error("failed to persist payroll batch", "error", err, "month", dto.Month, "year", dto.Year)
		return nil, internal.NewInternalError("failed to create payroll records", err)
	}

	s.logger.Info("payroll batch processed",
		"month", dto.Month,
		"year", dto.Year,
		"record_count", len(records),
		"processed_by", actor.ID)

	s.publish(events.NewPayrollProcessedEvent(dto.Month, dto.Year, len(records), actor.ID))

	return records, nil
}

func (s *Service) resolveEmployees(employeeIDs []int64) ([]*employee.Employee, error) {
	if len(employeeIDs) > 0 {
		targets, err := s.employees.GetByIDs(employeeIDs)
		if err != nil {
			s.logger.Error("failed to resolve employees", "error", err)
			return nil, internal.NewInternalError("failed to fetch employees", err)
		}
		if len(targets) != len(employeeIDs) {
			return nil, internal.ErrEmployeeNotFound
		}
		return targets, nil
	}

	targets, err := s.employees.GetActive()
	if err != nil {
		s.logger.Error("failed to fetch active employees", "error", err)
		return nil, internal.NewInternalError("failed to fetch employees", err)
	}
	return targets, nil
}

// Approve transitions a pending record to approved and emits the approval
// event. The conditional update in the repository serializes concurrent
// transitions on the same record.
func (s *Service) Approve(id int64, actor *internal.Actor) (*Record, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("payroll not found for approval", "error", err, "payroll_id", id)
		return nil, internal.ErrPayrollNotFound
	}

	if err := record.Approve(actor.ID, s.now()); err != nil {
		s.logger.Warn("cannot approve payroll in current status",
			"payroll_id", id, "status", record.Status)
		return nil, err
	}

	updated, err := s.repo.UpdateStatusIfPending(record)
	if err != nil {
		s.logger.Error("failed to update payroll status", "error", err, "payroll_id", id)
		return nil, internal.NewInternalError("failed to approve payroll", err)
	}
	if !updated {
		// Another transition won the race.
		return nil, internal.ErrInvalidStateTransition
	}

	s.logger.Info("payroll approved",
		"payroll_id", id,
		"employee_id", record.EmployeeID,
		"approved_by", actor.ID)

	s.publish(events.NewPayrollApprovedEvent(record.ID, record.EmployeeID, record.Month, record.Year, actor.ID))

	return record, nil
}

// Reject transitions a pending record to rejected with the actor's reason.
func (s *Service) Reject(id int64, dto RejectPayrollDTO, actor *internal.Actor) (*Record, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("payroll not found for rejection", "error", err, "payroll_id", id)
		return nil, internal.ErrPayrollNotFound
	}

	if err := record.Reject(actor.ID, dto.Reason, s.now()); err != nil {
		s.logger.Warn("cannot reject payroll in current status",
			"payroll_id", id, "status", record.Status)
		return nil, err
	}

	updated, err := s.repo.UpdateStatusIfPending(record)
	if err != nil {
		s.logger.Error("failed to update payroll status", "error", err, "payroll_id", id)
		return nil, internal.NewInternalError("failed to reject payroll", err)
	}
	if !updated {
		return nil, internal.ErrInvalidStateTransition
	}

	s.logger.Info("payroll rejected",
		"payroll_id", id,
		"employee_id", record.EmployeeID,
		"rejected_by", actor.ID,
		"reason", dto.Reason)

	s.publish(events.NewPayrollRejectedEvent(record.ID, record.EmployeeID, record.Month, record.Year, actor.ID, dto.Reason))

	return record, nil
}

// Get returns a single record. Employees may only see their own records;
// staff roles see all.
func (s *Service) Get(id int64, actor *internal.Actor) (*Record, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrPayrollNotFound
	}

	if !auth.CanViewPayrollRecord(actor, record.EmployeeID) {
		s.logger.Warn("access denied to payroll record",
			"payroll_id", id,
			"actor_id", actor.ID,
			"record_employee_id", record.EmployeeID)
		return nil, internal.ErrAccessDenied
	}

	return record, nil
}

// List returns a page of records plus aggregate sums over the whole filtered
// set. A department filter is resolved to an employee-id set first.
func (s *Service) List(query ListQuery, actor *internal.Actor) (*ListResult, error) {
	if !auth.CanViewPayrollList(auth.Role(actor.Role)) {
		return nil, internal.ErrAccessDenied
	}

	query.Normalize()

	if query.Department != "" {
		ids, err := s.employees.GetIDsByDepartment(query.Department)
		if err != nil {
			s.logger.Error("failed to resolve department", "error", err, "department", query.Department)
			return nil, internal.NewInternalError("failed to resolve department", err)
		}
		if len(ids) == 0 {
			return &ListResult{Data: []*Record{}, CurrentPage: query.Page}, nil
		}
		query.EmployeeIDs = ids
	}

	records, total, totals, err := s.repo.List(query)
	if err != nil {
		s.logger.Error("failed to list payroll records", "error", err)
		return nil, internal.NewInternalError("failed to list payroll records", err)
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))

	return &ListResult{
		Data:        records,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: query.Page,
		Summary:     totals,
	}, nil
}

// YearlySummary groups the year's records by month, ordered ascending.
func (s *Service) YearlySummary(year int, actor *internal.Actor) ([]*MonthlySummary, error) {
	if !auth.CanViewPayrollList(auth.Role(actor.Role)) {
		return nil, internal.ErrAccessDenied
	}

	if year < 2000 || year > 2100 {
		return nil, internal.NewValidationFieldError("year", "year is out of range", internal.ErrCodeInvalidYear)
	}

	summaries, err := s.repo.YearlySummary(year)
	if err != nil {
		s.logger.Error("failed to build yearly summary", "error", err, "year", year)
		return nil, internal.NewInternalError("failed to build yearly summary", err)
	}

	return summaries, nil
}

// ForPayslip returns the record together with its employee for rendering.
// Access rules match Get.
func (s *Service) ForPayslip(id int64, actor *internal.Actor) (*Record, *employee.Employee, error) {
	record, err := s.Get(id, actor)
	if err != nil {
		return nil, nil, err
	}

	emp, err := s.employees.GetByID(record.EmployeeID)
	if err != nil {
		s.logger.Error("employee not found for payslip", "error", err, "employee_id", record.EmployeeID)
		return nil, nil, internal.ErrEmployeeNotFound
	}

	return record, emp, nil
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		// Notification delivery must never affect the operation outcome.
		s.logger.Error("failed to publish event", "error", err, "event_type", event.EventType())
	}
}
