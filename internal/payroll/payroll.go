package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Deductions itemizes everything withheld from gross salary. Total is always
// derived from the components so the persisted total cannot drift.
type Deductions struct {
	Tax           decimal.Decimal `json:"tax"`
	ProvidentFund decimal.Decimal `json:"provident_fund"`
	Insurance     decimal.Decimal `json:"insurance"`
	Loan          decimal.Decimal `json:"loan"`
	Other         decimal.Decimal `json:"other"`
}

func (d Deductions) Total() decimal.Decimal {
	return d.Tax.
		Add(d.ProvidentFund).
		Add(d.Insurance).
		Add(d.Loan).
		Add(d.Other)
}

// Record is the payroll outcome for one employee and one (month, year). The
// computed snapshot is immutable; only the status-transition fields change
// after creation.
type Record struct {
	ID         int64 `json:"id"`
	EmployeeID int64 `json:"employee_id"`
	Month      int   `json:"month"`
	Year       int   `json:"year"`

	WorkingDays   int             `json:"working_days"`
	AbsentDays    int             `json:"absent_days"`
	LeaveDays     int             `json:"leave_days"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`

	BasicSalary decimal.Decimal            `json:"basic_salary"`
	Allowances  map[string]decimal.Decimal `json:"allowances"`
	OvertimePay decimal.Decimal            `json:"overtime_pay"`
	GrossSalary decimal.Decimal            `json:"gross_salary"`

	Deductions      Deductions      `json:"deductions"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`

	Status          string     `json:"status"`
	ProcessedBy     int64      `json:"processed_by"`
	ProcessedAt     time.Time  `json:"processed_at"`
	ApprovedBy      *int64     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *int64     `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) CanBeApproved() bool {
	return r.Status == StatusPending
}

func (r *Record) CanBeRejected() bool {
	return r.Status == StatusPending
}

// Approve moves the record to its terminal approved state. Legal only from
// pending; approved and rejected records never transition again.
func (r *Record) Approve(actorID int64, now time.Time) error {
	if !r.CanBeApproved() {
		return internal.ErrInvalidStateTransition
	}
	r.Status = StatusApproved
	r.ApprovedBy = &actorID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	return nil
}

// Reject moves the record to its terminal rejected state with the reason the
// actor gave.
func (r *Record) Reject(actorID int64, reason string, now time.Time) error {
	if !r.CanBeRejected() {
		return internal.ErrInvalidStateTransition
	}
	r.Status = StatusRejected
	r.RejectedBy = &actorID
	r.RejectedAt = &now
	r.RejectionReason = &reason
	r.UpdatedAt = now
	return nil
}

func ToDataModel(r *Record) *payrollDatamodel.Payroll {
	allowances := make(employeeDatamodel.AllowanceMap, len(r.Allowances))
	for name, amount := range r.Allowances {
		allowances[name] = amount
	}

	return &payrollDatamodel.Payroll{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Month:         r.Month,
		Year:          r.Year,
		WorkingDays:   r.WorkingDays,
		AbsentDays:    r.AbsentDays,
		LeaveDays:     r.LeaveDays,
		OvertimeHours: r.OvertimeHours,
		BasicSalary:   r.BasicSalary,
		Allowances:    allowances,
		OvertimePay:   r.OvertimePay,
		GrossSalary:   r.GrossSalary,
		Deductions: payrollDatamodel.Deductions{
			Tax:           r.Deductions.Tax,
			ProvidentFund: r.Deductions.ProvidentFund,
			Insurance:     r.Deductions.Insurance,
			Loan:          r.Deductions.Loan,
			Other:         r.Deductions.Other,
		},
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		Status:          r.Status,
		ProcessedBy:     r.ProcessedBy,
		ProcessedAt:     r.ProcessedAt,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectedBy:      r.RejectedBy,
		RejectedAt:      r.RejectedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModel(dm *payrollDatamodel.Payroll) *Record {
	allowances := make(map[string]decimal.Decimal, len(dm.Allowances))
	for name, amount := range dm.Allowances {
		allowances[name] = amount
	}

	return &Record{
		ID:            dm.ID,
		EmployeeID:    dm.EmployeeID,
		Month:         dm.Month,
		Year:          dm.Year,
		WorkingDays:   dm.WorkingDays,
		AbsentDays:    dm.AbsentDays,
		LeaveDays:     dm.LeaveDays,
		OvertimeHours: dm.OvertimeHours,
		BasicSalary:   dm.BasicSalary,
		Allowances:    allowances,
		OvertimePay:   dm.OvertimePay,
		GrossSalary:   dm.GrossSalary,
		Deductions: Deductions{
			Tax:           dm.Deductions.Tax,
			ProvidentFund: dm.Deductions.ProvidentFund,
			Insurance:     dm.Deductions.Insurance,
			Loan:          dm.Deductions.Loan,
			Other:         dm.Deductions.Other,
		},
		TotalDeductions: dm.TotalDeductions,
		NetSalary:       dm.NetSalary,
		Status:          dm.Status,
		ProcessedBy:     dm.ProcessedBy,
		ProcessedAt:     dm.ProcessedAt,
		ApprovedBy:      dm.ApprovedBy,
		ApprovedAt:      dm.ApprovedAt,
		RejectedBy:      dm.RejectedBy,
		RejectedAt:      dm.RejectedAt,
		RejectionReason: dm.RejectionReason,
		CreatedAt:       dm.CreatedAt,
		UpdatedAt:       dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*payrollDatamodel.Payroll) []*Record {
	result := make([]*Record, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
