package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Deductions is the itemized breakdown persisted next to its total. The total
// is always recomputed from these fields, never stored independently.
type Deductions struct {
	Tax           decimal.Decimal `json:"tax" gorm:"column:deduction_tax;type:numeric(14,2)"`
	ProvidentFund decimal.Decimal `json:"provident_fund" gorm:"column:deduction_provident_fund;type:numeric(14,2)"`
	Insurance     decimal.Decimal `json:"insurance" gorm:"column:deduction_insurance;type:numeric(14,2)"`
	Loan          decimal.Decimal `json:"loan" gorm:"column:deduction_loan;type:numeric(14,2)"`
	Other         decimal.Decimal `json:"other" gorm:"column:deduction_other;type:numeric(14,2)"`
}

// Payroll is the persisted outcome of processing one employee for one period.
// The unique index on (employee_id, month, year) backstops the duplicate
// guard against concurrent batch runs.
type Payroll struct {
	ID         int64 `json:"id" gorm:"primaryKey"`
	EmployeeID int64 `json:"employee_id" gorm:"column:employee_id;not null;uniqueIndex:uq_payroll_employee_period"`
	Month      int   `json:"month" gorm:"column:month;not null;uniqueIndex:uq_payroll_employee_period"`
	Year       int   `json:"year" gorm:"column:year;not null;uniqueIndex:uq_payroll_employee_period;index:idx_payroll_year"`

	WorkingDays   int             `json:"working_days" gorm:"column:working_days"`
	AbsentDays    int             `json:"absent_days" gorm:"column:absent_days"`
	LeaveDays     int             `json:"leave_days" gorm:"column:leave_days"`
	OvertimeHours decimal.Decimal `json:"overtime_hours" gorm:"column:overtime_hours;type:numeric(6,2)"`

	BasicSalary decimal.Decimal                `json:"basic_salary" gorm:"column:basic_salary;type:numeric(14,2)"`
	Allowances  employeeDatamodel.AllowanceMap `json:"allowances" gorm:"column:allowances;type:jsonb"`
	OvertimePay decimal.Decimal                `json:"overtime_pay" gorm:"column:overtime_pay;type:numeric(14,2)"`
	GrossSalary decimal.Decimal                `json:"gross_salary" gorm:"column:gross_salary;type:numeric(14,2)"`

	Deductions      Deductions      `json:"deductions" gorm:"embedded"`
	TotalDeductions decimal.Decimal `json:"total_deductions" gorm:"column:total_deductions;type:numeric(14,2)"`
	NetSalary       decimal.Decimal `json:"net_salary" gorm:"column:net_salary;type:numeric(14,2)"`

	Status          string     `json:"status" gorm:"column:status;default:pending"`
	ProcessedBy     int64      `json:"processed_by" gorm:"column:processed_by"`
	ProcessedAt     time.Time  `json:"processed_at" gorm:"column:processed_at"`
	ApprovedBy      *int64     `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`
	RejectedBy      *int64     `json:"rejected_by,omitempty" gorm:"column:rejected_by"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty" gorm:"column:rejected_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Payroll) TableName() string {
	return "payrolls"
}
