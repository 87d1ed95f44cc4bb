package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
)

// ProcessPayrollDTO is the request payload for a batch run. EmployeeIDs is
// optional; when empty the batch covers all active employees.
type ProcessPayrollDTO struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	EmployeeIDs []int64 `json:"employee_ids,omitempty"`
}

func (dto ProcessPayrollDTO) Validate() error {
	if dto.Month == 0 && dto.Year == 0 {
		return internal.NewValidationError("Month and year are required", internal.ErrCodeValidationFailed)
	}
	if dto.Month < 1 || dto.Month > 12 {
		return internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidMonth)
	}
	if dto.Year < 2000 || dto.Year > 2100 {
		return internal.NewValidationFieldError("year", "year is out of range", internal.ErrCodeInvalidYear)
	}
	return nil
}

type RejectPayrollDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectPayrollDTO) Validate() error {
	if dto.Reason == "" {
		return internal.NewValidationError("reason is required when rejecting a payroll", internal.ErrCodeReasonRequired)
	}
	return nil
}

// sortColumns whitelists the sortable fields; anything else falls back to the
// default so user input never reaches the ORDER BY clause directly.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"processed_at": "processed_at",
	"month":        "month",
	"year":         "year",
	"net_salary":   "net_salary",
	"gross_salary": "gross_salary",
	"status":       "status",
}

const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 100
)

// ListQuery carries the listing filters. A zero Month/Year means no period
// filter; empty strings mean no department/status filter.
type ListQuery struct {
	Month      int
	Year       int
	Department string
	Status     string
	SortBy     string
	Order      string
	Page       int
	Limit      int

	// EmployeeIDs is resolved from Department by the service before the
	// query reaches the repository.
	EmployeeIDs []int64
}

// Normalize applies paging defaults and the sort whitelist.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	if column, ok := sortColumns[q.SortBy]; ok {
		q.SortBy = column
	} else {
		q.SortBy = "created_at"
	}

	if q.Order != "asc" {
		q.Order = "desc"
	}
}

func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Totals aggregates over the whole filtered set, not just the returned page.
type Totals struct {
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
}

type ListResult struct {
	Data        []*Record `json:"data"`
	Total       int64     `json:"total"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	Summary     Totals    `json:"summary"`
}

// MonthlySummary is one row of the yearly report, grouped by month.
type MonthlySummary struct {
	Month            int             `json:"month"`
	TotalEmployees   int64           `json:"total_employees"`
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	TotalOvertimePay decimal.Decimal `json:"total_overtime_pay"`
}
