package payroll

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/attendance"
	"github.com/frahmantamala/payroll-management/internal/employee"
	"github.com/frahmantamala/payroll-management/internal/tax"
)

// Per-day salary always divides by 30, not the actual month length. Changing
// this breaks compatibility with historical records.
var perDayDivisor = decimal.NewFromInt(30)

// Provident fund is a fixed 12% of gross, not configurable.
var providentFundRate = decimal.NewFromFloat(0.12)

// Calculator derives one employee-period's payroll figures from the
// compensation profile and attendance summary. It performs no I/O.
type Calculator struct {
	tax    tax.Calculator
	logger *slog.Logger
}

func NewCalculator(taxCalc tax.Calculator, logger *slog.Logger) *Calculator {
	return &Calculator{tax: taxCalc, logger: logger}
}

// Compute runs the salary derivation and returns a pending Record carrying
// every intermediate value, so nothing is ever recomputed from the profile
// later. Gross salary is deliberately not clamped: an implausibly high absent
// count can push it negative and that surfaces in the record as-is.
func (c *Calculator) Compute(emp *employee.Employee, summary *attendance.Summary, month, year int, processedBy int64, now time.Time) (*Record, error) {
	grossSalary := emp.BasicSalary

	allowances := make(map[string]decimal.Decimal, len(emp.Allowances))
	for name, amount := range emp.Allowances {
		allowances[name] = amount
		grossSalary = grossSalary.Add(amount)
	}

	overtimePay := summary.OvertimeHours.Mul(emp.HourlyRate)
	grossSalary = grossSalary.Add(overtimePay)

	perDaySalary := emp.BasicSalary.Div(perDayDivisor)
	absentDeduction := perDaySalary.Mul(decimal.NewFromInt(int64(summary.AbsentDays)))
	grossSalary = grossSalary.Sub(absentDeduction).Round(2)

	taxAmount, err := c.tax.Calculate(grossSalary, emp.TaxBracket)
	if err != nil {
		c.logger.Error("tax calculation failed",
			"error", err,
			"employee_id", emp.ID,
			"tax_bracket", emp.TaxBracket)
		return nil, err
	}
	if taxAmount.IsNegative() {
		return nil, internal.NewComputationError(
			fmt.Sprintf("tax function returned negative amount for employee %d", emp.ID), nil)
	}

	deductions := Deductions{
		Tax:           taxAmount,
		ProvidentFund: grossSalary.Mul(providentFundRate).Round(2),
		Insurance:     emp.InsurancePremium,
		Loan:          emp.ActiveLoanInstallments(),
		Other:         decimal.Zero,
	}

	totalDeductions := deductions.Total()
	netSalary := grossSalary.Sub(totalDeductions)

	return &Record{
		EmployeeID:      emp.ID,
		Month:           month,
		Year:            year,
		WorkingDays:     summary.WorkingDays,
		AbsentDays:      summary.AbsentDays,
		LeaveDays:       summary.LeaveDays,
		OvertimeHours:   summary.OvertimeHours,
		BasicSalary:     emp.BasicSalary,
		Allowances:      allowances,
		OvertimePay:     overtimePay,
		GrossSalary:     grossSalary,
		Deductions:      deductions,
		TotalDeductions: totalDeductions,
		NetSalary:       netSalary,
		Status:          StatusPending,
		ProcessedBy:     processedBy,
		ProcessedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
