package employee

import (
	"github.com/shopspring/decimal"

	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

type Loan struct {
	Status             LoanStatus      `json:"status"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

func (l Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// Employee carries the compensation profile the calculator reads. The profile
// is owned by the directory; the payroll core never mutates it.
type Employee struct {
	ID               int64                      `json:"id"`
	EmployeeCode     string                     `json:"employee_code"`
	FirstName        string                     `json:"first_name"`
	LastName         string                     `json:"last_name"`
	Department       string                     `json:"department"`
	Position         string                     `json:"position"`
	Status           string                     `json:"status"`
	BasicSalary      decimal.Decimal            `json:"basic_salary"`
	Allowances       map[string]decimal.Decimal `json:"allowances"`
	HourlyRate       decimal.Decimal            `json:"hourly_rate"`
	InsurancePremium decimal.Decimal            `json:"insurance_premium"`
	TaxBracket       string                     `json:"tax_bracket"`
	Loans            []Loan                     `json:"loans"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// ActiveLoanInstallments sums monthly installments over active loans only.
// Closed loans contribute nothing regardless of period.
func (e *Employee) ActiveLoanInstallments() decimal.Decimal {
	total := decimal.Zero
	for _, loan := range e.Loans {
		if loan.IsActive() {
			total = total.Add(loan.MonthlyInstallment)
		}
	}
	return total
}

func FromDataModel(dm *employeeDatamodel.Employee) *Employee {
	allowances := make(map[string]decimal.Decimal, len(dm.Allowances))
	for name, amount := range dm.Allowances {
		allowances[name] = amount
	}

	loans := make([]Loan, len(dm.Loans))
	for i, loan := range dm.Loans {
		loans[i] = Loan{
			Status:             LoanStatus(loan.Status),
			MonthlyInstallment: loan.MonthlyInstallment,
		}
	}

	return &Employee{
		ID:               dm.ID,
		EmployeeCode:     dm.EmployeeCode,
		FirstName:        dm.FirstName,
		LastName:         dm.LastName,
		Department:       dm.Department,
		Position:         dm.Position,
		Status:           dm.Status,
		BasicSalary:      dm.BasicSalary,
		Allowances:       allowances,
		HourlyRate:       dm.HourlyRate,
		InsurancePremium: dm.InsurancePremium,
		TaxBracket:       dm.TaxBracket,
		Loans:            loans,
	}
}

func FromDataModelSlice(dms []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
