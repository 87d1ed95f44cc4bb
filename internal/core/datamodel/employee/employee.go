package employee

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// AllowanceMap maps an allowance name to its monthly amount. Stored as a
// jsonb column; insertion order is irrelevant.
type AllowanceMap map[string]decimal.Decimal

func (m AllowanceMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *AllowanceMap) Scan(value interface{}) error {
	if value == nil {
		*m = AllowanceMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into AllowanceMap", value)
	}
}

// Copy returns an independent copy so a persisted snapshot cannot be altered
// through the profile it was taken from.
func (m AllowanceMap) Copy() AllowanceMap {
	copied := make(AllowanceMap, len(m))
	for name, amount := range m {
		copied[name] = amount
	}
	return copied
}

type Loan struct {
	Status             string          `json:"status"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
}

// Loans is the ordered sequence of an employee's loans, stored as jsonb.
type Loans []Loan

func (l Loans) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *Loans) Scan(value interface{}) error {
	if value == nil {
		*l = Loans{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported source type for Loans")
	}
}

type Employee struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	EmployeeCode     string          `json:"employee_code" gorm:"column:employee_code;uniqueIndex;not null"`
	FirstName        string          `json:"first_name" gorm:"column:first_name;not null"`
	LastName         string          `json:"last_name" gorm:"column:last_name;not null"`
	Department       string          `json:"department" gorm:"column:department;index"`
	Position         string          `json:"position" gorm:"column:position"`
	Status           string          `json:"status" gorm:"column:status;default:active"`
	BasicSalary      decimal.Decimal `json:"basic_salary" gorm:"column:basic_salary;type:numeric(14,2);not null"`
	Allowances       AllowanceMap    `json:"allowances" gorm:"column:allowances;type:jsonb"`
	HourlyRate       decimal.Decimal `json:"hourly_rate" gorm:"column:hourly_rate;type:numeric(14,2)"`
	InsurancePremium decimal.Decimal `json:"insurance_premium" gorm:"column:insurance_premium;type:numeric(14,2)"`
	TaxBracket       string          `json:"tax_bracket" gorm:"column:tax_bracket"`
	Loans            Loans           `json:"loans" gorm:"column:loans;type:jsonb"`
	CreatedAt        time.Time       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
