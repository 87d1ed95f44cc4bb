package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal"
)

// Calculator computes the tax amount for a gross salary and bracket. It is a
// pure function of its inputs and never returns a negative amount.
type Calculator interface {
	Calculate(grossSalary decimal.Decimal, bracket string) (decimal.Decimal, error)
}

// BracketCalculator applies a flat rate per bracket identifier.
type BracketCalculator struct {
	rates map[string]decimal.Decimal
}

// DefaultBrackets mirrors the bracket identifiers carried on employee
// profiles. Rates are fractions of gross salary.
func DefaultBrackets() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"exempt":   decimal.Zero,
		"low":      decimal.NewFromFloat(0.05),
		"standard": decimal.NewFromFloat(0.10),
		"high":     decimal.NewFromFloat(0.20),
		"top":      decimal.NewFromFloat(0.30),
	}
}

func NewBracketCalculator(rates map[string]decimal.Decimal) *BracketCalculator {
	if rates == nil {
		rates = DefaultBrackets()
	}
	return &BracketCalculator{rates: rates}
}

func (c *BracketCalculator) Calculate(grossSalary decimal.Decimal, bracket string) (decimal.Decimal, error) {
	rate, ok := c.rates[bracket]
	if !ok {
		return decimal.Zero, internal.NewComputationError(
			fmt.Sprintf("unknown tax bracket %q", bracket), nil)
	}

	amount := grossSalary.Mul(rate)
	if amount.IsNegative() {
		return decimal.Zero, nil
	}
	return amount.Round(2), nil
}
