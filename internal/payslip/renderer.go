package payslip

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/payroll-management/internal/employee"
	"github.com/frahmantamala/payroll-management/internal/payroll"
)

// Renderer produces the payslip PDF for one payroll record. Layout mirrors
// the printed slip: company header, period, employee identity, itemized
// earnings, itemized deductions, then the net salary line.
type Renderer struct {
	companyName string
}

func NewRenderer(companyName string) *Renderer {
	if companyName == "" {
		companyName = "Payroll Management"
	}
	return &Renderer{companyName: companyName}
}

func (r *Renderer) Render(w *bytes.Buffer, record *payroll.Record, emp *employee.Employee) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.companyName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	period := time.Date(record.Year, time.Month(record.Month), 1, 0, 0, 0, 0, time.UTC)
	pdf.CellFormat(0, 8, fmt.Sprintf("Payslip for %s", period.Format("January 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	identityRow(pdf, "Employee", emp.FullName())
	identityRow(pdf, "Employee Code", emp.EmployeeCode)
	identityRow(pdf, "Department", emp.Department)
	identityRow(pdf, "Position", emp.Position)
	identityRow(pdf, "Status", record.Status)
	pdf.Ln(4)

	sectionHeader(pdf, "Earnings")
	amountRow(pdf, "Basic Salary", record.BasicSalary)
	for _, name := range sortedAllowanceNames(record.Allowances) {
		amountRow(pdf, "Allowance: "+name, record.Allowances[name])
	}
	if record.OvertimePay.IsPositive() {
		label := fmt.Sprintf("Overtime Pay (%s hours)", record.OvertimeHours.String())
		amountRow(pdf, label, record.OvertimePay)
	}
	totalRow(pdf, "Gross Salary", record.GrossSalary)
	pdf.Ln(4)

	sectionHeader(pdf, "Deductions")
	amountRow(pdf, "Tax", record.Deductions.Tax)
	amountRow(pdf, "Provident Fund", record.Deductions.ProvidentFund)
	amountRow(pdf, "Insurance", record.Deductions.Insurance)
	if record.Deductions.Loan.IsPositive() {
		amountRow(pdf, "Loan Installment", record.Deductions.Loan)
	}
	if record.Deductions.Other.IsPositive() {
		amountRow(pdf, "Other", record.Deductions.Other)
	}
	totalRow(pdf, "Total Deductions", record.TotalDeductions)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 10, "Net Salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, record.NetSalary.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("Attendance: %d working days, %d absent, %d on leave",
		record.WorkingDays, record.AbsentDays, record.LeaveDays), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "This is a system generated payslip and does not require a signature.", "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

func identityRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func amountRow(pdf *fpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.CellFormat(120, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, amount.StringFixed(2), "", 1, "R", false, 0, "")
}

func totalRow(pdf *fpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 7, label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, amount.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

// Allowance map iteration order is random; sort names so the slip layout is
// stable across renders.
func sortedAllowanceNames(allowances map[string]decimal.Decimal) []string {
	names := make([]string, 0, len(allowances))
	for name := range allowances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
