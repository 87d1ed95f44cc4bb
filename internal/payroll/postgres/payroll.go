package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	"github.com/frahmantamala/payroll-management/internal/payroll"
)

// PayrollRepository implements the payroll.Repository interface using GORM
type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) payroll.Repository {
	return &PayrollRepository{db: db}
}

// CreateBatch inserts the whole batch in one transaction so a mid-batch
// failure leaves no records behind.
func (r *PayrollRepository) CreateBatch(records []*payroll.Record) error {
	dms := make([]*payrollDatamodel.Payroll, len(records))
	for i, record := range records {
		dms[i] = payroll.ToDataModel(record)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dms).Error
	})
	if err != nil {
		return err
	}

	for i, dm := range dms {
		records[i].ID = dm.ID
	}
	return nil
}

func (r *PayrollRepository) GetByID(id int64) (*payroll.Record, error) {
	var dm payrollDatamodel.Payroll
	if err := r.db.First(&dm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPayrollNotFound
		}
		return nil, err
	}
	return payroll.FromDataModel(&dm), nil
}

func (r *PayrollRepository) ExistsForPeriod(month, year int, employeeIDs []int64) (bool, error) {
	var count int64
	query := r.db.Model(&payrollDatamodel.Payroll{}).
		Where("month = ? AND year = ?", month, year)
	if len(employeeIDs) > 0 {
		query = query.Where("employee_id IN ?", employeeIDs)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusIfPending writes the transition fields with a conditional
// update. The WHERE clause on the stored status makes concurrent approve and
// reject calls race safely: exactly one of them updates a row.
func (r *PayrollRepository) UpdateStatusIfPending(record *payroll.Record) (bool, error) {
	result := r.db.Model(&payrollDatamodel.Payroll{}).
		Where("id = ? AND status = ?", record.ID, payrollDatamodel.StatusPending).
		Updates(map[string]interface{}{
			"status":           record.Status,
			"approved_by":      record.ApprovedBy,
			"approved_at":      record.ApprovedAt,
			"rejected_by":      record.RejectedBy,
			"rejected_at":      record.RejectedAt,
			"rejection_reason": record.RejectionReason,
			"updated_at":       record.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PayrollRepository) List(query payroll.ListQuery) ([]*payroll.Record, int64, payroll.Totals, error) {
	var totals payroll.Totals

	base := r.db.Model(&payrollDatamodel.Payroll{})
	base = applyFilters(base, query)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, totals, err
	}

	// Totals cover the whole filtered set, not only the returned page.
	sums := r.db.Model(&payrollDatamodel.Payroll{})
	sums = applyFilters(sums, query)
	err := sums.Select(
		"COALESCE(SUM(gross_salary), 0) AS total_gross_salary, " +
			"COALESCE(SUM(total_deductions), 0) AS total_deductions, " +
			"COALESCE(SUM(net_salary), 0) AS total_net_salary").
		Scan(&totals).Error
	if err != nil {
		return nil, 0, totals, err
	}

	var dms []*payrollDatamodel.Payroll
	page := r.db.Model(&payrollDatamodel.Payroll{})
	page = applyFilters(page, query)
	err = page.Order(query.SortBy + " " + query.Order).
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&dms).Error
	if err != nil {
		return nil, 0, totals, err
	}

	return payroll.FromDataModelSlice(dms), total, totals, nil
}

func applyFilters(db *gorm.DB, query payroll.ListQuery) *gorm.DB {
	if query.Month > 0 {
		db = db.Where("month = ?", query.Month)
	}
	if query.Year > 0 {
		db = db.Where("year = ?", query.Year)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if len(query.EmployeeIDs) > 0 {
		db = db.Where("employee_id IN ?", query.EmployeeIDs)
	}
	return db
}

func (r *PayrollRepository) YearlySummary(year int) ([]*payroll.MonthlySummary, error) {
	var summaries []*payroll.MonthlySummary
	err := r.db.Model(&payrollDatamodel.Payroll{}).
		Select("month, "+
			"COUNT(*) AS total_employees, "+
			"COALESCE(SUM(gross_salary), 0) AS total_gross_salary, "+
			"COALESCE(SUM(total_deductions), 0) AS total_deductions, "+
			"COALESCE(SUM(net_salary), 0) AS total_net_salary, "+
			"COALESCE(SUM(overtime_pay), 0) AS total_overtime_pay").
		Where("year = ?", year).
		Group("month").
		Order("month ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []*payroll.MonthlySummary{}
	}
	return summaries, nil
}
