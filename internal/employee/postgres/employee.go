package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/payroll-management/internal/employee"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var dm employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&dm), nil
}

func (r *EmployeeRepository) GetByIDs(ids []int64) ([]*employee.Employee, error) {
	var dms []*employeeDatamodel.Employee
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(dms), nil
}

func (r *EmployeeRepository) GetActive() ([]*employee.Employee, error) {
	var dms []*employeeDatamodel.Employee
	err := r.db.Where("status = ?", employeeDatamodel.StatusActive).Order("id ASC").Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(dms), nil
}

func (r *EmployeeRepository) GetIDsByDepartment(department string) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&employeeDatamodel.Employee{}).
		Where("department = ?", department).
		Pluck("id", &ids).Error
	return ids, err
}
