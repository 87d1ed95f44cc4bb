package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/attendance"
)

// AttendanceRepository implements the attendance.Repository interface using GORM
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) GetByEmployeeAndRange(employeeID int64, from, to time.Time) ([]*attendance.Record, error) {
	var dms []*attendanceDatamodel.Attendance
	err := r.db.Where("employee_id = ? AND date >= ? AND date <= ?", employeeID, from, to).
		Order("date ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(dms), nil
}
