package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	attendanceDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/attendance"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// Record is one employee's attendance for one calendar day.
type Record struct {
	ID            int64           `json:"id"`
	EmployeeID    int64           `json:"employee_id"`
	Date          time.Time       `json:"date"`
	Status        Status          `json:"status"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

// Summary is the reduction of a period's attendance records. TotalDays counts
// reported records only; days with no record contribute to none of the
// counters and are visible solely through the difference against the
// calendar, which callers may use for diagnostics.
type Summary struct {
	WorkingDays   int             `json:"working_days"`
	AbsentDays    int             `json:"absent_days"`
	LeaveDays     int             `json:"leave_days"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	TotalDays     int             `json:"total_days"`
}

// Repository defines the data access methods for attendance records.
type Repository interface {
	GetByEmployeeAndRange(employeeID int64, from, to time.Time) ([]*Record, error)
}

func FromDataModel(dm *attendanceDatamodel.Attendance) *Record {
	return &Record{
		ID:            dm.ID,
		EmployeeID:    dm.EmployeeID,
		Date:          dm.Date,
		Status:        Status(dm.Status),
		OvertimeHours: dm.OvertimeHours,
	}
}

func FromDataModelSlice(dms []*attendanceDatamodel.Attendance) []*Record {
	result := make([]*Record, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
