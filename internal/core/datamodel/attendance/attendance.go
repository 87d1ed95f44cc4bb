package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLeave   = "leave"
)

// Attendance is one employee's record for one calendar day. Days without a
// record are simply missing rows, not absences.
type Attendance struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	EmployeeID    int64           `json:"employee_id" gorm:"column:employee_id;not null;index:idx_attendance_employee_date"`
	Date          time.Time       `json:"date" gorm:"column:date;type:date;not null;index:idx_attendance_employee_date"`
	Status        string          `json:"status" gorm:"column:status;not null"`
	OvertimeHours decimal.Decimal `json:"overtime_hours" gorm:"column:overtime_hours;type:numeric(6,2);default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}
