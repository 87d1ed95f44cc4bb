package notification

import "time"

// Notification is a persisted in-app message for an employee, written by the
// dispatcher after a payroll transition. Delivery is fire-and-forget.
type Notification struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;not null;index"`
	Type       string    `json:"type" gorm:"column:type;not null"`
	Title      string    `json:"title" gorm:"column:title;not null"`
	Message    string    `json:"message" gorm:"column:message"`
	Link       string    `json:"link" gorm:"column:link"`
	Read       bool      `json:"read" gorm:"column:read;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
