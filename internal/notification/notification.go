package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/notification"
)

const (
	TypePayrollApproved = "payroll_approved"
	TypePayrollRejected = "payroll_rejected"
)

// Notification is one in-app message addressed to an employee.
type Notification struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Link       string    `json:"link"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

type Repository interface {
	Create(notification *Notification) error
	GetByEmployee(employeeID int64, unreadOnly bool) ([]*Notification, error)
	MarkRead(id, employeeID int64) error
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:         n.ID,
		EmployeeID: n.EmployeeID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Link:       n.Link,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}

func FromDataModel(dm *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:         dm.ID,
		EmployeeID: dm.EmployeeID,
		Type:       dm.Type,
		Title:      dm.Title,
		Message:    dm.Message,
		Link:       dm.Link,
		Read:       dm.Read,
		CreatedAt:  dm.CreatedAt,
	}
}

func FromDataModelSlice(dms []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
