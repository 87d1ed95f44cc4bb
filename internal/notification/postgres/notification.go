package postgres

import (
	"gorm.io/gorm"

	notificationDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/payroll-management/internal/notification"
)

// NotificationRepository implements the notification.Repository interface using GORM
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	dm := notification.ToDataModel(n)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	n.ID = dm.ID
	return nil
}

func (r *NotificationRepository) GetByEmployee(employeeID int64, unreadOnly bool) ([]*notification.Notification, error) {
	query := r.db.Where("employee_id = ?", employeeID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var dms []*notificationDatamodel.Notification
	if err := query.Order("created_at DESC").Find(&dms).Error; err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(dms), nil
}

func (r *NotificationRepository) MarkRead(id, employeeID int64) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Update("read", true).Error
}
