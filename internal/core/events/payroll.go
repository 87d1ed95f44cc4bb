package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payroll domain event types. The notification dispatcher subscribes to these;
// publishing them is the only side channel out of a status transition.
const (
	EventPayrollProcessed = "payroll.processed"
	EventPayrollApproved  = "payroll.approved"
	EventPayrollRejected  = "payroll.rejected"
)

func NewPayrollProcessedEvent(month, year int, recordCount int, processedBy int64) BaseEvent {
	return newPayrollEvent(EventPayrollProcessed, map[string]interface{}{
		"month":        month,
		"year":         year,
		"record_count": recordCount,
		"processed_by": processedBy,
	})
}

func NewPayrollApprovedEvent(payrollID, employeeID int64, month, year int, approvedBy int64) BaseEvent {
	return newPayrollEvent(EventPayrollApproved, map[string]interface{}{
		"payroll_id":  payrollID,
		"employee_id": employeeID,
		"month":       month,
		"year":        year,
		"approved_by": approvedBy,
		"message":     fmt.Sprintf("Your payroll for %d/%d has been approved", month, year),
	})
}

func NewPayrollRejectedEvent(payrollID, employeeID int64, month, year int, rejectedBy int64, reason string) BaseEvent {
	return newPayrollEvent(EventPayrollRejected, map[string]interface{}{
		"payroll_id":  payrollID,
		"employee_id": employeeID,
		"month":       month,
		"year":        year,
		"rejected_by": rejectedBy,
		"reason":      reason,
		"message":     fmt.Sprintf("Your payroll for %d/%d has been rejected", month, year),
	})
}

func newPayrollEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
