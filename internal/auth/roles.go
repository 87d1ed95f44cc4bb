package auth

import (
	"github.com/frahmantamala/payroll-management/internal"
)

// Role is the closed set of roles known to the system. Authorization is a
// capability check over (role, resource ownership) rather than free-form
// permission strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RolePayroll  Role = "payroll"
	RoleEmployee Role = "employee"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleHR, RolePayroll, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

// CanViewPayrollList gates the paged listing and yearly summary.
func CanViewPayrollList(role Role) bool {
	return role == RoleAdmin || role == RoleHR || role == RolePayroll
}

// CanProcessPayroll gates batch processing.
func CanProcessPayroll(role Role) bool {
	return role == RoleAdmin || role == RolePayroll
}

// CanApprovePayroll gates approve and reject transitions.
func CanApprovePayroll(role Role) bool {
	return role == RoleAdmin || role == RoleHR
}

// CanViewPayrollRecord allows staff roles to view any record and employees to
// view only their own.
func CanViewPayrollRecord(actor *internal.Actor, recordEmployeeID int64) bool {
	role := Role(actor.Role)
	if role != RoleEmployee {
		return true
	}
	return actor.EmployeeID == recordEmployeeID
}
