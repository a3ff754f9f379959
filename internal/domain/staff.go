package domain

import (
	"strings"
	"time"
)

// Role enumerates back-office staff roles.
type Role string

const (
	RoleStaff      Role = "Staff"
	RoleSupervisor Role = "Supervisor"
	RoleAdmin      Role = "Admin"
)

// SupervisorRoles are allowed to perform privileged mutations.
var SupervisorRoles = []Role{RoleSupervisor, RoleAdmin}

// ParseRole normalizes a stored or claimed role. "Agent" is accepted as Staff.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "staff", "agent":
		return RoleStaff, true
	case "supervisor":
		return RoleSupervisor, true
	case "admin":
		return RoleAdmin, true
	}
	return "", false
}

// In reports whether r is a member of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Staff models a back-office operator.
type Staff struct {
	ID           int64
	Username     string
	PasswordHash string
	DisplayName  string
	Email        string
	Role         Role
	CreatedAt    time.Time
}
