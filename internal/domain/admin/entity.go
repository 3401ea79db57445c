package admin

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Admin represents a back-office operator.
type Admin struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSuperAdmin reports whether the admin may manage other admins.
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}
