package model

import "time"

// UserRole doubles as a permission flag (admin) and as the reviewer track a
// user can be assigned to.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSales      UserRole = "sales"
	RoleTechnical  UserRole = "technical"
	RoleCommercial UserRole = "commercial"
	RoleViewer     UserRole = "viewer"
)

// Roles lists every valid user role.
func Roles() []UserRole {
	return []UserRole{RoleAdmin, RoleSales, RoleTechnical, RoleCommercial, RoleViewer}
}

// Valid reports whether the role is one of the enumerated values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSales, RoleTechnical, RoleCommercial, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Code         string    `gorm:"type:varchar(16);uniqueIndex" json:"code"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role         UserRole  `gorm:"type:varchar(32);not null" json:"role"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
