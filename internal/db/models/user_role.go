package models

import "time"

// UserRole assigns a role to a user. A user may hold several roles; their
// matrices are combined as a union.
type UserRole struct {
	// UserID is the ID of the user holding the role.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// RoleID is the ID of the assigned role.
	RoleID uint `gorm:"primaryKey;column:role_id;index"`
	// AssignedAt is the timestamp of the assignment.
	AssignedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}
