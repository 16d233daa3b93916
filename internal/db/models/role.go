package models

import (
	"time"

	"github.com/clubdesk/clubdesk/internal/permission"
)

// Scope is the tier a role's grants are restricted to.
type Scope string

const (
	// ScopeGlobal roles are not restricted by club or ownership.
	ScopeGlobal Scope = "global"
	// ScopeClub roles are restricted to the single club the identity manages.
	ScopeClub Scope = "club"
	// ScopeSelf roles are restricted to resources the identity itself owns.
	ScopeSelf Scope = "self"
)

// Recognized reports whether s is one of the known scope tiers.
func (s Scope) Recognized() bool {
	switch s {
	case ScopeGlobal, ScopeClub, ScopeSelf:
		return true
	default:
		return false
	}
}

// Role represents a role in the role-based access control (RBAC) system.
// A role owns exactly one permission matrix and carries the scope tier that
// restricts where its grants apply.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g., "Manager", "User").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// Scope restricts where the grants of this role apply.
	Scope Scope `gorm:"type:varchar(20);not null;default:''" json:"scope"`
	// IsSystem marks a protected role whose matrix can not be changed or deleted.
	IsSystem bool `gorm:"default:false" json:"is_system"`
	// Permissions is the section to action allow-list of this role.
	Permissions permission.Matrix `json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
