package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical role names. The legacy data set carried both "SUPER_ADMIN" and
// "SUPERADMIN"; only the underscore spelling is valid here.
const (
	RoleSuperAdmin     = "SUPER_ADMIN"
	RoleAdmin          = "ADMIN"
	RoleHRManager      = "HRMANAGER"
	RoleProjectManager = "PROJECTMANAGER"
	RoleUser           = "USER"
)

// ValidRole reports whether name is one of the canonical roles.
func ValidRole(name string) bool {
	switch name {
	case RoleSuperAdmin, RoleAdmin, RoleHRManager, RoleProjectManager, RoleUser:
		return true
	}
	return false
}

// User is the authentication principal. A user holds exactly one role.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	Role      string         `gorm:"type:varchar(50);not null" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
