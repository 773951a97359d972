package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action constants
const (
	ActionSubmitEmployeeRequest  = "SUBMIT_EMPLOYEE_REQUEST"
	ActionSubmitInventoryRequest = "SUBMIT_INVENTORY_REQUEST"
	ActionCreateMRF              = "CREATE_MRF"
	ActionCreatePurchaseOrder    = "CREATE_PURCHASE_ORDER"
	ActionApproveRequest         = "APPROVE_REQUEST"
	ActionRejectRequest          = "REJECT_REQUEST"
)

// AuditLog records who did what to which entity. Written in the same
// transaction as the change it describes.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(100);not null" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name"`
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
