package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType enum constants
const (
	NotifEmployeeRequestCreated  = "EMPLOYEE_REQUEST_CREATED"
	NotifEmployeeRequestApproved = "EMPLOYEE_REQUEST_APPROVED"
	NotifEmployeeRequestRejected = "EMPLOYEE_REQUEST_REJECTED"
	NotifInventoryRequestUpdate  = "INVENTORY_REQUEST_UPDATE"
	NotifMRFUpdate               = "MRF_UPDATE"
	NotifPOApprovalRequired      = "PO_APPROVAL_REQUIRED"
	NotifBudgetAlert             = "BUDGET_ALERT"
)

// Notification is an append-only message addressed to one user. There is no
// delivery guarantee beyond the row being queryable; the websocket hub gets
// a best-effort copy.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   *User      `gorm:"foreignKey:RecipientID" json:"-"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Type        string     `gorm:"type:varchar(50);not null" json:"type"`
	IsRead      bool       `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
	ReadAt      *time.Time `json:"read_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
