package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// POStatus enum constants. Lifecycle status is orthogonal to approval: a PO
// can be CREATED yet approved, and a rejected request forces CANCELLED.
const (
	POStatusCreated        = "CREATED"
	POStatusSentToSupplier = "SENT_TO_SUPPLIER"
	POStatusCompleted      = "COMPLETED"
	POStatusCancelled      = "CANCELLED"
)

// ValidPOStatus reports whether s is a known lifecycle status.
func ValidPOStatus(s string) bool {
	switch s {
	case POStatusCreated, POStatusSentToSupplier, POStatusCompleted, POStatusCancelled:
		return true
	}
	return false
}

type PurchaseOrder struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PONumber             string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"po_number"`
	ProjectID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Project              *Project        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	SupplierName         string          `gorm:"type:varchar(255);not null" json:"supplier_name"`
	SupplierContact      string          `gorm:"type:varchar(100)" json:"supplier_contact"`
	SupplierEmail        string          `gorm:"type:varchar(255)" json:"supplier_email"`
	SupplierAddress      string          `gorm:"type:varchar(500)" json:"supplier_address"`
	POStatus             string          `gorm:"type:varchar(30);not null" json:"po_status"`
	IsApproved           bool            `gorm:"not null;default:false" json:"is_approved"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(19,2)" json:"total_amount"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date"`
	PaymentTerms         string          `gorm:"type:varchar(255)" json:"payment_terms"`
	Notes                string          `gorm:"type:text" json:"notes"`
	CreatedBy            uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (po *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	return nil
}

type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	InventoryID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_id"`
	Inventory        *Inventory      `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	QuantityOrdered  int             `gorm:"type:int;not null" json:"quantity_ordered"`
	QuantityReceived int             `gorm:"type:int" json:"quantity_received"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(19,2);not null" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(19,2);not null" json:"total_price"`
	Notes            string          `gorm:"type:varchar(500)" json:"notes"`
}

func (it *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// Recalculate refreshes TotalPrice from quantity ordered and unit price.
func (it *PurchaseOrderItem) Recalculate() {
	it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.QuantityOrdered)))
}

// PurchaseOrderRequest is the approval row attached to every purchase order.
// Super-admin creators get an already-APPROVED row; everyone else waits.
type PurchaseOrderRequest struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"purchase_order_id"`
	PurchaseOrder   *PurchaseOrder `gorm:"foreignKey:PurchaseOrderID" json:"purchase_order,omitempty"`
	Status          string         `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RequestedBy     uuid.UUID      `gorm:"type:uuid;not null;index" json:"requested_by"`
	Requester       *User          `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	RequestDate     time.Time      `gorm:"not null" json:"request_date"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid" json:"approved_by"`
	ApprovalDate    *time.Time     `json:"approval_date"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`
}

func (r *PurchaseOrderRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
