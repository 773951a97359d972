package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryRequestType enum constants
const (
	InventoryReqCreate = "CREATE"
	InventoryReqUpdate = "UPDATE"
	InventoryReqDelete = "DELETE"
)

// Inventory is a live stock record. All mutations arrive through approved
// InventoryRequest rows; direct writes happen only during materialization
// and project allocation.
type Inventory struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryNumber  string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"inventory_number"` // e.g. INV0007
	Name             string          `gorm:"type:varchar(255);not null" json:"name"`
	ProductionDate   time.Time       `gorm:"not null" json:"production_date"`
	ExpiryDate       time.Time       `gorm:"not null" json:"expiry_date"`
	Quantity         int             `gorm:"type:int;not null" json:"quantity"`
	PerQuantityPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"per_quantity_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_price"`
	BillNumber       string          `gorm:"type:varchar(100);not null" json:"bill_number"`
	SupplierName     string          `gorm:"type:varchar(255);not null" json:"supplier_name"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Recalculate refreshes TotalPrice from quantity and unit price. Callers
// invoke it after any change to either field; nothing recomputes implicitly.
func (i *Inventory) Recalculate() {
	i.TotalPrice = i.PerQuantityPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// InventoryRequest stages a CREATE, UPDATE or DELETE of an Inventory row.
// For UPDATE and DELETE, TargetID names the live row the request mutates.
type InventoryRequest struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RequestType      string          `gorm:"type:varchar(10);not null" json:"request_type"` // CREATE, UPDATE, DELETE
	InventoryNumber  string          `gorm:"type:varchar(20);not null" json:"inventory_number"`
	Name             string          `gorm:"type:varchar(255)" json:"name"`
	ProductionDate   time.Time       `json:"production_date"`
	ExpiryDate       time.Time       `json:"expiry_date"`
	Quantity         int             `gorm:"type:int" json:"quantity"`
	PerQuantityPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"per_quantity_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_price"`
	BillNumber       string          `gorm:"type:varchar(100)" json:"bill_number"`
	SupplierName     string          `gorm:"type:varchar(255)" json:"supplier_name"`
	TargetID         *uuid.UUID      `gorm:"type:uuid" json:"target_id"`
	Status           string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RequestedBy      uuid.UUID       `gorm:"type:uuid;not null;index" json:"requested_by"`
	Requester        *User           `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	RequestDate      time.Time       `gorm:"not null" json:"request_date"`
	ApprovedBy       *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	ApprovalDate     *time.Time      `json:"approval_date"`
	RejectionReason  string          `gorm:"type:text" json:"rejection_reason"`
}

func (r *InventoryRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Recalculate refreshes the staged TotalPrice.
func (r *InventoryRequest) Recalculate() {
	r.TotalPrice = r.PerQuantityPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}
