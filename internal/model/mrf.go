package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SuperadminApprovalThreshold routes material request forms whose total
// amount meets or exceeds this value to the super-admin tier.
var SuperadminApprovalThreshold = decimal.NewFromInt(2000)

// MaterialRequestForm is a staged request for materials. RequiresSuperadmin
// is derived from the total amount and is never set directly.
type MaterialRequestForm struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MRFNumber           string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"mrf_number"` // e.g. MRF0012
	RequestorName       string          `gorm:"type:varchar(255);not null" json:"requestor_name"`
	RequestorDepartment string          `gorm:"type:varchar(255)" json:"requestor_department"`
	RequestorEmployeeID string          `gorm:"type:varchar(100)" json:"requestor_employee_id"`
	ReasonJustification string          `gorm:"type:text" json:"reason_justification"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	RequiresSuperadmin  bool            `gorm:"not null;default:false" json:"requires_superadmin"`
	Status              string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RequestedBy         uuid.UUID       `gorm:"type:uuid;not null;index" json:"requested_by"`
	Requester           *User           `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	CreationDate        time.Time       `gorm:"not null" json:"creation_date"`
	ApprovedBy          *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	ApprovalDate        *time.Time      `json:"approval_date"`
	RejectionReason     string          `gorm:"type:text" json:"rejection_reason"`
	Items               []MRFItem       `gorm:"foreignKey:MRFID" json:"items"`
}

func (m *MaterialRequestForm) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Recalculate refreshes every item amount, the form total, and the derived
// approval tier. Call after any change to the items.
func (m *MaterialRequestForm) Recalculate() {
	total := decimal.Zero
	for i := range m.Items {
		m.Items[i].Recalculate()
		total = total.Add(m.Items[i].Amount)
	}
	m.TotalAmount = total
	m.RequiresSuperadmin = total.GreaterThanOrEqual(SuperadminApprovalThreshold)
}

// MRFItem is a single line of a material request form.
type MRFItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MRFID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"mrf_id"`
	ItemDescription string          `gorm:"type:varchar(500);not null" json:"item_description"`
	Specifications  string          `gorm:"type:varchar(500)" json:"specifications"`
	Quantity        int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
}

func (it *MRFItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// Recalculate refreshes Amount from quantity and unit price.
func (it *MRFItem) Recalculate() {
	it.Amount = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
