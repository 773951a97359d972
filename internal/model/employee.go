package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequestStatus constants shared by all staged-request entities.
// A request transitions PENDING -> APPROVED or PENDING -> REJECTED exactly
// once; terminal statuses never change again.
const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

// Employee is a live personnel record. It only comes into existence through
// an approved EmployeeRequest.
type Employee struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	EmpID          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"emp_id"`
	PassportID     string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"passport_id"`
	EmiratesID     string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"emirates_id"`
	JoiningDate    time.Time       `gorm:"not null" json:"joining_date"`
	EndDate        *time.Time      `json:"end_date"`
	Salary         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"salary"`
	PhoneNumber    string          `gorm:"type:varchar(50);not null" json:"phone_number"`
	Comments       string          `gorm:"type:text" json:"comments"`
	JoiningDocsPath string         `gorm:"type:varchar(500)" json:"joining_docs_path"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// EmployeeRequest stages a proposed employee creation pending super-admin
// approval. Payload fields mirror Employee.
type EmployeeRequest struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	EmpID           string          `gorm:"type:varchar(100);not null;index" json:"emp_id"`
	PassportID      string          `gorm:"type:varchar(100);not null;index" json:"passport_id"`
	EmiratesID      string          `gorm:"type:varchar(100);not null;index" json:"emirates_id"`
	JoiningDate     time.Time       `gorm:"not null" json:"joining_date"`
	EndDate         *time.Time      `json:"end_date"`
	Salary          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"salary"`
	PhoneNumber     string          `gorm:"type:varchar(50)" json:"phone_number"`
	Comments        string          `gorm:"type:text" json:"comments"`
	JoiningDocsPath string          `gorm:"type:varchar(500)" json:"joining_docs_path"`
	Status          string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RequestedBy     uuid.UUID       `gorm:"type:uuid;not null;index" json:"requested_by"`
	Requester       *User           `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	ApprovedBy      *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	Approver        *User           `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at"`
	ProcessedAt     *time.Time      `json:"processed_at"`
}

func (r *EmployeeRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
