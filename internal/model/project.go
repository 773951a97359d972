package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStageOrder marks a project that has at least one approved purchase
// order against it.
const ProjectStageOrder = "ORDER_STAGE"

// CashFlowType enum constants
const (
	CashFlowInflow  = "INFLOW"
	CashFlowOutflow = "OUTFLOW"
)

type Project struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StartDate          time.Time       `gorm:"not null" json:"start_date"`
	EndDate            time.Time       `gorm:"not null" json:"end_date"`
	ProjectType        string          `gorm:"type:varchar(100);not null" json:"project_type"`
	ProjectStage       string          `gorm:"type:varchar(100);not null" json:"project_stage"`
	ProjectDescription string          `gorm:"type:varchar(1000)" json:"project_description"`
	ProjectBudget      decimal.Decimal `gorm:"type:decimal(15,2)" json:"project_budget"`
	PerDayRate         decimal.Decimal `gorm:"type:decimal(10,2)" json:"per_day_rate"`
	PerHourRate        decimal.Decimal `gorm:"type:decimal(10,2)" json:"per_hour_rate"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectEmployee assigns an employee to a project. Unidirectional FKs only;
// lookups go through the repository.
type ProjectEmployee struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee      *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	AssignedDate  time.Time  `gorm:"not null" json:"assigned_date"`
	RoleInProject string     `gorm:"type:varchar(100)" json:"role_in_project"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (pe *ProjectEmployee) BeforeCreate(tx *gorm.DB) error {
	if pe.ID == uuid.Nil {
		pe.ID = uuid.New()
	}
	return nil
}

// Timesheet records hours worked by one employee on one project for one day.
// TotalAmount is computed by the service from the project rates.
type Timesheet struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee    *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	WorkDate    time.Time       `gorm:"not null;index" json:"work_date"`
	HoursWorked decimal.Decimal `gorm:"type:decimal(5,2)" json:"hours_worked"`
	DailyRate   decimal.Decimal `gorm:"type:decimal(10,2)" json:"daily_rate"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(10,2)" json:"hourly_rate"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Comments    string          `gorm:"type:varchar(500)" json:"comments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *Timesheet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ProjectInventoryItem allocates live inventory to a project. Allocated is
// capped by available stock; the remainder is recorded as shortage so a PO
// can be raised for it.
type ProjectInventoryItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	InventoryID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_id"`
	Inventory        *Inventory      `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	RequiredQuantity int             `gorm:"type:int;not null" json:"required_quantity"`
	AllocatedQuantity int            `gorm:"type:int;not null" json:"allocated_quantity"`
	ShortageQuantity int             `gorm:"type:int;not null" json:"shortage_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_price"`
	POCreated        bool            `gorm:"not null;default:false" json:"po_created"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (pi *ProjectInventoryItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// CashFlow is a single inflow or outflow transaction against a project.
type CashFlow struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Type            string          `gorm:"type:varchar(10);not null" json:"type"` // INFLOW, OUTFLOW
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	Description     string          `gorm:"type:varchar(500)" json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (cf *CashFlow) BeforeCreate(tx *gorm.DB) error {
	if cf.ID == uuid.Nil {
		cf.ID = uuid.New()
	}
	return nil
}
