package database

import (
	"log"

	"github.com/asadfd/erp-deployment/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs AutoMigrate for every model in dependency order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Employee{},
		&model.EmployeeRequest{},
		&model.Inventory{},
		&model.InventoryRequest{},
		&model.Project{},
		&model.ProjectEmployee{},
		&model.Timesheet{},
		&model.ProjectInventoryItem{},
		&model.CashFlow{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.PurchaseOrderRequest{},
		&model.MaterialRequestForm{},
		&model.MRFItem{},
		&model.Notification{},
		&model.AuditLog{},
	)
}
