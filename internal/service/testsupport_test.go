package service

import (
	"testing"
	"time"

	"github.com/asadfd/erp-deployment/internal/database"
	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"
	"github.com/asadfd/erp-deployment/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fixture wires every service against an in-memory sqlite database so the
// workflow tests exercise the real repository and transaction code paths.
type fixture struct {
	db *gorm.DB

	users         repository.UserRepository
	employees     EmployeeService
	employeeReqs  EmployeeRequestService
	inventory     InventoryService
	mrfs          MRFService
	pos           PurchaseOrderService
	projects      ProjectService
	reports       ReportService
	notifications NotificationService
	auth          UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	employeeReqRepo := repository.NewEmployeeRequestRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	inventoryReqRepo := repository.NewInventoryRequestRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	projectInvRepo := repository.NewProjectInventoryRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	mrfRepo := repository.NewMRFRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	docs := storage.NewDocStore(t.TempDir())

	// nil hub: pushes are skipped, rows are still persisted
	notifier := NewNotificationService(notificationRepo, userRepo, nil)

	return &fixture{
		db:            db,
		users:         userRepo,
		employees:     NewEmployeeService(employeeRepo),
		employeeReqs:  NewEmployeeRequestService(employeeReqRepo, employeeRepo, auditRepo, txManager, notifier, docs),
		inventory:     NewInventoryService(inventoryRepo, inventoryReqRepo, auditRepo, txManager, notifier),
		mrfs:          NewMRFService(mrfRepo, auditRepo, txManager, notifier),
		pos:           NewPurchaseOrderService(poRepo, projectRepo, inventoryRepo, projectInvRepo, auditRepo, txManager, notifier),
		projects:      NewProjectService(projectRepo, employeeRepo, timesheetRepo, projectInvRepo, inventoryRepo, poRepo, cashFlowRepo, txManager),
		reports:       NewReportService(projectRepo, timesheetRepo, poRepo, projectInvRepo, cashFlowRepo),
		notifications: notifier,
		auth:          NewUserService(userRepo),
	}
}

func (f *fixture) seedUser(t *testing.T, username, role string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "$2a$10$VUo4QZ4MkihDP83F5.rQNep/tQHnrpStbzOtNXqdxGV8ccPG8t7Ry", // bcrypt("secret")
		Role:     role,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func (f *fixture) seedEmployee(t *testing.T, name, empID string) *model.Employee {
	t.Helper()
	emp := &model.Employee{
		Name:        name,
		EmpID:       empID,
		PassportID:  "P-" + empID,
		EmiratesID:  "E-" + empID,
		JoiningDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Salary:      decimal.NewFromInt(5000),
		PhoneNumber: "0500000000",
	}
	if err := f.db.Create(emp).Error; err != nil {
		t.Fatalf("seed employee %s: %v", empID, err)
	}
	return emp
}

func (f *fixture) seedInventory(t *testing.T, number, name string, qty int, unitPrice decimal.Decimal) *model.Inventory {
	t.Helper()
	inv := &model.Inventory{
		InventoryNumber:  number,
		Name:             name,
		ProductionDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:       time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:         qty,
		PerQuantityPrice: unitPrice,
		BillNumber:       "BILL-" + number,
		SupplierName:     "Acme Supplies",
	}
	inv.Recalculate()
	if err := f.db.Create(inv).Error; err != nil {
		t.Fatalf("seed inventory %s: %v", number, err)
	}
	return inv
}

func (f *fixture) seedProject(t *testing.T, budget, dayRate, hourRate decimal.Decimal) *model.Project {
	t.Helper()
	project := &model.Project{
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC),
		ProjectType:   "CONSTRUCTION",
		ProjectStage:  "PLANNING",
		ProjectBudget: budget,
		PerDayRate:    dayRate,
		PerHourRate:   hourRate,
	}
	if err := f.db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func (f *fixture) countNotifications(t *testing.T, recipientID, notifType string) int64 {
	t.Helper()
	var count int64
	q := f.db.Model(&model.Notification{}).Where("type = ?", notifType)
	if recipientID != "" {
		q = q.Where("recipient_id = ?", recipientID)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return count
}

func testInventoryPayload(name string, qty int, unitPrice decimal.Decimal) InventoryPayload {
	return InventoryPayload{
		Name:             name,
		ProductionDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:       time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
		Quantity:         qty,
		PerQuantityPrice: unitPrice,
		BillNumber:       "BILL-7001",
		SupplierName:     "Acme Supplies",
	}
}
