package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/shopspring/decimal"
)

func TestProjectCreateValidatesDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.projects.Create(ctx, ProjectPayload{
		StartDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		ProjectType:  "CONSTRUCTION",
		ProjectStage: "PLANNING",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("end before start err = %v, want ErrValidation", err)
	}
}

func TestProjectListPartitioned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Now()
	mk := func(start, end time.Time) {
		t.Helper()
		if _, err := f.projects.Create(ctx, ProjectPayload{
			StartDate:    start,
			EndDate:      end,
			ProjectType:  "CONSTRUCTION",
			ProjectStage: "PLANNING",
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	mk(now.AddDate(0, -1, 0), now.AddDate(0, 1, 0))  // active
	mk(now.AddDate(-1, 0, 0), now.AddDate(0, -2, 0)) // completed
	mk(now.AddDate(0, 2, 0), now.AddDate(0, 4, 0))   // upcoming

	list, err := f.projects.ListPartitioned(ctx)
	if err != nil {
		t.Fatalf("ListPartitioned: %v", err)
	}
	if len(list.Active) != 1 || len(list.Completed) != 1 || len(list.Upcoming) != 1 {
		t.Errorf("partitions = %d/%d/%d active/completed/upcoming, want 1/1/1",
			len(list.Active), len(list.Completed), len(list.Upcoming))
	}
}

func TestProjectStaffingNoDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.Zero)
	emp := f.seedEmployee(t, "Jordan Malik", "EMP-100")

	if _, err := f.projects.AssignEmployee(ctx, project.ID.String(), AssignEmployeeRequest{
		EmployeeID:    emp.ID.String(),
		RoleInProject: "Foreman",
	}); err != nil {
		t.Fatalf("AssignEmployee: %v", err)
	}
	if _, err := f.projects.AssignEmployee(ctx, project.ID.String(), AssignEmployeeRequest{
		EmployeeID: emp.ID.String(),
	}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate assignment err = %v, want ErrConflict", err)
	}

	staff, err := f.projects.ListEmployees(ctx, project.ID.String())
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(staff) != 1 {
		t.Fatalf("staff = %d, want 1", len(staff))
	}
	if staff[0].EmployeeName != "Jordan Malik" {
		t.Errorf("employee name = %q", staff[0].EmployeeName)
	}

	if err := f.projects.RemoveEmployee(ctx, project.ID.String(), emp.ID.String()); err != nil {
		t.Fatalf("RemoveEmployee: %v", err)
	}
	staff, err = f.projects.ListEmployees(ctx, project.ID.String())
	if err != nil {
		t.Fatalf("ListEmployees after remove: %v", err)
	}
	if len(staff) != 0 {
		t.Errorf("staff after remove = %d, want 0", len(staff))
	}
}

func TestTimesheetHourlyRateWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.NewFromInt(400), decimal.NewFromInt(50))
	emp := f.seedEmployee(t, "Jordan Malik", "EMP-100")

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	ts, err := f.projects.SaveTimesheet(ctx, project.ID.String(), TimesheetEntryRequest{
		EmployeeID:  emp.ID.String(),
		WorkDate:    yesterday,
		HoursWorked: decimal.NewFromInt(8),
	})
	if err != nil {
		t.Fatalf("SaveTimesheet: %v", err)
	}
	if want := decimal.NewFromInt(400); !ts.TotalAmount.Equal(want) {
		t.Errorf("amount = %s, want %s (8h x 50/h, hourly beats daily)", ts.TotalAmount, want)
	}
}

func TestTimesheetDailyRateFlat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.NewFromInt(400), decimal.Zero)
	emp := f.seedEmployee(t, "Jordan Malik", "EMP-100")

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	ts, err := f.projects.SaveTimesheet(ctx, project.ID.String(), TimesheetEntryRequest{
		EmployeeID:  emp.ID.String(),
		WorkDate:    yesterday,
		HoursWorked: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("SaveTimesheet: %v", err)
	}
	if want := decimal.NewFromInt(400); !ts.TotalAmount.Equal(want) {
		t.Errorf("amount = %s, want flat %s regardless of hours", ts.TotalAmount, want)
	}
}

func TestTimesheetRejectsFutureAndOutOfWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.NewFromInt(400), decimal.Zero)
	emp := f.seedEmployee(t, "Jordan Malik", "EMP-100")

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if _, err := f.projects.SaveTimesheet(ctx, project.ID.String(), TimesheetEntryRequest{
		EmployeeID: emp.ID.String(),
		WorkDate:   tomorrow,
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("future date err = %v, want ErrValidation", err)
	}

	// before the project started
	if _, err := f.projects.SaveTimesheet(ctx, project.ID.String(), TimesheetEntryRequest{
		EmployeeID: emp.ID.String(),
		WorkDate:   "2023-12-31",
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("pre-window date err = %v, want ErrValidation", err)
	}
}

func TestTimesheetUpsertsPerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.NewFromInt(50))
	emp := f.seedEmployee(t, "Jordan Malik", "EMP-100")

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	first, err := f.projects.SaveTimesheet(ctx, project.ID.String(), TimesheetEntryRequest{
		EmployeeID:  emp.ID.String(),
		WorkDate:    yesterday,
		HoursWorked: decimal.NewFromInt(4),
	})
	if err != nil {
		t.Fatalf("first SaveTimesheet: %v", err)
	}
	second, err := f.projects.SaveTimesheet(ctx, project.ID.String(), TimesheetEntryRequest{
		EmployeeID:  emp.ID.String(),
		WorkDate:    yesterday,
		HoursWorked: decimal.NewFromInt(9),
	})
	if err != nil {
		t.Fatalf("second SaveTimesheet: %v", err)
	}
	if first.ID != second.ID {
		t.Error("same employee and day should update the existing entry")
	}
	if want := decimal.NewFromInt(450); !second.TotalAmount.Equal(want) {
		t.Errorf("amount = %s, want %s", second.TotalAmount, want)
	}

	sheets, err := f.projects.ListTimesheets(ctx, project.ID.String(), nil, nil)
	if err != nil {
		t.Fatalf("ListTimesheets: %v", err)
	}
	if len(sheets) != 1 {
		t.Errorf("entries = %d, want 1", len(sheets))
	}
}

func TestAllocateInventoryCapsAtStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 5, decimal.NewFromInt(25))

	item, err := f.projects.AllocateInventory(ctx, project.ID.String(), AllocateInventoryRequest{
		InventoryID:      inv.ID.String(),
		RequiredQuantity: 8,
	})
	if err != nil {
		t.Fatalf("AllocateInventory: %v", err)
	}
	if item.AllocatedQuantity != 5 || item.ShortageQuantity != 3 {
		t.Errorf("allocated/shortage = %d/%d, want 5/3", item.AllocatedQuantity, item.ShortageQuantity)
	}
	if want := decimal.NewFromInt(125); !item.TotalPrice.Equal(want) {
		t.Errorf("allocation price = %s, want %s (allocated only)", item.TotalPrice, want)
	}

	var live model.Inventory
	if err := f.db.First(&live, "id = ?", inv.ID).Error; err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if live.Quantity != 0 {
		t.Errorf("stock after allocation = %d, want 0", live.Quantity)
	}
}

func TestRemoveInventoryReturnsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.Zero)
	other := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 10, decimal.NewFromInt(25))

	item, err := f.projects.AllocateInventory(ctx, project.ID.String(), AllocateInventoryRequest{
		InventoryID:      inv.ID.String(),
		RequiredQuantity: 6,
	})
	if err != nil {
		t.Fatalf("AllocateInventory: %v", err)
	}

	// the allocation belongs to project, not other
	if err := f.projects.RemoveInventory(ctx, other.ID.String(), item.ID.String()); !errors.Is(err, ErrForbidden) {
		t.Errorf("cross-project removal err = %v, want ErrForbidden", err)
	}

	if err := f.projects.RemoveInventory(ctx, project.ID.String(), item.ID.String()); err != nil {
		t.Fatalf("RemoveInventory: %v", err)
	}

	var live model.Inventory
	if err := f.db.First(&live, "id = ?", inv.ID).Error; err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if live.Quantity != 10 {
		t.Errorf("stock after removal = %d, want 10", live.Quantity)
	}
}

func TestProjectExpensesAndCashFlows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(10000), decimal.Zero, decimal.NewFromInt(50))
	emp := f.seedEmployee(t, "Jordan Malik", "EMP-100")
	inv := f.seedInventory(t, "INV0001", "Cement", 100, decimal.NewFromInt(25))

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	if _, err := f.projects.SaveTimesheet(ctx, project.ID.String(), TimesheetEntryRequest{
		EmployeeID:  emp.ID.String(),
		WorkDate:    yesterday,
		HoursWorked: decimal.NewFromInt(8), // 400
	}); err != nil {
		t.Fatalf("SaveTimesheet: %v", err)
	}
	if _, err := f.projects.AllocateInventory(ctx, project.ID.String(), AllocateInventoryRequest{
		InventoryID:      inv.ID.String(),
		RequiredQuantity: 4, // 100
	}); err != nil {
		t.Fatalf("AllocateInventory: %v", err)
	}
	if _, err := f.pos.Create(ctx, boss.ID.String(), model.RoleSuperAdmin, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    10, // 250, auto-approved
	})); err != nil {
		t.Fatalf("Create PO: %v", err)
	}

	expenses, err := f.projects.Expenses(ctx, project.ID.String())
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if want := decimal.NewFromInt(400); !expenses.TimesheetCost.Equal(want) {
		t.Errorf("timesheet cost = %s, want %s", expenses.TimesheetCost, want)
	}
	if want := decimal.NewFromInt(100); !expenses.InventoryCost.Equal(want) {
		t.Errorf("inventory cost = %s, want %s", expenses.InventoryCost, want)
	}
	if want := decimal.NewFromInt(250); !expenses.PurchaseOrders.Equal(want) {
		t.Errorf("PO cost = %s, want %s", expenses.PurchaseOrders, want)
	}
	if want := decimal.NewFromInt(750); !expenses.TotalExpense.Equal(want) {
		t.Errorf("total = %s, want %s", expenses.TotalExpense, want)
	}
	if want := decimal.NewFromInt(9250); !expenses.RemainingBudget.Equal(want) {
		t.Errorf("remaining = %s, want %s", expenses.RemainingBudget, want)
	}

	if _, err := f.projects.AddCashFlow(ctx, project.ID.String(), CashFlowRequest{
		Type:            model.CashFlowOutflow,
		Amount:          decimal.NewFromInt(-5),
		TransactionDate: time.Now(),
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative cash flow err = %v, want ErrValidation", err)
	}
	if _, err := f.projects.AddCashFlow(ctx, project.ID.String(), CashFlowRequest{
		Type:            model.CashFlowInflow,
		Amount:          decimal.NewFromInt(2000),
		TransactionDate: time.Now(),
		Description:     "client advance",
	}); err != nil {
		t.Fatalf("AddCashFlow: %v", err)
	}

	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 0, 1)
	flows, err := f.projects.ListCashFlows(ctx, project.ID.String(), start, end)
	if err != nil {
		t.Fatalf("ListCashFlows: %v", err)
	}
	if len(flows) != 1 {
		t.Fatalf("cash flows = %d, want 1", len(flows))
	}
	if flows[0].Type != model.CashFlowInflow {
		t.Errorf("flow type = %q, want INFLOW", flows[0].Type)
	}
}
