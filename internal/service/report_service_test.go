package service

import (
	"context"
	"testing"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/shopspring/decimal"
)

func TestProjectExpensesReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.NewFromInt(50))
	f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.Zero) // no spend in range
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
	if _, err := f.pos.Create(ctx, boss.ID.String(), model.RoleSuperAdmin, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    10, // 250, auto-approved
	})); err != nil {
		t.Fatalf("Create PO: %v", err)
	}
	if _, err := f.projects.AllocateInventory(ctx, project.ID.String(), AllocateInventoryRequest{
		InventoryID:      inv.ID.String(),
		RequiredQuantity: 4, // 100 allocated value
	}); err != nil {
		t.Fatalf("AllocateInventory: %v", err)
	}
	for _, cf := range []struct {
		flowType string
		amount   int64
	}{{model.CashFlowInflow, 5000}, {model.CashFlowOutflow, 100}} {
		if _, err := f.projects.AddCashFlow(ctx, project.ID.String(), CashFlowRequest{
			Type:            cf.flowType,
			Amount:          decimal.NewFromInt(cf.amount),
			TransactionDate: time.Now().AddDate(0, 0, -1),
		}); err != nil {
			t.Fatalf("AddCashFlow: %v", err)
		}
	}

	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 0, 1)
	report, err := f.reports.ProjectExpenses(ctx, start, end)
	if err != nil {
		t.Fatalf("ProjectExpenses: %v", err)
	}

	// the idle project has no spend in range and is left out
	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(report.Rows))
	}
	row := report.Rows[0]
	if row.ProjectID != project.ID {
		t.Errorf("row project = %s, want %s", row.ProjectID, project.ID)
	}
	if want := decimal.NewFromInt(400); !row.LaborCost.Equal(want) {
		t.Errorf("labor cost = %s, want %s", row.LaborCost, want)
	}
	if want := decimal.NewFromInt(8); !row.LaborHours.Equal(want) {
		t.Errorf("labor hours = %s, want %s", row.LaborHours, want)
	}
	if want := decimal.NewFromInt(250); !row.POValue.Equal(want) || row.POCount != 1 {
		t.Errorf("PO value/count = %s/%d, want %s/1", row.POValue, row.POCount, want)
	}
	if want := decimal.NewFromInt(100); !row.InventoryValue.Equal(want) || row.InventoryItems != 4 {
		t.Errorf("inventory value/items = %s/%d, want %s/4", row.InventoryValue, row.InventoryItems, want)
	}
	if !row.CashInflow.Equal(decimal.NewFromInt(5000)) || !row.CashOutflow.Equal(decimal.NewFromInt(100)) {
		t.Errorf("cash in/out = %s/%s, want 5000/100", row.CashInflow, row.CashOutflow)
	}
	if want := decimal.NewFromInt(4900); !row.NetCashFlow.Equal(want) {
		t.Errorf("net cash flow = %s, want %s", row.NetCashFlow, want)
	}
	// 100 outflow + 250 PO + 400 labor + 100 inventory
	if want := decimal.NewFromInt(850); !row.TotalExpenses.Equal(want) {
		t.Errorf("total expenses = %s, want %s", row.TotalExpenses, want)
	}
	if want := decimal.NewFromInt(4150); !row.ProfitLoss.Equal(want) {
		t.Errorf("profit/loss = %s, want %s", row.ProfitLoss, want)
	}
	if want := decimal.NewFromInt(850); !report.GrandTotal.Equal(want) {
		t.Errorf("grand total = %s, want %s", report.GrandTotal, want)
	}
}

func TestManpowerReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	site := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.NewFromInt(50))
	depot := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.NewFromInt(100))
	alice := f.seedEmployee(t, "Alice Worker", "EMP-100")
	bob := f.seedEmployee(t, "Bob Worker", "EMP-200")

	day1 := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	day2 := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	entries := []struct {
		project string
		emp     string
		day     string
		hours   int64
	}{
		{site.ID.String(), alice.ID.String(), day1, 8},
		{site.ID.String(), alice.ID.String(), day2, 6},
		{depot.ID.String(), alice.ID.String(), day1, 2},
		{site.ID.String(), bob.ID.String(), day1, 4},
	}
	for _, e := range entries {
		if _, err := f.projects.SaveTimesheet(ctx, e.project, TimesheetEntryRequest{
			EmployeeID:  e.emp,
			WorkDate:    e.day,
			HoursWorked: decimal.NewFromInt(e.hours),
		}); err != nil {
			t.Fatalf("SaveTimesheet: %v", err)
		}
	}

	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 0, 1)
	report, err := f.reports.Manpower(ctx, start, end)
	if err != nil {
		t.Fatalf("Manpower: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(report.Rows))
	}

	byName := map[string]ManpowerRow{}
	for _, row := range report.Rows {
		byName[row.EmployeeName] = row
	}
	aliceRow := byName["Alice Worker"]
	if !aliceRow.TotalHours.Equal(decimal.NewFromInt(16)) {
		t.Errorf("alice hours = %s, want 16", aliceRow.TotalHours)
	}
	if want := decimal.NewFromInt(900); !aliceRow.TotalAmount.Equal(want) {
		t.Errorf("alice amount = %s, want %s", aliceRow.TotalAmount, want)
	}
	if want := decimal.NewFromInt(2); !aliceRow.DaysWorked.Equal(want) {
		t.Errorf("alice days = %s, want %s", aliceRow.DaysWorked, want)
	}
	if len(aliceRow.Projects) != 2 {
		t.Fatalf("alice project details = %d, want 2", len(aliceRow.Projects))
	}
	byProject := map[string]ManpowerProjectDetail{}
	for _, detail := range aliceRow.Projects {
		byProject[detail.ProjectID.String()] = detail
	}
	siteDetail := byProject[site.ID.String()]
	if !siteDetail.HoursWorked.Equal(decimal.NewFromInt(14)) || !siteDetail.TotalAmount.Equal(decimal.NewFromInt(700)) {
		t.Errorf("site hours/amount = %s/%s, want 14/700", siteDetail.HoursWorked, siteDetail.TotalAmount)
	}
	if want := decimal.RequireFromString("1.75"); !siteDetail.DaysWorked.Equal(want) {
		t.Errorf("site days = %s, want %s", siteDetail.DaysWorked, want)
	}
	if !siteDetail.HourlyRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("site hourly rate = %s, want 50", siteDetail.HourlyRate)
	}
	depotDetail := byProject[depot.ID.String()]
	if !depotDetail.HoursWorked.Equal(decimal.NewFromInt(2)) || !depotDetail.TotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("depot hours/amount = %s/%s, want 2/200", depotDetail.HoursWorked, depotDetail.TotalAmount)
	}

	// a half day is half a day, not a calendar-row count
	bobRow := byName["Bob Worker"]
	if want := decimal.RequireFromString("0.5"); !bobRow.DaysWorked.Equal(want) {
		t.Errorf("bob days = %s, want %s", bobRow.DaysWorked, want)
	}
	if !bobRow.TotalHours.Equal(decimal.NewFromInt(4)) {
		t.Errorf("bob hours = %s, want 4", bobRow.TotalHours)
	}
}

func TestCashFlowReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, decimal.Zero, decimal.Zero, decimal.Zero)

	add := func(flowType string, amount int64) {
		t.Helper()
		if _, err := f.projects.AddCashFlow(ctx, project.ID.String(), CashFlowRequest{
			Type:            flowType,
			Amount:          decimal.NewFromInt(amount),
			TransactionDate: time.Now().AddDate(0, 0, -1),
		}); err != nil {
			t.Fatalf("AddCashFlow: %v", err)
		}
	}
	add(model.CashFlowInflow, 5000)
	add(model.CashFlowOutflow, 1200)
	add(model.CashFlowOutflow, 800)

	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 0, 1)
	report, err := f.reports.CashFlows(ctx, start, end)
	if err != nil {
		t.Fatalf("CashFlows: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(report.Rows))
	}
	row := report.Rows[0]
	if want := decimal.NewFromInt(5000); !row.Inflow.Equal(want) {
		t.Errorf("inflow = %s, want %s", row.Inflow, want)
	}
	if want := decimal.NewFromInt(2000); !row.Outflow.Equal(want) {
		t.Errorf("outflow = %s, want %s", row.Outflow, want)
	}
	if want := decimal.NewFromInt(3000); !row.Net.Equal(want) {
		t.Errorf("net = %s, want %s", row.Net, want)
	}
	if !report.TotalInflow.Equal(decimal.NewFromInt(5000)) || !report.TotalOutflow.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("totals = %s/%s, want 5000/2000", report.TotalInflow, report.TotalOutflow)
	}
}
