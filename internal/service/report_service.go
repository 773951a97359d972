package service

import (
	"context"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Days worked are derived from hours on an eight-hour working day.
var eightHourDay = decimal.NewFromInt(8)

type ProjectExpenseRow struct {
	ProjectID          uuid.UUID       `json:"project_id"`
	ProjectType        string          `json:"project_type"`
	ProjectStage       string          `json:"project_stage"`
	ProjectDescription string          `json:"project_description"`
	ProjectBudget      decimal.Decimal `json:"project_budget"`
	CashInflow         decimal.Decimal `json:"cash_inflow"`
	CashOutflow        decimal.Decimal `json:"cash_outflow"`
	NetCashFlow        decimal.Decimal `json:"net_cash_flow"`
	InventoryItems     int             `json:"inventory_items"`
	InventoryValue     decimal.Decimal `json:"inventory_value"`
	POCount            int             `json:"purchase_order_count"`
	POValue            decimal.Decimal `json:"purchase_order_value"`
	LaborCost          decimal.Decimal `json:"labor_cost"`
	LaborHours         decimal.Decimal `json:"labor_hours"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	ProfitLoss         decimal.Decimal `json:"profit_loss"`
}

type ProjectExpenseReport struct {
	Start      time.Time           `json:"start"`
	End        time.Time           `json:"end"`
	Rows       []ProjectExpenseRow `json:"rows"`
	GrandTotal decimal.Decimal     `json:"grand_total"`
}

type ManpowerProjectDetail struct {
	ProjectID          uuid.UUID       `json:"project_id"`
	ProjectDescription string          `json:"project_description"`
	HoursWorked        decimal.Decimal `json:"hours_worked"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DailyRate          decimal.Decimal `json:"daily_rate"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	DaysWorked         decimal.Decimal `json:"days_worked"`
}

type ManpowerRow struct {
	EmployeeID   uuid.UUID               `json:"employee_id"`
	EmployeeName string                  `json:"employee_name"`
	EmpID        string                  `json:"emp_id"`
	TotalHours   decimal.Decimal         `json:"total_hours"`
	TotalAmount  decimal.Decimal         `json:"total_amount"`
	DaysWorked   decimal.Decimal         `json:"days_worked"`
	Projects     []ManpowerProjectDetail `json:"projects"`
}

type ManpowerReport struct {
	Start time.Time     `json:"start"`
	End   time.Time     `json:"end"`
	Rows  []ManpowerRow `json:"rows"`
}

type CashFlowSummaryRow struct {
	ProjectID uuid.UUID       `json:"project_id"`
	Inflow    decimal.Decimal `json:"inflow"`
	Outflow   decimal.Decimal `json:"outflow"`
	Net       decimal.Decimal `json:"net"`
}

type CashFlowReport struct {
	Start        time.Time            `json:"start"`
	End          time.Time            `json:"end"`
	Rows         []CashFlowSummaryRow `json:"rows"`
	TotalInflow  decimal.Decimal      `json:"total_inflow"`
	TotalOutflow decimal.Decimal      `json:"total_outflow"`
}

// ReportService produces date-ranged rollups. Grouping happens in memory;
// the ranges these reports cover are small enough that pushing the grouping
// into SQL buys nothing.
type ReportService interface {
	ProjectExpenses(ctx context.Context, start, end time.Time) (*ProjectExpenseReport, error)
	Manpower(ctx context.Context, start, end time.Time) (*ManpowerReport, error)
	CashFlows(ctx context.Context, start, end time.Time) (*CashFlowReport, error)
}

type reportService struct {
	projectRepo repository.ProjectRepository
	tsRepo      repository.TimesheetRepository
	poRepo      repository.PurchaseOrderRepository
	piRepo      repository.ProjectInventoryRepository
	cfRepo      repository.CashFlowRepository
}

func NewReportService(
	projectRepo repository.ProjectRepository,
	tsRepo repository.TimesheetRepository,
	poRepo repository.PurchaseOrderRepository,
	piRepo repository.ProjectInventoryRepository,
	cfRepo repository.CashFlowRepository,
) ReportService {
	return &reportService{
		projectRepo: projectRepo,
		tsRepo:      tsRepo,
		poRepo:      poRepo,
		piRepo:      piRepo,
		cfRepo:      cfRepo,
	}
}

// ProjectExpenses builds the per-project breakdown: cash movement, allocated
// inventory, approved purchase orders and labor, with the profit/loss that
// falls out of them. Projects with no activity in the range are left out.
func (s *reportService) ProjectExpenses(ctx context.Context, start, end time.Time) (*ProjectExpenseReport, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProjectExpenseReport{Start: start, End: end}
	for _, p := range projects {
		flows, cfErr := s.cfRepo.ListByProjectAndRange(ctx, p.ID, start, end)
		if cfErr != nil {
			return nil, cfErr
		}
		inflow, outflow := decimal.Zero, decimal.Zero
		for _, cf := range flows {
			if cf.Type == model.CashFlowInflow {
				inflow = inflow.Add(cf.Amount)
			} else {
				outflow = outflow.Add(cf.Amount)
			}
		}

		items, piErr := s.piRepo.ListByProject(ctx, p.ID)
		if piErr != nil {
			return nil, piErr
		}
		inventoryValue := decimal.Zero
		inventoryItems := 0
		for _, item := range items {
			inventoryValue = inventoryValue.Add(item.TotalPrice)
			inventoryItems += item.AllocatedQuantity
		}

		pos, poErr := s.poRepo.ListByProjectAndRange(ctx, p.ID, start, end)
		if poErr != nil {
			return nil, poErr
		}
		poValue := decimal.Zero
		poCount := 0
		for _, po := range pos {
			if po.IsApproved && po.POStatus != model.POStatusCancelled {
				poValue = poValue.Add(po.TotalAmount)
				poCount++
			}
		}

		sheets, tsErr := s.tsRepo.ListByProjectAndRange(ctx, p.ID, start, end)
		if tsErr != nil {
			return nil, tsErr
		}
		laborCost, laborHours := decimal.Zero, decimal.Zero
		for _, ts := range sheets {
			laborCost = laborCost.Add(ts.TotalAmount)
			laborHours = laborHours.Add(ts.HoursWorked)
		}

		if len(flows) == 0 && len(items) == 0 && poCount == 0 && len(sheets) == 0 {
			continue
		}

		totalExpenses := outflow.Add(poValue).Add(laborCost).Add(inventoryValue)
		report.Rows = append(report.Rows, ProjectExpenseRow{
			ProjectID:          p.ID,
			ProjectType:        p.ProjectType,
			ProjectStage:       p.ProjectStage,
			ProjectDescription: p.ProjectDescription,
			ProjectBudget:      p.ProjectBudget,
			CashInflow:         inflow,
			CashOutflow:        outflow,
			NetCashFlow:        inflow.Sub(outflow),
			InventoryItems:     inventoryItems,
			InventoryValue:     inventoryValue,
			POCount:            poCount,
			POValue:            poValue,
			LaborCost:          laborCost,
			LaborHours:         laborHours,
			TotalExpenses:      totalExpenses,
			ProfitLoss:         inflow.Sub(totalExpenses),
		})
		report.GrandTotal = report.GrandTotal.Add(totalExpenses)
	}
	return report, nil
}

func (s *reportService) Manpower(ctx context.Context, start, end time.Time) (*ManpowerReport, error) {
	sheets, err := s.tsRepo.ListByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	descriptions := make(map[uuid.UUID]string, len(projects))
	for _, p := range projects {
		descriptions[p.ID] = p.ProjectDescription
	}

	type projectAcc struct {
		hours      decimal.Decimal
		amount     decimal.Decimal
		dailyRate  decimal.Decimal
		hourlyRate decimal.Decimal
	}
	type acc struct {
		name         string
		empID        string
		hours        decimal.Decimal
		amount       decimal.Decimal
		byProject    map[uuid.UUID]*projectAcc
		projectOrder []uuid.UUID
	}
	byEmployee := make(map[uuid.UUID]*acc)
	order := make([]uuid.UUID, 0)
	for _, ts := range sheets {
		entry, ok := byEmployee[ts.EmployeeID]
		if !ok {
			entry = &acc{byProject: make(map[uuid.UUID]*projectAcc)}
			if ts.Employee != nil {
				entry.name = ts.Employee.Name
				entry.empID = ts.Employee.EmpID
			}
			byEmployee[ts.EmployeeID] = entry
			order = append(order, ts.EmployeeID)
		}
		entry.hours = entry.hours.Add(ts.HoursWorked)
		entry.amount = entry.amount.Add(ts.TotalAmount)

		pa, ok := entry.byProject[ts.ProjectID]
		if !ok {
			pa = &projectAcc{}
			entry.byProject[ts.ProjectID] = pa
			entry.projectOrder = append(entry.projectOrder, ts.ProjectID)
		}
		pa.hours = pa.hours.Add(ts.HoursWorked)
		pa.amount = pa.amount.Add(ts.TotalAmount)
		if !ts.DailyRate.IsZero() {
			pa.dailyRate = ts.DailyRate
		}
		if !ts.HourlyRate.IsZero() {
			pa.hourlyRate = ts.HourlyRate
		}
	}

	report := &ManpowerReport{Start: start, End: end}
	for _, id := range order {
		entry := byEmployee[id]
		row := ManpowerRow{
			EmployeeID:   id,
			EmployeeName: entry.name,
			EmpID:        entry.empID,
			TotalHours:   entry.hours,
			TotalAmount:  entry.amount,
			DaysWorked:   entry.hours.DivRound(eightHourDay, 2),
		}
		for _, projectID := range entry.projectOrder {
			pa := entry.byProject[projectID]
			row.Projects = append(row.Projects, ManpowerProjectDetail{
				ProjectID:          projectID,
				ProjectDescription: descriptions[projectID],
				HoursWorked:        pa.hours,
				TotalAmount:        pa.amount,
				DailyRate:          pa.dailyRate,
				HourlyRate:         pa.hourlyRate,
				DaysWorked:         pa.hours.DivRound(eightHourDay, 2),
			})
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func (s *reportService) CashFlows(ctx context.Context, start, end time.Time) (*CashFlowReport, error) {
	flows, err := s.cfRepo.ListByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	type acc struct {
		in  decimal.Decimal
		out decimal.Decimal
	}
	byProject := make(map[uuid.UUID]*acc)
	order := make([]uuid.UUID, 0)
	for _, cf := range flows {
		entry, ok := byProject[cf.ProjectID]
		if !ok {
			entry = &acc{}
			byProject[cf.ProjectID] = entry
			order = append(order, cf.ProjectID)
		}
		if cf.Type == model.CashFlowInflow {
			entry.in = entry.in.Add(cf.Amount)
		} else {
			entry.out = entry.out.Add(cf.Amount)
		}
	}

	report := &CashFlowReport{Start: start, End: end}
	for _, id := range order {
		entry := byProject[id]
		report.Rows = append(report.Rows, CashFlowSummaryRow{
			ProjectID: id,
			Inflow:    entry.in,
			Outflow:   entry.out,
			Net:       entry.in.Sub(entry.out),
		})
		report.TotalInflow = report.TotalInflow.Add(entry.in)
		report.TotalOutflow = report.TotalOutflow.Add(entry.out)
	}
	return report, nil
}
