package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type ProjectPayload struct {
	StartDate          time.Time       `json:"start_date" binding:"required"`
	EndDate            time.Time       `json:"end_date" binding:"required"`
	ProjectType        string          `json:"project_type" binding:"required"`
	ProjectStage       string          `json:"project_stage" binding:"required"`
	ProjectDescription string          `json:"project_description"`
	ProjectBudget      decimal.Decimal `json:"project_budget"`
	PerDayRate         decimal.Decimal `json:"per_day_rate"`
	PerHourRate        decimal.Decimal `json:"per_hour_rate"`
}

type AssignEmployeeRequest struct {
	EmployeeID    string `json:"employee_id" binding:"required"`
	RoleInProject string `json:"role_in_project"`
}

type TimesheetEntryRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required"`
	WorkDate    string          `json:"work_date" binding:"required"` // YYYY-MM-DD
	HoursWorked decimal.Decimal `json:"hours_worked"`
	Comments    string          `json:"comments"`
}

type AllocateInventoryRequest struct {
	InventoryID      string `json:"inventory_id" binding:"required"`
	RequiredQuantity int    `json:"required_quantity" binding:"required,gt=0"`
}

type CashFlowRequest struct {
	Type            string          `json:"type" binding:"required,oneof=INFLOW OUTFLOW"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	Description     string          `json:"description"`
}

type ProjectResponse struct {
	ID                 uuid.UUID       `json:"id"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	ProjectType        string          `json:"project_type"`
	ProjectStage       string          `json:"project_stage"`
	ProjectDescription string          `json:"project_description"`
	ProjectBudget      decimal.Decimal `json:"project_budget"`
	PerDayRate         decimal.Decimal `json:"per_day_rate"`
	PerHourRate        decimal.Decimal `json:"per_hour_rate"`
}

type ProjectListResponse struct {
	Active    []ProjectResponse `json:"active"`
	Completed []ProjectResponse `json:"completed"`
	Upcoming  []ProjectResponse `json:"upcoming"`
}

type ProjectEmployeeResponse struct {
	ID            uuid.UUID `json:"id"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	EmpID         string    `json:"emp_id"`
	AssignedDate  time.Time `json:"assigned_date"`
	RoleInProject string    `json:"role_in_project"`
}

type TimesheetResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	EmployeeID   uuid.UUID       `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	WorkDate     time.Time       `json:"work_date"`
	HoursWorked  decimal.Decimal `json:"hours_worked"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Comments     string          `json:"comments"`
}

type TimesheetDayStats struct {
	Date          string          `json:"date"`
	EmployeeCount int64           `json:"employee_count"`
	TotalHours    decimal.Decimal `json:"total_hours"`
}

type ProjectInventoryResponse struct {
	ID                uuid.UUID       `json:"id"`
	InventoryID       uuid.UUID       `json:"inventory_id"`
	InventoryName     string          `json:"inventory_name"`
	RequiredQuantity  int             `json:"required_quantity"`
	AllocatedQuantity int             `json:"allocated_quantity"`
	ShortageQuantity  int             `json:"shortage_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	POCreated         bool            `json:"po_created"`
}

type ExpenseBreakdown struct {
	ProjectID       uuid.UUID       `json:"project_id"`
	TimesheetCost   decimal.Decimal `json:"timesheet_cost"`
	InventoryCost   decimal.Decimal `json:"inventory_cost"`
	PurchaseOrders  decimal.Decimal `json:"purchase_order_cost"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	ProjectBudget   decimal.Decimal `json:"project_budget"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
}

type CashFlowResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProjectID       uuid.UUID       `json:"project_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description"`
}

// ProjectService manages projects, their staffing, daily timesheets,
// inventory allocations and cash flows.
type ProjectService interface {
	Create(ctx context.Context, payload ProjectPayload) (*ProjectResponse, error)
	Get(ctx context.Context, id string) (*ProjectResponse, error)
	ListPartitioned(ctx context.Context) (*ProjectListResponse, error)
	Update(ctx context.Context, id string, payload ProjectPayload) (*ProjectResponse, error)
	Delete(ctx context.Context, id string) error

	AssignEmployee(ctx context.Context, projectID string, req AssignEmployeeRequest) (*ProjectEmployeeResponse, error)
	RemoveEmployee(ctx context.Context, projectID, employeeID string) error
	ListEmployees(ctx context.Context, projectID string) ([]ProjectEmployeeResponse, error)

	SaveTimesheet(ctx context.Context, projectID string, req TimesheetEntryRequest) (*TimesheetResponse, error)
	ListTimesheets(ctx context.Context, projectID string, start, end *time.Time) ([]TimesheetResponse, error)
	TimesheetStatsForDate(ctx context.Context, projectID string, date time.Time) (*TimesheetDayStats, error)

	AllocateInventory(ctx context.Context, projectID string, req AllocateInventoryRequest) (*ProjectInventoryResponse, error)
	ListInventory(ctx context.Context, projectID string) ([]ProjectInventoryResponse, error)
	RemoveInventory(ctx context.Context, projectID, itemID string) error

	Expenses(ctx context.Context, projectID string) (*ExpenseBreakdown, error)

	AddCashFlow(ctx context.Context, projectID string, req CashFlowRequest) (*CashFlowResponse, error)
	ListCashFlows(ctx context.Context, projectID string, start, end time.Time) ([]CashFlowResponse, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	empRepo     repository.EmployeeRepository
	tsRepo      repository.TimesheetRepository
	projInvRepo repository.ProjectInventoryRepository
	invRepo     repository.InventoryRepository
	poRepo      repository.PurchaseOrderRepository
	cfRepo      repository.CashFlowRepository
	txManager   repository.TransactionManager
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	empRepo repository.EmployeeRepository,
	tsRepo repository.TimesheetRepository,
	projInvRepo repository.ProjectInventoryRepository,
	invRepo repository.InventoryRepository,
	poRepo repository.PurchaseOrderRepository,
	cfRepo repository.CashFlowRepository,
	txManager repository.TransactionManager,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		empRepo:     empRepo,
		tsRepo:      tsRepo,
		projInvRepo: projInvRepo,
		invRepo:     invRepo,
		poRepo:      poRepo,
		cfRepo:      cfRepo,
		txManager:   txManager,
	}
}

func toProjectResponse(p *model.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:                 p.ID,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		ProjectType:        p.ProjectType,
		ProjectStage:       p.ProjectStage,
		ProjectDescription: p.ProjectDescription,
		ProjectBudget:      p.ProjectBudget,
		PerDayRate:         p.PerDayRate,
		PerHourRate:        p.PerHourRate,
	}
}

func (s *projectService) mustProject(ctx context.Context, id string) (*model.Project, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", ErrValidation)
	}
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project", ErrNotFound)
		}
		return nil, err
	}
	return project, nil
}

func (s *projectService) Create(ctx context.Context, payload ProjectPayload) (*ProjectResponse, error) {
	if payload.EndDate.Before(payload.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	project := &model.Project{
		StartDate:          payload.StartDate,
		EndDate:            payload.EndDate,
		ProjectType:        payload.ProjectType,
		ProjectStage:       payload.ProjectStage,
		ProjectDescription: payload.ProjectDescription,
		ProjectBudget:      payload.ProjectBudget,
		PerDayRate:         payload.PerDayRate,
		PerHourRate:        payload.PerHourRate,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) Get(ctx context.Context, id string) (*ProjectResponse, error) {
	project, err := s.mustProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) ListPartitioned(ctx context.Context) (*ProjectListResponse, error) {
	today := time.Now()

	active, err := s.projectRepo.ListActive(ctx, today)
	if err != nil {
		return nil, err
	}
	completed, err := s.projectRepo.ListCompleted(ctx, today)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.projectRepo.ListUpcoming(ctx, today)
	if err != nil {
		return nil, err
	}

	res := &ProjectListResponse{
		Active:    make([]ProjectResponse, 0, len(active)),
		Completed: make([]ProjectResponse, 0, len(completed)),
		Upcoming:  make([]ProjectResponse, 0, len(upcoming)),
	}
	for i := range active {
		res.Active = append(res.Active, *toProjectResponse(&active[i]))
	}
	for i := range completed {
		res.Completed = append(res.Completed, *toProjectResponse(&completed[i]))
	}
	for i := range upcoming {
		res.Upcoming = append(res.Upcoming, *toProjectResponse(&upcoming[i]))
	}
	return res, nil
}

func (s *projectService) Update(ctx context.Context, id string, payload ProjectPayload) (*ProjectResponse, error) {
	if payload.EndDate.Before(payload.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	project, err := s.mustProject(ctx, id)
	if err != nil {
		return nil, err
	}

	project.StartDate = payload.StartDate
	project.EndDate = payload.EndDate
	project.ProjectType = payload.ProjectType
	project.ProjectStage = payload.ProjectStage
	project.ProjectDescription = payload.ProjectDescription
	project.ProjectBudget = payload.ProjectBudget
	project.PerDayRate = payload.PerDayRate
	project.PerHourRate = payload.PerHourRate

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	project, err := s.mustProject(ctx, id)
	if err != nil {
		return err
	}
	return s.projectRepo.DeleteByID(ctx, project.ID)
}

// --- Staffing ---

func (s *projectService) AssignEmployee(ctx context.Context, projectID string, req AssignEmployeeRequest) (*ProjectEmployeeResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	empID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrValidation)
	}
	employee, err := s.empRepo.GetByID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee", ErrNotFound)
		}
		return nil, err
	}

	existing, err := s.projectRepo.ListEmployees(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	for _, pe := range existing {
		if pe.EmployeeID == empID {
			return nil, fmt.Errorf("%w: employee already assigned to project", ErrConflict)
		}
	}

	assignment := &model.ProjectEmployee{
		ProjectID:     project.ID,
		EmployeeID:    empID,
		AssignedDate:  time.Now(),
		RoleInProject: req.RoleInProject,
	}
	if err := s.projectRepo.AssignEmployee(ctx, assignment); err != nil {
		return nil, err
	}

	return &ProjectEmployeeResponse{
		ID:            assignment.ID,
		EmployeeID:    empID,
		EmployeeName:  employee.Name,
		EmpID:         employee.EmpID,
		AssignedDate:  assignment.AssignedDate,
		RoleInProject: assignment.RoleInProject,
	}, nil
}

func (s *projectService) RemoveEmployee(ctx context.Context, projectID, employeeID string) error {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return err
	}
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return fmt.Errorf("%w: invalid employee id", ErrValidation)
	}
	return s.projectRepo.RemoveEmployee(ctx, project.ID, empID)
}

func (s *projectService) ListEmployees(ctx context.Context, projectID string) ([]ProjectEmployeeResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.projectRepo.ListEmployees(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	res := make([]ProjectEmployeeResponse, 0, len(assignments))
	for _, pe := range assignments {
		entry := ProjectEmployeeResponse{
			ID:            pe.ID,
			EmployeeID:    pe.EmployeeID,
			AssignedDate:  pe.AssignedDate,
			RoleInProject: pe.RoleInProject,
		}
		if pe.Employee != nil {
			entry.EmployeeName = pe.Employee.Name
			entry.EmpID = pe.Employee.EmpID
		}
		res = append(res, entry)
	}
	return res, nil
}

// --- Timesheets ---

// timesheetAmount applies the billing rule: hourly rate when the project has
// one, otherwise a flat daily rate, otherwise zero.
func timesheetAmount(project *model.Project, hours decimal.Decimal) decimal.Decimal {
	if project.PerHourRate.IsPositive() {
		return hours.Mul(project.PerHourRate)
	}
	if project.PerDayRate.IsPositive() {
		return project.PerDayRate
	}
	return decimal.Zero
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *projectService) SaveTimesheet(ctx context.Context, projectID string, req TimesheetEntryRequest) (*TimesheetResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	empID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrValidation)
	}
	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return nil, fmt.Errorf("%w: work_date must be YYYY-MM-DD", ErrValidation)
	}
	if req.HoursWorked.IsNegative() {
		return nil, fmt.Errorf("%w: hours worked cannot be negative", ErrValidation)
	}

	// Entries exist only inside the project window and never in the future.
	today := truncateToDay(time.Now())
	if workDate.After(today) {
		return nil, fmt.Errorf("%w: cannot log time for a future date", ErrValidation)
	}
	if workDate.Before(truncateToDay(project.StartDate)) || workDate.After(truncateToDay(project.EndDate)) {
		return nil, fmt.Errorf("%w: work date is outside the project dates", ErrValidation)
	}

	var ts *model.Timesheet
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, findErr := s.tsRepo.GetForDay(txCtx, project.ID, empID, workDate)
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}
		if existing != nil {
			ts = existing
		} else {
			ts = &model.Timesheet{
				ProjectID:  project.ID,
				EmployeeID: empID,
				WorkDate:   workDate,
			}
		}

		ts.HoursWorked = req.HoursWorked
		ts.DailyRate = project.PerDayRate
		ts.HourlyRate = project.PerHourRate
		ts.TotalAmount = timesheetAmount(project, req.HoursWorked)
		ts.Comments = req.Comments

		return s.tsRepo.Save(txCtx, ts)
	})
	if err != nil {
		return nil, err
	}

	return &TimesheetResponse{
		ID:          ts.ID,
		ProjectID:   ts.ProjectID,
		EmployeeID:  ts.EmployeeID,
		WorkDate:    ts.WorkDate,
		HoursWorked: ts.HoursWorked,
		TotalAmount: ts.TotalAmount,
		Comments:    ts.Comments,
	}, nil
}

func (s *projectService) ListTimesheets(ctx context.Context, projectID string, start, end *time.Time) ([]TimesheetResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var (
		sheets []model.Timesheet
	)
	if start != nil && end != nil {
		sheets, err = s.tsRepo.ListByProjectAndRange(ctx, project.ID, *start, *end)
	} else {
		sheets, err = s.tsRepo.ListByProject(ctx, project.ID)
	}
	if err != nil {
		return nil, err
	}

	res := make([]TimesheetResponse, 0, len(sheets))
	for _, ts := range sheets {
		entry := TimesheetResponse{
			ID:          ts.ID,
			ProjectID:   ts.ProjectID,
			EmployeeID:  ts.EmployeeID,
			WorkDate:    ts.WorkDate,
			HoursWorked: ts.HoursWorked,
			TotalAmount: ts.TotalAmount,
			Comments:    ts.Comments,
		}
		if ts.Employee != nil {
			entry.EmployeeName = ts.Employee.Name
		}
		res = append(res, entry)
	}
	return res, nil
}

func (s *projectService) TimesheetStatsForDate(ctx context.Context, projectID string, date time.Time) (*TimesheetDayStats, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	count, err := s.tsRepo.CountEmployeesForDate(ctx, project.ID, date)
	if err != nil {
		return nil, err
	}
	hours, err := s.tsRepo.SumHoursForDate(ctx, project.ID, date)
	if err != nil {
		return nil, err
	}
	return &TimesheetDayStats{
		Date:          date.Format("2006-01-02"),
		EmployeeCount: count,
		TotalHours:    decimal.NewFromFloat(hours),
	}, nil
}

// --- Inventory allocation ---

func toProjectInventoryResponse(item *model.ProjectInventoryItem) *ProjectInventoryResponse {
	res := &ProjectInventoryResponse{
		ID:                item.ID,
		InventoryID:       item.InventoryID,
		RequiredQuantity:  item.RequiredQuantity,
		AllocatedQuantity: item.AllocatedQuantity,
		ShortageQuantity:  item.ShortageQuantity,
		UnitPrice:         item.UnitPrice,
		TotalPrice:        item.TotalPrice,
		POCreated:         item.POCreated,
	}
	if item.Inventory != nil {
		res.InventoryName = item.Inventory.Name
	}
	return res
}

// AllocateInventory reserves stock for a project. Allocation is capped by
// available stock; the remainder is recorded as shortage.
func (s *projectService) AllocateInventory(ctx context.Context, projectID string, req AllocateInventoryRequest) (*ProjectInventoryResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	invID, err := uuid.Parse(req.InventoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid inventory id", ErrValidation)
	}

	var item *model.ProjectInventoryItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		inv, findErr := s.invRepo.GetByIDForUpdate(txCtx, invID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: inventory", ErrNotFound)
			}
			return findErr
		}

		allocated := req.RequiredQuantity
		if inv.Quantity < allocated {
			allocated = inv.Quantity
		}
		shortage := req.RequiredQuantity - allocated

		item = &model.ProjectInventoryItem{
			ProjectID:         project.ID,
			InventoryID:       invID,
			RequiredQuantity:  req.RequiredQuantity,
			AllocatedQuantity: allocated,
			ShortageQuantity:  shortage,
			UnitPrice:         inv.PerQuantityPrice,
			TotalPrice:        inv.PerQuantityPrice.Mul(decimal.NewFromInt(int64(allocated))),
		}
		if createErr := s.projInvRepo.Create(txCtx, item); createErr != nil {
			return fmt.Errorf("failed to allocate inventory: %w", createErr)
		}

		inv.Quantity -= allocated
		inv.Recalculate()
		if saveErr := s.invRepo.Update(txCtx, inv); saveErr != nil {
			return fmt.Errorf("failed to decrement stock: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProjectInventoryResponse(item), nil
}

func (s *projectService) ListInventory(ctx context.Context, projectID string) ([]ProjectInventoryResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	items, err := s.projInvRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	res := make([]ProjectInventoryResponse, 0, len(items))
	for i := range items {
		res = append(res, *toProjectInventoryResponse(&items[i]))
	}
	return res, nil
}

// RemoveInventory releases an allocation and returns the allocated quantity
// to stock.
func (s *projectService) RemoveInventory(ctx context.Context, projectID, itemID string) error {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(itemID)
	if err != nil {
		return fmt.Errorf("%w: invalid allocation id", ErrValidation)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, findErr := s.projInvRepo.GetByID(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: allocation", ErrNotFound)
			}
			return findErr
		}
		if item.ProjectID != project.ID {
			return fmt.Errorf("%w: allocation belongs to another project", ErrForbidden)
		}

		if item.AllocatedQuantity > 0 {
			inv, invErr := s.invRepo.GetByIDForUpdate(txCtx, item.InventoryID)
			if invErr != nil && !errors.Is(invErr, gorm.ErrRecordNotFound) {
				return invErr
			}
			if inv != nil {
				inv.Quantity += item.AllocatedQuantity
				inv.Recalculate()
				if saveErr := s.invRepo.Update(txCtx, inv); saveErr != nil {
					return fmt.Errorf("failed to return stock: %w", saveErr)
				}
			}
		}
		return s.projInvRepo.DeleteByID(txCtx, item.ID)
	})
}

// --- Expenses ---

func (s *projectService) Expenses(ctx context.Context, projectID string) (*ExpenseBreakdown, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	sheets, err := s.tsRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	timesheetCost := decimal.Zero
	for _, ts := range sheets {
		timesheetCost = timesheetCost.Add(ts.TotalAmount)
	}

	invCost, err := s.projInvRepo.SumTotalPriceByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	inventoryCost := decimal.NewFromFloat(invCost)

	pos, err := s.poRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	poCost := decimal.Zero
	for _, po := range pos {
		if po.IsApproved && po.POStatus != model.POStatusCancelled {
			poCost = poCost.Add(po.TotalAmount)
		}
	}

	total := timesheetCost.Add(inventoryCost).Add(poCost)
	return &ExpenseBreakdown{
		ProjectID:       project.ID,
		TimesheetCost:   timesheetCost,
		InventoryCost:   inventoryCost,
		PurchaseOrders:  poCost,
		TotalExpense:    total,
		ProjectBudget:   project.ProjectBudget,
		RemainingBudget: project.ProjectBudget.Sub(total),
	}, nil
}

// --- Cash flows ---

func (s *projectService) AddCashFlow(ctx context.Context, projectID string, req CashFlowRequest) (*CashFlowResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	cf := &model.CashFlow{
		ProjectID:       project.ID,
		Type:            req.Type,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
	}
	if err := s.cfRepo.Create(ctx, cf); err != nil {
		return nil, err
	}
	return &CashFlowResponse{
		ID:              cf.ID,
		ProjectID:       cf.ProjectID,
		Type:            cf.Type,
		Amount:          cf.Amount,
		TransactionDate: cf.TransactionDate,
		Description:     cf.Description,
	}, nil
}

func (s *projectService) ListCashFlows(ctx context.Context, projectID string, start, end time.Time) ([]CashFlowResponse, error) {
	project, err := s.mustProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	flows, err := s.cfRepo.ListByProjectAndRange(ctx, project.ID, start, end)
	if err != nil {
		return nil, err
	}
	res := make([]CashFlowResponse, 0, len(flows))
	for _, cf := range flows {
		res = append(res, CashFlowResponse{
			ID:              cf.ID,
			ProjectID:       cf.ProjectID,
			Type:            cf.Type,
			Amount:          cf.Amount,
			TransactionDate: cf.TransactionDate,
			Description:     cf.Description,
		})
	}
	return res, nil
}
