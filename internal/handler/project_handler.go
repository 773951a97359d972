package handler

import (
	"net/http"
	"time"

	"github.com/asadfd/erp-deployment/internal/middleware"
	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/service"
	"github.com/asadfd/erp-deployment/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService service.ProjectService
	poService      service.PurchaseOrderService
}

func NewProjectHandler(projectService service.ProjectService, poService service.PurchaseOrderService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, poService: poService}
}

func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects",
		middleware.RequireRole(model.RoleProjectManager, model.RoleSuperAdmin))
	{
		projects.POST("", h.Create)
		projects.GET("", h.ListPartitioned)
		projects.GET("/:projectId", h.Get)
		projects.PUT("/:projectId", h.Update)
		projects.DELETE("/:projectId", h.Delete)

		projects.POST("/:projectId/employees", h.AssignEmployee)
		projects.GET("/:projectId/employees", h.ListEmployees)
		projects.DELETE("/:projectId/employees/:employeeId", h.RemoveEmployee)

		projects.POST("/:projectId/timesheets", h.SaveTimesheet)
		projects.GET("/:projectId/timesheets", h.ListTimesheets)
		projects.GET("/:projectId/timesheets/stats", h.TimesheetStats)

		projects.POST("/:projectId/inventory", h.AllocateInventory)
		projects.GET("/:projectId/inventory", h.ListInventory)
		projects.DELETE("/:projectId/inventory/:itemId", h.RemoveInventory)

		projects.GET("/:projectId/expenses", h.Expenses)
		projects.GET("/:projectId/purchase-orders", h.ListPurchaseOrders)

		projects.POST("/:projectId/cashflows", h.AddCashFlow)
		projects.GET("/:projectId/cashflows", h.ListCashFlows)
	}
}

// Create handles POST /projects
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ProjectPayload  true  "Project Payload"
// @Success      201      {object}  response.Response{data=service.ProjectResponse}
// @Failure      400      {object}  response.Response
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var payload service.ProjectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// ListPartitioned handles GET /projects
// @Summary      List projects grouped by schedule
// @Description  Returns active, completed and upcoming projects relative to today
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.ProjectListResponse}
// @Router       /projects [get]
func (h *ProjectHandler) ListPartitioned(c *gin.Context) {
	projects, err := h.projectService.ListPartitioned(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, projects))
}

// Get handles GET /projects/:projectId
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response{data=service.ProjectResponse}
// @Failure      404        {object}  response.Response
// @Router       /projects/{projectId} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// Update handles PUT /projects/:projectId
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                  true  "Project ID"
// @Param        payload    body      service.ProjectPayload  true  "Project Payload"
// @Success      200        {object}  response.Response{data=service.ProjectResponse}
// @Failure      404        {object}  response.Response
// @Router       /projects/{projectId} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	var payload service.ProjectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), c.Param("projectId"), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// Delete handles DELETE /projects/:projectId
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /projects/{projectId} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), c.Param("projectId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// AssignEmployee handles POST /projects/:projectId/employees
// @Summary      Assign an employee to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                         true  "Project ID"
// @Param        payload    body      service.AssignEmployeeRequest  true  "Assignment"
// @Success      201        {object}  response.Response{data=service.ProjectEmployeeResponse}
// @Failure      409        {object}  response.Response
// @Router       /projects/{projectId}/employees [post]
func (h *ProjectHandler) AssignEmployee(c *gin.Context) {
	var req service.AssignEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	assignment, err := h.projectService.AssignEmployee(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, assignment))
}

// ListEmployees handles GET /projects/:projectId/employees
// @Summary      List employees assigned to a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response
// @Router       /projects/{projectId}/employees [get]
func (h *ProjectHandler) ListEmployees(c *gin.Context) {
	employees, err := h.projectService.ListEmployees(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employees))
}

// RemoveEmployee handles DELETE /projects/:projectId/employees/:employeeId
// @Summary      Remove an employee from a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId   path      string  true  "Project ID"
// @Param        employeeId  path      string  true  "Employee ID"
// @Success      200         {object}  response.Response
// @Router       /projects/{projectId}/employees/{employeeId} [delete]
func (h *ProjectHandler) RemoveEmployee(c *gin.Context) {
	if err := h.projectService.RemoveEmployee(c.Request.Context(), c.Param("projectId"), c.Param("employeeId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"removed": true}))
}

// SaveTimesheet handles POST /projects/:projectId/timesheets
// @Summary      Record or update a day's timesheet entry
// @Description  Upserts the entry for (employee, date). Entries are only editable inside the project window and never in the future.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                         true  "Project ID"
// @Param        payload    body      service.TimesheetEntryRequest  true  "Timesheet entry"
// @Success      200        {object}  response.Response{data=service.TimesheetResponse}
// @Failure      400        {object}  response.Response
// @Router       /projects/{projectId}/timesheets [post]
func (h *ProjectHandler) SaveTimesheet(c *gin.Context) {
	var req service.TimesheetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.projectService.SaveTimesheet(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ListTimesheets handles GET /projects/:projectId/timesheets
// @Summary      List timesheet entries for a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true   "Project ID"
// @Param        start      query     string  false  "Range start (YYYY-MM-DD)"
// @Param        end        query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200        {object}  response.Response
// @Router       /projects/{projectId}/timesheets [get]
func (h *ProjectHandler) ListTimesheets(c *gin.Context) {
	var start, end *time.Time
	if s := c.Query("start"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			start = &parsed
		}
	}
	if e := c.Query("end"); e != "" {
		if parsed, err := time.Parse("2006-01-02", e); err == nil {
			end = &parsed
		}
	}

	entries, err := h.projectService.ListTimesheets(c.Request.Context(), c.Param("projectId"), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// TimesheetStats handles GET /projects/:projectId/timesheets/stats
// @Summary      Per-date headcount and hours
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        date       query     string  true  "Date (YYYY-MM-DD)"
// @Success      200        {object}  response.Response{data=service.TimesheetDayStats}
// @Router       /projects/{projectId}/timesheets/stats [get]
func (h *ProjectHandler) TimesheetStats(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "date must be YYYY-MM-DD"))
		return
	}

	stats, err := h.projectService.TimesheetStatsForDate(c.Request.Context(), c.Param("projectId"), date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// AllocateInventory handles POST /projects/:projectId/inventory
// @Summary      Allocate inventory to a project
// @Description  Allocation is capped by available stock; the remainder is recorded as shortage
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                            true  "Project ID"
// @Param        payload    body      service.AllocateInventoryRequest  true  "Allocation"
// @Success      201        {object}  response.Response{data=service.ProjectInventoryResponse}
// @Failure      404        {object}  response.Response
// @Router       /projects/{projectId}/inventory [post]
func (h *ProjectHandler) AllocateInventory(c *gin.Context) {
	var req service.AllocateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.projectService.AllocateInventory(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListInventory handles GET /projects/:projectId/inventory
// @Summary      List a project's inventory allocations
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response
// @Router       /projects/{projectId}/inventory [get]
func (h *ProjectHandler) ListInventory(c *gin.Context) {
	items, err := h.projectService.ListInventory(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// RemoveInventory handles DELETE /projects/:projectId/inventory/:itemId
// @Summary      Release an allocation back to stock
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        itemId     path      string  true  "Allocation ID"
// @Success      200        {object}  response.Response
// @Router       /projects/{projectId}/inventory/{itemId} [delete]
func (h *ProjectHandler) RemoveInventory(c *gin.Context) {
	if err := h.projectService.RemoveInventory(c.Request.Context(), c.Param("projectId"), c.Param("itemId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"removed": true}))
}

// Expenses handles GET /projects/:projectId/expenses
// @Summary      Project expense breakdown
// @Description  Timesheet, allocation and approved purchase order costs against the budget
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response{data=service.ExpenseBreakdown}
// @Router       /projects/{projectId}/expenses [get]
func (h *ProjectHandler) Expenses(c *gin.Context) {
	expenses, err := h.projectService.Expenses(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expenses))
}

// ListPurchaseOrders handles GET /projects/:projectId/purchase-orders
// @Summary      List purchase orders raised against a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  response.Response
// @Router       /projects/{projectId}/purchase-orders [get]
func (h *ProjectHandler) ListPurchaseOrders(c *gin.Context) {
	pos, err := h.poService.ListByProject(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pos))
}

// AddCashFlow handles POST /projects/:projectId/cashflows
// @Summary      Record a cash flow transaction
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                   true  "Project ID"
// @Param        payload    body      service.CashFlowRequest  true  "Cash flow"
// @Success      201        {object}  response.Response{data=service.CashFlowResponse}
// @Failure      400        {object}  response.Response
// @Router       /projects/{projectId}/cashflows [post]
func (h *ProjectHandler) AddCashFlow(c *gin.Context) {
	var req service.CashFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cf, err := h.projectService.AddCashFlow(c.Request.Context(), c.Param("projectId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, cf))
}

// ListCashFlows handles GET /projects/:projectId/cashflows
// @Summary      List cash flows for a period
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        start      query     string  true  "Range start (YYYY-MM-DD)"
// @Param        end        query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200        {object}  response.Response
// @Router       /projects/{projectId}/cashflows [get]
func (h *ProjectHandler) ListCashFlows(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "start must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "end must be YYYY-MM-DD"))
		return
	}

	flows, err := h.projectService.ListCashFlows(c.Request.Context(), c.Param("projectId"), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, flows))
}
