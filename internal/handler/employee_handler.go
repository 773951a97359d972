package handler

import (
	"net/http"

	"github.com/asadfd/erp-deployment/internal/middleware"
	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/service"
	"github.com/asadfd/erp-deployment/pkg/pagination"
	"github.com/asadfd/erp-deployment/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/employees",
		middleware.RequireRole(model.RoleHRManager, model.RoleSuperAdmin))
	{
		employees.GET("", h.List)
		employees.GET("/:empId", h.Get)
		employees.PUT("/:empId", h.Update)
		employees.DELETE("/:empId", h.Delete)
	}
}

// List handles GET /employees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Paginated
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	employees, total, err := h.employeeService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, employees, total, p.Page, p.Limit))
}

// Get handles GET /employees/:empId
// @Summary      Get employee by employee number
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        empId  path      string  true  "Employee number"
// @Success      200    {object}  response.Response{data=service.EmployeeResponse}
// @Failure      404    {object}  response.Response
// @Router       /employees/{empId} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employeeService.GetByEmpID(c.Request.Context(), c.Param("empId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// Update handles PUT /employees/:empId
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        empId    path      string                         true  "Employee number"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.EmployeeResponse}
// @Failure      404      {object}  response.Response
// @Router       /employees/{empId} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), c.Param("empId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// Delete handles DELETE /employees/:empId
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        empId  path      string  true  "Employee number"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /employees/{empId} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeService.Delete(c.Request.Context(), c.Param("empId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
