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

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports", middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
	{
		reports.GET("/expenses", h.Expenses)
		reports.GET("/manpower", h.Manpower)
		reports.GET("/cashflows", h.CashFlows)
	}
}

func reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "start must be YYYY-MM-DD"))
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "end must be YYYY-MM-DD"))
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "end must not precede start"))
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Expenses handles GET /reports/expenses
// @Summary      Project expense report over a date range
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        end    query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /reports/expenses [get]
func (h *ReportHandler) Expenses(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}
	report, err := h.reportService.ProjectExpenses(c.Request.Context(), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// Manpower handles GET /reports/manpower
// @Summary      Manpower report over a date range
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        end    query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /reports/manpower [get]
func (h *ReportHandler) Manpower(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}
	report, err := h.reportService.Manpower(c.Request.Context(), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// CashFlows handles GET /reports/cashflows
// @Summary      Cash flow report over a date range
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        end    query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /reports/cashflows [get]
func (h *ReportHandler) CashFlows(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}
	report, err := h.reportService.CashFlows(c.Request.Context(), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
