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

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/audit-logs", middleware.RequireRole(model.RoleSuperAdmin))
	{
		audit.GET("", h.List)
	}
}

// List handles GET /audit-logs
// @Summary      List audit log entries, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Paginated
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	logs, total, err := h.auditService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, logs, total, params.Page, params.Limit))
}
