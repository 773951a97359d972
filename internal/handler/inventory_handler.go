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

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory",
		middleware.RequireRole(model.RoleProjectManager, model.RoleSuperAdmin))
	{
		inventory.GET("", h.List)
		inventory.GET("/:id", h.Get)
		inventory.POST("/requests", h.SubmitCreate)
		inventory.PUT("/:id/requests", h.SubmitUpdate)
		inventory.DELETE("/:id/requests", h.SubmitDelete)
		inventory.GET("/requests/mine", h.ListMyRequests)
	}

	approvals := router.Group("/inventory/requests",
		middleware.RequireRole(model.RoleSuperAdmin))
	{
		approvals.GET("/pending", h.ListPending)
		approvals.POST("/:id/approve", h.Approve)
		approvals.POST("/:id/reject", h.Reject)
	}
}

// List handles GET /inventory
// @Summary      List inventory
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Paginated
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.inventoryService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, items, total, p.Page, p.Limit))
}

// Get handles GET /inventory/:id
// @Summary      Get inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Inventory ID"
// @Success      200  {object}  response.Response{data=service.InventoryResponse}
// @Failure      404  {object}  response.Response
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.inventoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// SubmitCreate handles POST /inventory/requests
// @Summary      Request a new inventory item
// @Description  Stages a CREATE request; the item number is allocated immediately but stock only appears after approval
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.InventoryPayload  true  "Inventory Payload"
// @Success      201      {object}  response.Response{data=service.InventoryRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /inventory/requests [post]
func (h *InventoryHandler) SubmitCreate(c *gin.Context) {
	var payload service.InventoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.inventoryService.SubmitCreate(c.Request.Context(), currentUserID(c), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// SubmitUpdate handles PUT /inventory/:id/requests
// @Summary      Request an inventory update
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Inventory ID"
// @Param        payload  body      service.InventoryPayload  true  "Inventory Payload"
// @Success      201      {object}  response.Response{data=service.InventoryRequestResponse}
// @Failure      404      {object}  response.Response
// @Router       /inventory/{id}/requests [put]
func (h *InventoryHandler) SubmitUpdate(c *gin.Context) {
	var payload service.InventoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.inventoryService.SubmitUpdate(c.Request.Context(), currentUserID(c), c.Param("id"), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// SubmitDelete handles DELETE /inventory/:id/requests
// @Summary      Request an inventory deletion
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Inventory ID"
// @Success      201  {object}  response.Response{data=service.InventoryRequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /inventory/{id}/requests [delete]
func (h *InventoryHandler) SubmitDelete(c *gin.Context) {
	request, err := h.inventoryService.SubmitDelete(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// ListMyRequests handles GET /inventory/requests/mine
// @Summary      List my inventory requests
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /inventory/requests/mine [get]
func (h *InventoryHandler) ListMyRequests(c *gin.Context) {
	requests, err := h.inventoryService.ListMyRequests(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListPending handles GET /inventory/requests/pending
// @Summary      List pending inventory requests
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /inventory/requests/pending [get]
func (h *InventoryHandler) ListPending(c *gin.Context) {
	requests, err := h.inventoryService.ListPendingRequests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Approve handles POST /inventory/requests/:id/approve
// @Summary      Approve an inventory request
// @Description  Applies the staged CREATE, UPDATE or DELETE to the live stock table
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.InventoryRequestResponse}
// @Failure      400  {object}  response.Response
// @Router       /inventory/requests/{id}/approve [post]
func (h *InventoryHandler) Approve(c *gin.Context) {
	request, err := h.inventoryService.Approve(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Reject handles POST /inventory/requests/:id/reject
// @Summary      Reject an inventory request
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "Request ID"
// @Param        payload  body      rejectPayload  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.InventoryRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /inventory/requests/{id}/reject [post]
func (h *InventoryHandler) Reject(c *gin.Context) {
	var payload rejectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Rejection reason is required"))
		return
	}

	request, err := h.inventoryService.Reject(c.Request.Context(), c.Param("id"), currentUserID(c), payload.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}
