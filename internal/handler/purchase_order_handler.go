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

type PurchaseOrderHandler struct {
	poService service.PurchaseOrderService
}

func NewPurchaseOrderHandler(poService service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/purchase-orders",
		middleware.RequireRole(model.RoleProjectManager, model.RoleSuperAdmin))
	{
		pos.POST("", h.Create)
		pos.POST("/from-shortage", h.CreateFromShortage)
		pos.GET("", h.List)
		pos.GET("/:id", h.Get)
		pos.PUT("/:id/status", h.UpdateStatus)
	}

	admin := router.Group("/purchase-orders",
		middleware.RequireRole(model.RoleSuperAdmin))
	{
		admin.DELETE("/:id", h.Delete)
		admin.GET("/requests/pending", h.ListPendingRequests)
		admin.POST("/requests/:id/approve", h.ApproveRequest)
		admin.POST("/requests/:id/reject", h.RejectRequest)
	}
}

// Create handles POST /purchase-orders
// @Summary      Create a purchase order
// @Description  Super-admin creations are approved immediately and advance the project to ORDER_STAGE; others wait in a pending request
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePORequest  true  "Purchase Order Payload"
// @Success      201      {object}  response.Response{data=service.POResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.Create(c.Request.Context(), currentUserID(c), currentUserRole(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, po))
}

// CreateFromShortage handles POST /purchase-orders/from-shortage
// @Summary      Raise a purchase order for an allocation shortage
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePOFromShortageRequest  true  "Shortage PO Payload"
// @Success      201      {object}  response.Response{data=service.POResponse}
// @Failure      409      {object}  response.Response
// @Router       /purchase-orders/from-shortage [post]
func (h *PurchaseOrderHandler) CreateFromShortage(c *gin.Context) {
	var req service.CreatePOFromShortageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.CreateFromShortage(c.Request.Context(), currentUserID(c), currentUserRole(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, po))
}

// List handles GET /purchase-orders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Paginated
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	pos, total, err := h.poService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, pos, total, p.Page, p.Limit))
}

// Get handles GET /purchase-orders/:id
// @Summary      Get a purchase order with its items
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response{data=service.POResponse}
// @Failure      404  {object}  response.Response
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	po, err := h.poService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

type poStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /purchase-orders/:id/status
// @Summary      Update purchase order lifecycle status
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Purchase Order ID"
// @Param        payload  body      poStatusPayload  true  "New status"
// @Success      200      {object}  response.Response{data=service.POResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders/{id}/status [put]
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	var payload poStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// Delete handles DELETE /purchase-orders/:id
// @Summary      Delete a purchase order still in CREATED state
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	if err := h.poService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// ListPendingRequests handles GET /purchase-orders/requests/pending
// @Summary      List pending purchase order approvals
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /purchase-orders/requests/pending [get]
func (h *PurchaseOrderHandler) ListPendingRequests(c *gin.Context) {
	requests, err := h.poService.ListPendingRequests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ApproveRequest handles POST /purchase-orders/requests/:id/approve
// @Summary      Approve a purchase order request
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.PORequestResponse}
// @Failure      400  {object}  response.Response
// @Router       /purchase-orders/requests/{id}/approve [post]
func (h *PurchaseOrderHandler) ApproveRequest(c *gin.Context) {
	request, err := h.poService.ApproveRequest(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// RejectRequest handles POST /purchase-orders/requests/:id/reject
// @Summary      Reject a purchase order request
// @Description  The attached purchase order is cancelled
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "Request ID"
// @Param        payload  body      rejectPayload  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.PORequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /purchase-orders/requests/{id}/reject [post]
func (h *PurchaseOrderHandler) RejectRequest(c *gin.Context) {
	var payload rejectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Rejection reason is required"))
		return
	}

	request, err := h.poService.RejectRequest(c.Request.Context(), c.Param("id"), currentUserID(c), payload.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}
