package handler

import (
	"net/http"

	"github.com/asadfd/erp-deployment/internal/middleware"
	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/service"
	"github.com/asadfd/erp-deployment/pkg/response"

	"github.com/gin-gonic/gin"
)

type MRFHandler struct {
	mrfService service.MRFService
}

func NewMRFHandler(mrfService service.MRFService) *MRFHandler {
	return &MRFHandler{mrfService: mrfService}
}

func (h *MRFHandler) RegisterRoutes(router *gin.RouterGroup) {
	mrfs := router.Group("/mrfs", middleware.RequireAuth())
	{
		mrfs.POST("", h.Create)
		mrfs.GET("/mine", h.ListMine)
		mrfs.GET("/number/:number", h.GetByNumber)
		mrfs.GET("/:id", h.Get)
		mrfs.PUT("/:id", h.Update)
		mrfs.DELETE("/:id", h.Delete)
	}

	decisions := router.Group("/mrfs",
		middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
	{
		decisions.GET("", h.List)
		decisions.GET("/pending", h.ListPending)
		decisions.POST("/:id/approve", h.Approve)
		decisions.POST("/:id/reject", h.Reject)
	}
}

// Create handles POST /mrfs
// @Summary      Create a material request form
// @Description  Allocates the next MRF number, totals the items and derives the approval tier
// @Tags         mrfs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.MRFPayload  true  "MRF Payload"
// @Success      201      {object}  response.Response{data=service.MRFResponse}
// @Failure      400      {object}  response.Response
// @Router       /mrfs [post]
func (h *MRFHandler) Create(c *gin.Context) {
	var payload service.MRFPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	mrf, err := h.mrfService.Create(c.Request.Context(), currentUserID(c), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, mrf))
}

// Get handles GET /mrfs/:id
// @Summary      Get an MRF
// @Tags         mrfs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "MRF ID"
// @Success      200  {object}  response.Response{data=service.MRFResponse}
// @Failure      404  {object}  response.Response
// @Router       /mrfs/{id} [get]
func (h *MRFHandler) Get(c *gin.Context) {
	mrf, err := h.mrfService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrf))
}

// GetByNumber handles GET /mrfs/number/:number
// @Summary      Get an MRF by its number
// @Tags         mrfs
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "MRF number, e.g. MRF0012"
// @Success      200     {object}  response.Response{data=service.MRFResponse}
// @Failure      404     {object}  response.Response
// @Router       /mrfs/number/{number} [get]
func (h *MRFHandler) GetByNumber(c *gin.Context) {
	mrf, err := h.mrfService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrf))
}

// List handles GET /mrfs
// @Summary      List all MRFs
// @Tags         mrfs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /mrfs [get]
func (h *MRFHandler) List(c *gin.Context) {
	mrfs, err := h.mrfService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrfs))
}

// ListMine handles GET /mrfs/mine
// @Summary      List my MRFs
// @Tags         mrfs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /mrfs/mine [get]
func (h *MRFHandler) ListMine(c *gin.Context) {
	mrfs, err := h.mrfService.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrfs))
}

// ListPending handles GET /mrfs/pending
// @Summary      List pending MRFs the caller may decide
// @Description  Admins only see forms below the super-admin threshold; super-admins see everything pending
// @Tags         mrfs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /mrfs/pending [get]
func (h *MRFHandler) ListPending(c *gin.Context) {
	mrfs, err := h.mrfService.ListPending(c.Request.Context(), currentUserRole(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrfs))
}

// Update handles PUT /mrfs/:id
// @Summary      Update a pending MRF
// @Description  Only the requester may edit, and only while the form is PENDING
// @Tags         mrfs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "MRF ID"
// @Param        payload  body      service.MRFPayload  true  "MRF Payload"
// @Success      200      {object}  response.Response{data=service.MRFResponse}
// @Failure      403      {object}  response.Response
// @Router       /mrfs/{id} [put]
func (h *MRFHandler) Update(c *gin.Context) {
	var payload service.MRFPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	mrf, err := h.mrfService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrf))
}

// Delete handles DELETE /mrfs/:id
// @Summary      Delete a pending MRF
// @Tags         mrfs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "MRF ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /mrfs/{id} [delete]
func (h *MRFHandler) Delete(c *gin.Context) {
	if err := h.mrfService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// Approve handles POST /mrfs/:id/approve
// @Summary      Approve an MRF
// @Description  Forms at or above the super-admin threshold can only be approved by a super-admin
// @Tags         mrfs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "MRF ID"
// @Success      200  {object}  response.Response{data=service.MRFResponse}
// @Failure      403  {object}  response.Response
// @Router       /mrfs/{id}/approve [post]
func (h *MRFHandler) Approve(c *gin.Context) {
	mrf, err := h.mrfService.Approve(c.Request.Context(), c.Param("id"), currentUserID(c), currentUserRole(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrf))
}

// Reject handles POST /mrfs/:id/reject
// @Summary      Reject an MRF
// @Tags         mrfs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "MRF ID"
// @Param        payload  body      rejectPayload  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.MRFResponse}
// @Failure      403      {object}  response.Response
// @Router       /mrfs/{id}/reject [post]
func (h *MRFHandler) Reject(c *gin.Context) {
	var payload rejectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Rejection reason is required"))
		return
	}

	mrf, err := h.mrfService.Reject(c.Request.Context(), c.Param("id"), currentUserID(c), currentUserRole(c), payload.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, mrf))
}
