package handler

import (
	"net/http"
	"path/filepath"

	"github.com/asadfd/erp-deployment/internal/middleware"
	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/service"
	"github.com/asadfd/erp-deployment/internal/storage"
	"github.com/asadfd/erp-deployment/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeRequestHandler struct {
	requestService service.EmployeeRequestService
	docs           *storage.DocStore
}

func NewEmployeeRequestHandler(requestService service.EmployeeRequestService, docs *storage.DocStore) *EmployeeRequestHandler {
	return &EmployeeRequestHandler{requestService: requestService, docs: docs}
}

func (h *EmployeeRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/employee-requests")
	{
		requests.POST("", middleware.RequireRole(model.RoleHRManager, model.RoleSuperAdmin), h.Submit)
		requests.GET("/mine", middleware.RequireAuth(), h.ListMine)
		requests.GET("/pending", middleware.RequireRole(model.RoleSuperAdmin), h.ListPending)
		requests.POST("/:id/approve", middleware.RequireRole(model.RoleSuperAdmin), h.Approve)
		requests.POST("/:id/reject", middleware.RequireRole(model.RoleSuperAdmin), h.Reject)
		requests.GET("/:id/documents", middleware.RequireRole(model.RoleHRManager, model.RoleSuperAdmin), h.DownloadDocs)
	}
}

// Submit handles POST /employee-requests (multipart: fields + optional zip)
// @Summary      Submit an employee creation request
// @Description  Stages a new employee for super-admin approval. Accepts an optional joining-docs zip (max 10MB) in the "documents" form field.
// @Tags         employee-requests
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=service.EmployeeRequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /employee-requests [post]
func (h *EmployeeRequestHandler) Submit(c *gin.Context) {
	var req service.SubmitEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	// Documents are optional; only reject a file that fails validation.
	docs, err := c.FormFile("documents")
	if err != nil {
		docs = nil
	}

	created, err := h.requestService.Submit(c.Request.Context(), currentUserID(c), req, docs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, created))
}

// ListMine handles GET /employee-requests/mine
// @Summary      List my employee requests
// @Tags         employee-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /employee-requests/mine [get]
func (h *EmployeeRequestHandler) ListMine(c *gin.Context) {
	requests, err := h.requestService.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListPending handles GET /employee-requests/pending
// @Summary      List pending employee requests
// @Tags         employee-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /employee-requests/pending [get]
func (h *EmployeeRequestHandler) ListPending(c *gin.Context) {
	requests, err := h.requestService.ListPending(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Approve handles POST /employee-requests/:id/approve
// @Summary      Approve an employee request
// @Description  Creates the live employee record from the request payload
// @Tags         employee-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.EmployeeRequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employee-requests/{id}/approve [post]
func (h *EmployeeRequestHandler) Approve(c *gin.Context) {
	request, err := h.requestService.Approve(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

type rejectPayload struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject handles POST /employee-requests/:id/reject
// @Summary      Reject an employee request
// @Tags         employee-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "Request ID"
// @Param        payload  body      rejectPayload  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.EmployeeRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /employee-requests/{id}/reject [post]
func (h *EmployeeRequestHandler) Reject(c *gin.Context) {
	var payload rejectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Rejection reason is required"))
		return
	}

	request, err := h.requestService.Reject(c.Request.Context(), c.Param("id"), currentUserID(c), payload.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// DownloadDocs handles GET /employee-requests/:id/documents
// @Summary      Download joining documents
// @Tags         employee-requests
// @Produce      application/zip
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /employee-requests/{id}/documents [get]
func (h *EmployeeRequestHandler) DownloadDocs(c *gin.Context) {
	path, err := h.requestService.DocsPath(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	file, err := h.docs.Open(path)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "document file missing"))
		return
	}
	file.Close()

	c.FileAttachment(path, filepath.Base(path))
}
