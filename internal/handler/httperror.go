package handler

import (
	"errors"
	"net/http"

	"github.com/asadfd/erp-deployment/internal/service"
	"github.com/asadfd/erp-deployment/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps service sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, response.Error(status, err.Error()))
}

// currentUserID returns the authenticated user id set by the middleware.
func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func currentUserRole(c *gin.Context) string {
	if v, ok := c.Get("userRole"); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
