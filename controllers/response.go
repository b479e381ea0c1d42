package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dress-orders-api/services"
)

// respondError writes err in the API error envelope.
// Service errors map to a status by kind; anything else is a 500.
func respondError(c *gin.Context, err error) {
	var orderErr *services.OrderError
	if !errors.As(err, &orderErr) {
		log.Printf("Unexpected error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Internal server error",
			},
		})
		return
	}

	status := statusForKind(orderErr.Kind)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    orderErr.Code,
			"message": orderErr.Message,
		},
	})
}

func statusForKind(kind error) int {
	switch kind {
	case services.ErrValidation:
		return http.StatusBadRequest
	case services.ErrUnauthorized, services.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case services.ErrForbidden:
		return http.StatusForbidden
	case services.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondInvalidBody reports a request body that could not be decoded
func respondInvalidBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
