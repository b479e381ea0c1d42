package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dress-orders-api/middleware"
	"github.com/kendall-kelly/dress-orders-api/services"
)

// LoginRequest is the admin login body
type LoginRequest struct {
	Password string `json:"password"`
}

// AdminController serves admin session endpoints
type AdminController struct {
	sessions *services.SessionManager
}

// NewAdminController creates an admin controller backed by sessions
func NewAdminController(sessions *services.SessionManager) *AdminController {
	return &AdminController{sessions: sessions}
}

// Login handles POST /api/v1/admin/login
func (ctl *AdminController) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	token, ttl, err := ctl.sessions.Login(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"token":       token,
		"expiresInMs": ttl.Milliseconds(),
	})
}

// Logout handles POST /api/v1/admin/logout. The route requires a live admin token.
func (ctl *AdminController) Logout(c *gin.Context) {
	token, err := middleware.GetAdminToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": err.Error(),
			},
		})
		return
	}

	ctl.sessions.Logout(token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
