package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// AdminTokenHeader carries the admin session token
	AdminTokenHeader = "X-Admin-Token"

	contextAdminToken = "admin_token"
	contextIsAdmin    = "is_admin"
)

// TokenValidator reports whether a token belongs to a live admin session
type TokenValidator interface {
	IsAdmin(token string) bool
}

// ResolveAdmin reads the admin token from X-Admin-Token or an
// "Authorization: Bearer" header and records in the context whether it is a
// live session. Requests without a valid token continue as customers.
func ResolveAdmin(sessions TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c.Request)
		c.Set(contextAdminToken, token)
		c.Set(contextIsAdmin, token != "" && sessions.IsAdmin(token))
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless ResolveAdmin found a live admin session
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Forbidden: Admin access only.",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ExtractToken returns the admin token carried by r, or ""
func ExtractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(AdminTokenHeader)); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// IsAdmin reports whether the request was resolved as admin
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get(contextIsAdmin)
	if !exists {
		return false
	}
	isAdmin, ok := v.(bool)
	return ok && isAdmin
}

// GetAdminToken extracts the raw admin token from the Gin context
func GetAdminToken(c *gin.Context) (string, error) {
	token, exists := c.Get(contextAdminToken)
	if !exists {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Admin token not found in context"}
	}

	tokenStr, ok := token.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_TOKEN", Message: "Admin token is not a string"}
	}
	if tokenStr == "" {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Admin token not provided"}
	}

	return tokenStr, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
