package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Well-known roles
const (
	RoleAdmin        = "admin"
	RoleAccountsTeam = "accounts-team"
	RoleEmployee     = "employee"
)

// RequireRole rejects requests whose authenticated user holds none of the
// given roles. It must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" || !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Insufficient role for this operation",
				},
			})
			return
		}
		c.Next()
	}
}
