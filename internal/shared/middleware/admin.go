package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhall-backend/internal/shared"
)

// AdminMiddleware gates privileged operations (restore student, reverse
// payment, pricing edits, director management) to admin accounts.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok || actor.Role != shared.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
