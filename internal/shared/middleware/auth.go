package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studyhall-backend/internal/shared"
	"studyhall-backend/pkg/jwt"
)

const actorKey = "actor"

// AuthMiddleware validates the bearer token and puts the acting user on
// the request context. Every route behind it can assume an actor exists.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid user ID in token"})
			c.Abort()
			return
		}

		role := shared.Role(claims.Role)
		if !role.IsValid() {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid role in token"})
			c.Abort()
			return
		}

		c.Set(actorKey, shared.Actor{
			ID:   userID,
			Name: claims.Name,
			Role: role,
		})

		c.Next()
	}
}

// ActorFromContext returns the actor set by AuthMiddleware.
func ActorFromContext(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}
