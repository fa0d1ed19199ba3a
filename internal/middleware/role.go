package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/policy"
)

// RequireRole checks that the authenticated identity holds role.
// It must run after RequireAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := GetIdentity(c)
		if !exists {
			apierrors.Forbidden(c, "Forbidden: No user logged in")
			c.Abort()
			return
		}

		if !policy.Allows(identity, role) {
			apierrors.Forbidden(c, fmt.Sprintf("Forbidden: Requires %s role", role))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin checks that the authenticated identity is an admin
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
