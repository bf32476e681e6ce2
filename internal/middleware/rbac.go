package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gradehub/gradebook-api/internal/models"
	appErrors "github.com/gradehub/gradebook-api/pkg/errors"
	"github.com/gradehub/gradebook-api/pkg/response"
)

// RBAC enforces role-based access control for routes. Record-level
// ownership checks (a student reading their own roster entry) live in the
// handlers, because the user account and the roster record only share an
// email, not an ID.
func RBAC(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		allowedRoles := make(map[models.UserRole]struct{}, len(allowed))
		for _, a := range allowed {
			allowedRoles[models.UserRole(a)] = struct{}{}
		}

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrPermissionDenied)
		c.Abort()
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
