package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenpc/marketplace/internal/domain/entity"
	"github.com/greenpc/marketplace/pkg/response"
)

// RoleResolver looks up the actor's stored role by email. Implementations hit
// the user store on every call; roles are never cached so an Admin revocation
// takes effect on the next request.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (entity.Role, error)
}

// RequireRole rejects any request whose resolved role is not exactly the
// expected one. It must run after BearerAuth; a request that never carried a
// valid token does not reach this guard.
func RequireRole(resolver RoleResolver, expected entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(CtxUserEmailKey)
		if email == "" {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized access", nil)
			c.Abort()
			return
		}
		role, err := resolver.ResolveRole(c.Request.Context(), email)
		if err != nil || role != expected {
			response.Error[any](c, http.StatusForbidden, "forbidden access", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
