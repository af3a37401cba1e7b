package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greenpc/marketplace/pkg/helpers"
	"github.com/greenpc/marketplace/pkg/response"
)

// CtxUserEmailKey holds the verified identity email in the Gin context.
const CtxUserEmailKey = "userEmail"

// BearerAuth verifies the Authorization: Bearer token and injects the claim
// email into the context. A missing header is a distinct failure (401) from a
// malformed or expired token (403); neither leaks which check failed beyond
// that. No user-store lookup happens here.
func BearerAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized access", nil)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			response.Error[any](c, http.StatusForbidden, "forbidden access", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusForbidden, "forbidden access", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}
