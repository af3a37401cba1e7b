package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenpc/marketplace/internal/container"
	"github.com/greenpc/marketplace/internal/domain/entity"
	handlers "github.com/greenpc/marketplace/internal/interface/http"
	"github.com/greenpc/marketplace/internal/interface/middleware"
	"github.com/greenpc/marketplace/pkg/helpers"
)

// AdminModule wires moderation: account management, seller verification, and
// reported-item cleanup. Seller verification was an open endpoint upstream;
// here it sits behind the Admin guard like the rest.

type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
	Roles   middleware.RoleResolver
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager, roles middleware.RoleResolver) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt, Roles: roles}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserEmail(), nil)

	admin := rg.Group("/admin")
	admin.Use(middleware.BearerAuth(m.JWT), middleware.RequireRole(m.Roles, entity.RoleAdmin), limiter)
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/sellers", m.Handler.ListSellers)
		admin.DELETE("/sellers/:id", m.Handler.DeleteUser)
		admin.PUT("/sellers/:id/verify", m.Handler.VerifySeller)
		admin.GET("/buyers", m.Handler.ListBuyers)
		admin.DELETE("/buyers/:id", m.Handler.DeleteUser)
		admin.GET("/reported-products", m.Handler.ReportedProducts)
		admin.DELETE("/reported-products/:id", m.Handler.DeleteReportedProduct)
	}
}
