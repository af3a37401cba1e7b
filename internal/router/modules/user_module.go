package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenpc/marketplace/internal/container"
	handlers "github.com/greenpc/marketplace/internal/interface/http"
	"github.com/greenpc/marketplace/internal/interface/middleware"
)

// UserModule wires account registration, login, and the public profile and
// role-flag lookups.
// Public: POST /api/auth/register, POST /api/auth/login, POST /api/auth/refresh,
// GET /api/users/:email, GET /api/users/:email/is-{seller,buyer,admin}

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	rg.GET("/users/:email", m.Handler.GetProfile)
	rg.GET("/users/:email/is-seller", m.Handler.IsSeller)
	rg.GET("/users/:email/is-buyer", m.Handler.IsBuyer)
	rg.GET("/users/:email/is-admin", m.Handler.IsAdmin)
}
