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

// CheckoutModule wires orders, payment intents, and settlement. Everything
// here requires the Buyer role except the seller-side buyers listing.

type CheckoutModule struct {
	Handler *handlers.CheckoutHandler
	JWT     *helpers.JWTManager
	Roles   middleware.RoleResolver
}

func NewCheckoutModule(h *handlers.CheckoutHandler, jwt *helpers.JWTManager, roles middleware.RoleResolver) *CheckoutModule {
	return &CheckoutModule{Handler: h, JWT: jwt, Roles: roles}
}

func (m *CheckoutModule) Register(rg *gin.RouterGroup) {
	userLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserEmail(), nil)
	settleLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserEmail(), nil)

	buyer := rg.Group("/")
	buyer.Use(middleware.BearerAuth(m.JWT), middleware.RequireRole(m.Roles, entity.RoleBuyer), userLimiter)
	{
		buyer.POST("/orders", m.Handler.PlaceOrder)
		buyer.GET("/orders/:email", m.Handler.OrdersByBuyer)
		buyer.POST("/payments/intent", m.Handler.CreatePaymentIntent)
		buyer.GET("/payments/orders/:id", m.Handler.GetOrder)
		buyer.POST("/settlements", settleLimiter, m.Handler.Finalize)
	}

	seller := rg.Group("/")
	seller.Use(middleware.BearerAuth(m.JWT), middleware.RequireRole(m.Roles, entity.RoleSeller), userLimiter)
	{
		seller.GET("/sellers/:email/buyers", m.Handler.BuyersOfSeller)
	}
}
