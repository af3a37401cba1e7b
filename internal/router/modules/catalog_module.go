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

// CatalogModule wires categories and the product lifecycle. The guard chain
// on protected routes is BearerAuth then RequireRole; ownership checks live
// in the handlers.

type CatalogModule struct {
	Handler *handlers.CatalogHandler
	JWT     *helpers.JWTManager
	Roles   middleware.RoleResolver
}

func NewCatalogModule(h *handlers.CatalogHandler, jwt *helpers.JWTManager, roles middleware.RoleResolver) *CatalogModule {
	return &CatalogModule{Handler: h, JWT: jwt, Roles: roles}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	// Public feed and search
	rg.GET("/categories", m.Handler.ListCategories)
	rg.GET("/products/advertised", m.Handler.AdvertisedProducts)
	rg.GET("/products/search", m.Handler.Search)

	ipLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)
	userLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserEmail(), nil)

	seller := rg.Group("/")
	seller.Use(middleware.BearerAuth(m.JWT), middleware.RequireRole(m.Roles, entity.RoleSeller), ipLimiter, userLimiter)
	{
		seller.POST("/categories", m.Handler.CreateCategory)
		seller.GET("/categories/names", m.Handler.CategoryNames)
		seller.GET("/categories/:id", m.Handler.GetCategory)
		seller.POST("/products", m.Handler.CreateProduct)
		seller.GET("/sellers/:email/products", m.Handler.SellerProducts)
		seller.PUT("/products/:id/advertise", m.Handler.Advertise)
		seller.POST("/products/:id/image", m.Handler.UploadImage)
		seller.DELETE("/products/:id", m.Handler.DeleteProduct)
	}

	buyer := rg.Group("/")
	buyer.Use(middleware.BearerAuth(m.JWT), middleware.RequireRole(m.Roles, entity.RoleBuyer), ipLimiter, userLimiter)
	{
		buyer.GET("/products/:id", m.Handler.GetProduct)
		buyer.GET("/categories/:id/products", m.Handler.ProductsByCategory)
		buyer.PUT("/products/:id/wishlist", m.Handler.Wishlist)
		buyer.GET("/buyers/:email/wishlist", m.Handler.WishlistByBuyer)
		buyer.PUT("/products/:id/report", m.Handler.Report)
	}
}
