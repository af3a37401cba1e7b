package router

import (
	"github.com/greenpc/marketplace/internal/application"
	"github.com/greenpc/marketplace/internal/container"
	pginfra "github.com/greenpc/marketplace/internal/infrastructure/postgres"
	handlers "github.com/greenpc/marketplace/internal/interface/http"
	"github.com/greenpc/marketplace/internal/router/modules"
)

// InitModules constructs the services from container singletons and registers
// every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(pool)
	categoryRepo := pginfra.NewCategoryRepository(pool)
	productRepo := pginfra.NewProductRepository(pool)
	orderRepo := pginfra.NewOrderRepository(pool)
	settler := pginfra.NewSettlementRepository(pool)

	userSvc := application.NewUserService(userRepo, jwt, logger)

	catalogSvc := application.NewCatalogService(categoryRepo, productRepo, logger)
	catalogSvc.GCS = container.GetGCS()
	catalogSvc.GCSBucket = cfg.GCSBucket
	catalogSvc.ES = container.GetES()
	catalogSvc.ESProductsIndex = cfg.ESProductsIndex
	catalogSvc.WishlistSoldAllowed = cfg.WishlistSoldAllowed

	checkoutSvc := application.NewCheckoutService(orderRepo, productRepo, settler, container.GetGateway(), logger)
	checkoutSvc.Currency = cfg.PaymentCurrency
	checkoutSvc.Events = container.GetRabbitPub()

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger)))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(catalogSvc, logger), jwt, userSvc))
	r.Add(modules.NewCheckoutModule(handlers.NewCheckoutHandler(checkoutSvc, logger), jwt, userSvc))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(userSvc, catalogSvc, logger), jwt, userSvc))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
