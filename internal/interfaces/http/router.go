package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/auth"
	"github.com/tu-usuario/stockmaster-api/internal/application/identity"
	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/application/stock"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	OrganizationUC *usecase.OrganizationUseCase
	ProductUC      *usecase.ProductUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	DashboardUC    *usecase.DashboardUseCase
	MovementUC     *movements.UseCase
	ExecuteUC      *movements.ExecuteMovementUseCase
	AdjustUC       *movements.AdjustInventoryUseCase
	StockUC        *stock.UseCase
	TenantResolver *identity.Resolver
	JWTSecret      string
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Autenticado pero sin organización aún: crear la propia
	authed := api.Group("/", AuthMiddleware(deps.JWTSecret))
	orgHandler := NewOrganizationHandler(deps.OrganizationUC)
	authed.Post("/organizations", orgHandler.Create)

	// Resto: autenticado y con organización resuelta por petición
	protected := authed.Group("/", TenantMiddleware(deps.TenantResolver))

	orgs := protected.Group("/organizations")
	orgs.Get("/me", orgHandler.Mine)
	orgs.Post("/members", RequireAdmin(), orgHandler.AddMember)
	orgs.Delete("/members/:userID", RequireAdmin(), orgHandler.RemoveMember)
	orgs.Patch("/members/:userID/role", RequireAdmin(), orgHandler.ChangeMemberRole)

	// Products: las rutas fijas van antes de /:id
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireAdmin(), productHandler.Delete)

	// Warehouses y ubicaciones: /locations fijas antes de /:id
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/locations", warehouseHandler.CreateLocation)
	warehouses.Get("/locations/all", warehouseHandler.ListAllLocations)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)

	// Stock movements: adjust y ledger/history fijas antes de /:id
	movs := protected.Group("/stock-movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.ExecuteUC, deps.AdjustUC, deps.StockUC)
	movs.Post("/", movementHandler.Create)
	movs.Get("/", movementHandler.List)
	movs.Post("/adjust", movementHandler.Adjust)
	movs.Get("/ledger/history", movementHandler.LedgerHistory)
	movs.Get("/:id", movementHandler.GetByID)
	movs.Put("/:id", movementHandler.Update)
	movs.Post("/:id/execute", movementHandler.Execute)

	// Vistas de existencias
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Get("/products", stockHandler.AllProducts)
	stockGroup.Get("/products/:id", stockHandler.ProductLocations)
	stockGroup.Get("/locations", stockHandler.AllLocations)
	stockGroup.Get("/locations/:id", stockHandler.LocationSummary)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/kpis", dashboardHandler.KPIs)
}
