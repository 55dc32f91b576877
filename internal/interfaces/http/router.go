package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Costeo-api/internal/application/analytics"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MaterialUC    *usecase.MaterialUseCase
	ProductUC     *usecase.ProductUseCase
	PurchaseUC    *inventory.PurchaseUseCase
	ProductionUC  *inventory.ProductionUseCase
	Replenishment *inventory.ReplenishmentUseCase
	ProtectionUC  *appanalytics.ProtectionUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras
// requieren rol admin o produccion y el borrado de materias primas solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(RoleAdmin, RoleProduction)
	read := RequireRole(RoleAdmin, RoleProduction, RoleViewer)

	// Materias primas y deuda
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	lotHandler := NewLotHandler(deps.PurchaseUC)
	materials := api.Group("/materials")
	materials.Get("/", read, materialHandler.List)
	materials.Post("/", write, materialHandler.Create)
	materials.Get("/:id", read, materialHandler.GetByID)
	materials.Put("/:id", write, materialHandler.Update)
	materials.Delete("/:id", RequireRole(RoleAdmin), materialHandler.Delete)
	materials.Get("/:id/debt", read, materialHandler.Debt)
	materials.Get("/:id/lots", read, lotHandler.ListByMaterial)
	api.Get("/debt", read, materialHandler.DebtSummary)

	// Lotes (compras)
	lots := api.Group("/lots")
	lots.Post("/", write, lotHandler.Register)
	lots.Put("/:id", write, lotHandler.Update)

	// Productos y receta
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", read, productHandler.List)
	products.Post("/", write, productHandler.Create)
	products.Get("/:id", read, productHandler.GetByID)
	products.Put("/:id", write, productHandler.Update)
	products.Put("/:id/composition", write, productHandler.UpdateComposition)
	products.Get("/:id/cost", read, productHandler.Cost)

	// Producción y reposición
	inventoryHandler := NewInventoryHandler(deps.ProductionUC, deps.Replenishment)
	api.Post("/production", write, inventoryHandler.RegisterProduction)
	api.Get("/inventory/replenishment-list", read, inventoryHandler.GetReplenishmentList)

	// Protección financiera
	protectionHandler := NewProtectionHandler(deps.ProtectionUC)
	protection := api.Group("/protection", read)
	protection.Get("/report", protectionHandler.GetReport)
	protection.Get("/report.pdf", protectionHandler.GetReportPDF)
	protection.Get("/health", protectionHandler.GetHealth)
	protection.Get("/decisions", protectionHandler.GetDecisions)
}
