package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/reports"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.LedgerUseCase
	Importer  *inventory.ImportUseCase
	Sales     *sales.SalesUseCase
	Reports   *reports.ReportsUseCase
	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API. Todo /api exige Bearer Token; catálogo, stock,
// anulaciones y reportes son de admin, las ventas de admin o cajero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Logger), AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(jwt.RoleAdmin)
	staff := RequireRole(jwt.RoleAdmin, jwt.RoleCashier)

	// Products: lectura para todos (el cajero busca por código), escritura admin
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Ledger, deps.Importer)
	products.Get("/", staff, productHandler.List)
	products.Get("/barcode/:barcode", staff, productHandler.GetByBarcode)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Post("/import", adminOnly, productHandler.Import)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/adjust", adminOnly, productHandler.Adjust)
	products.Get("/:id/ledger", adminOnly, productHandler.VerifyLedger)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Ledger)
	categories.Get("/", staff, categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Inventory ledger
	invGroup := api.Group("/inventory", adminOnly)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Sales
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup.Post("/", staff, saleHandler.Create)
	salesGroup.Get("/", staff, saleHandler.List)
	salesGroup.Get("/summary/daily", staff, saleHandler.DailySummary)
	salesGroup.Get("/summary/weekly", staff, saleHandler.WeeklySummary)
	salesGroup.Get("/summary/monthly", staff, saleHandler.MonthlySummary)
	salesGroup.Get("/top-products", staff, saleHandler.TopProducts)
	salesGroup.Get("/cashier/:cashierId", staff, saleHandler.ByCashier)
	salesGroup.Get("/:id", staff, saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", staff, saleHandler.Receipt)
	salesGroup.Post("/:id/void", adminOnly, saleHandler.Void)
	salesGroup.Delete("/:id", adminOnly, saleHandler.Delete)

	// Reports
	reportsGroup := api.Group("/reports", adminOnly)
	reportHandler := NewReportHandler(deps.Reports)
	reportsGroup.Get("/sales", reportHandler.Sales)
	reportsGroup.Get("/inventory", reportHandler.Inventory)
	reportsGroup.Get("/dashboard", reportHandler.Dashboard)
}
