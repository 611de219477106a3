package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-operations-api/internal/application/analytics"
	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
	"github.com/jhoicas/stock-operations-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OperationUC *inventory.OperationUseCase
	ValidateUC  *inventory.ValidateOperationUseCase
	CancelUC    *inventory.CancelOperationUseCase
	StockUC     *inventory.StockQueryUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todo /api requiere Bearer Token.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleViewer)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)

	// Operations
	operations := api.Group("/operations")
	opHandler := NewOperationHandler(deps.OperationUC, deps.ValidateUC, deps.CancelUC)
	operations.Post("/", writers, opHandler.Create)
	operations.Get("/", readers, opHandler.List)
	operations.Get("/:id", readers, opHandler.GetByID)
	operations.Post("/:id/confirm", writers, opHandler.Confirm)
	operations.Post("/:id/validate", writers, opHandler.Validate)
	operations.Post("/:id/cancel", writers, opHandler.Cancel)

	// Stock (solo lectura)
	stock := api.Group("/stock", readers)
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/quants", stockHandler.ListQuants)
	stock.Get("/quants/:product_id/:location_id", stockHandler.GetQuant)
	stock.Get("/ledger", stockHandler.QueryLedger)
	stock.Get("/reconciliation", stockHandler.Reconcile)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/stats", readers, dashboardHandler.GetStats)
}
