package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/stock-operations-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve los contadores del tablero.
// GET /api/dashboard/stats
//
// Respuesta: DashboardStatsDTO (total_products, pending_receipts, pending_deliveries, low_stock_count).
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
