package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
)

// StockHandler consultas de saldos y bitácora (protegido, solo lectura).
type StockHandler struct {
	uc *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockQueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListQuants godoc
// @Summary      Saldos por producto o por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "uno de product_id / location_id"
// @Param        location_id  query  string  false  "uno de product_id / location_id"
// @Success      200  {object}  dto.QuantListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/quants [get]
func (h *StockHandler) ListQuants(c *fiber.Ctx) error {
	out, err := h.uc.ListQuants(c.UserContext(), c.Query("product_id"), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetQuant godoc
// @Summary      Saldo de un producto en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   path  string  true  "producto"
// @Param        location_id  path  string  true  "ubicación"
// @Success      200  {object}  dto.QuantResponse
// @Router       /api/stock/quants/{product_id}/{location_id} [get]
func (h *StockHandler) GetQuant(c *fiber.Ctx) error {
	out, err := h.uc.GetQuant(c.UserContext(), c.Params("product_id"), c.Params("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// QueryLedger godoc
// @Summary      Historial de movimientos
// @Description  Exactamente uno de product_id (con from/to opcionales), reference o location_id (con direction).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "producto"
// @Param        from         query  string  false  "RFC3339"
// @Param        to           query  string  false  "RFC3339"
// @Param        reference    query  string  false  "referencia de operación"
// @Param        location_id  query  string  false  "ubicación"
// @Param        direction    query  string  false  "IN | OUT | ANY"
// @Success      200  {object}  dto.LedgerListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/ledger [get]
func (h *StockHandler) QueryLedger(c *fiber.Ctx) error {
	q := dto.LedgerQuery{
		ProductID:  c.Query("product_id"),
		Reference:  c.Query("reference"),
		LocationID: c.Query("location_id"),
		Direction:  c.Query("direction"),
	}
	var err error
	if q.From, err = parseTimeQuery(c, "from"); err != nil {
		return badRequest(c, "VALIDATION", "from debe tener formato RFC3339")
	}
	if q.To, err = parseTimeQuery(c, "to"); err != nil {
		return badRequest(c, "VALIDATION", "to debe tener formato RFC3339")
	}

	out, err := h.uc.QueryLedger(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliación quant vs bitácora
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "producto"
// @Param        location_id  query  string  true  "ubicación"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/reconciliation [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext(), c.Query("product_id"), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
