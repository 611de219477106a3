package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
)

// OperationHandler endpoints de operaciones (protegido).
type OperationHandler struct {
	ops      *inventory.OperationUseCase
	validate *inventory.ValidateOperationUseCase
	cancel   *inventory.CancelOperationUseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(
	ops *inventory.OperationUseCase,
	validate *inventory.ValidateOperationUseCase,
	cancel *inventory.CancelOperationUseCase,
) *OperationHandler {
	return &OperationHandler{ops: ops, validate: validate, cancel: cancel}
}

// Create godoc
// @Summary      Crear operación (DRAFT)
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperationRequest  true  "reference, type, source/destination, lines"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.ops.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "RECEIPT | DELIVERY | INTERNAL_TRANSFER | ADJUSTMENT"
// @Param        status  query  string  false  "DRAFT | READY | DONE | CANCELLED"
// @Param        limit   query  int     false  "default 20, máx 100"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {object}  dto.OperationListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	out, err := h.ops.List(c.UserContext(), dto.ListOperationsRequest{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ops.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar operación (DRAFT -> READY)
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/confirm [post]
func (h *OperationHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.ops.Confirm(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar operación
// @Description  Aplica la operación de forma atómica: mueve stock, registra la bitácora y la marca DONE.
// @Description  Con 503 (retryable) no quedó nada aplicado y se puede repetir la llamada.
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/validate [post]
func (h *OperationHandler) Validate(c *fiber.Ctx) error {
	out, err := h.validate.Validate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar operación
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la operación"
// @Success      200  {object}  dto.OperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/cancel [post]
func (h *OperationHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.cancel.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
