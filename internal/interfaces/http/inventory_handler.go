package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
)

// InventoryHandler maneja la producción y la reposición de materias primas (protegido).
type InventoryHandler struct {
	production    *inventory.ProductionUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(production *inventory.ProductionUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{production: production, replenishment: replenishment}
}

// RegisterProduction godoc
// @Summary      Registrar producción
// @Description  Consume la receta por FIFO. La falta de stock no bloquea: se registra como
//
//	deuda técnica y has_missing_materials queda en true.
//
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterProductionRequest  true  "product_id, quantity, reference"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/production [post]
func (h *InventoryHandler) RegisterProduction(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.RegisterProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.production.RegisterProduction(c.Context(), GetTenantID(c), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de compras sugeridas
// @Description  Materias primas activas cuyo saldo no cubre la deuda pendiente más 14 días
//
//	de consumo, ordenadas por días hasta el quiebre.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
