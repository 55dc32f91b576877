package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
)

// LotHandler maneja las compras (lotes) de materia prima (protegido).
type LotHandler struct {
	uc *inventory.PurchaseUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.PurchaseUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar compra de un lote
// @Description  Si la materia prima tiene deuda técnica, el lote la salda primero
//
//	(compensated_quantity) y el remanente refleja lo que queda disponible.
//
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "material_id, entry_mode (roll|piece), total_price, quantity o width/length"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Register(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterLot(c.Context(), GetTenantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar lote
// @Description  Un lote ya consumido solo admite cambios de fecha y proveedor (409 LOT_TOUCHED).
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "Campos a editar"
// @Success      200   {object}  dto.LotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [put]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLot(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByMaterial GET /api/materials/:id/lots
func (h *LotHandler) ListByMaterial(c *fiber.Ctx) error {
	out, err := h.uc.ListByMaterial(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
