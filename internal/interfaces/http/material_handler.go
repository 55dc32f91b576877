package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
)

// MaterialHandler maneja las peticiones HTTP de materias primas y deuda técnica (protegido).
type MaterialHandler struct {
	uc *usecase.MaterialUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *usecase.MaterialUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

// Create godoc
// @Summary      Crear materia prima
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Datos de la materia prima"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetTenantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/materials/:id
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "materia prima")
	}
	return c.JSON(out)
}

// List GET /api/materials
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar materia prima
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la materia prima"
// @Param        body  body  dto.UpdateMaterialRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "materia prima")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrado lógico de materia prima
// @Description  Se rechaza con 409 MATERIAL_HAS_DEBT mientras tenga deuda técnica pendiente.
// @Tags         materials
// @Security     Bearer
// @Param        id   path  string  true  "ID de la materia prima"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Debt GET /api/materials/:id/debt
func (h *MaterialHandler) Debt(c *fiber.Ctx) error {
	out, err := h.uc.Debt(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DebtSummary GET /api/debt
func (h *MaterialHandler) DebtSummary(c *fiber.Ctx) error {
	out, err := h.uc.DebtSummary(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
