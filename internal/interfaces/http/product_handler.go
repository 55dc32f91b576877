package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para productos y su receta (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto y receta"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetTenantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// List GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/products/:id (nombre, precio, margen objetivo).
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// UpdateComposition godoc
// @Summary      Reemplazar la receta
// @Description  Bloqueado (409 PRODUCT_HAS_ACTIVE_DEBT) mientras el producto tenga consumos sin stock pendientes.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateCompositionRequest  true  "Receta completa"
// @Success      200   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/composition [put]
func (h *ProductHandler) UpdateComposition(c *fiber.Ctx) error {
	var in dto.UpdateCompositionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateComposition(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cost godoc
// @Summary      Costo FIFO vigente del producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/cost [get]
func (h *ProductHandler) Cost(c *fiber.Ctx) error {
	out, err := h.uc.Cost(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
