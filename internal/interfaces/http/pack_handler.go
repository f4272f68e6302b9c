package http

import (
	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/application/pricing"
	"github.com/gofiber/fiber/v2"
)

// PackHandler precios de packs y productos.
type PackHandler struct {
	uc *pricing.UseCase
}

// NewPackHandler construye el handler.
func NewPackHandler(uc *pricing.UseCase) *PackHandler {
	return &PackHandler{uc: uc}
}

// GetByID godoc
// @Summary      Obtener pack
// @Tags         packs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pack"
// @Success      200  {object}  dto.PackResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packs/{id} [get]
func (h *PackHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetPack(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar pack (admin)
// @Description  Los campos omitidos no cambian. Con auto_calculate el precio se recalcula al guardar.
// @Tags         packs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del pack"
// @Param        body  body  dto.UpdatePackRequest  true  "Cambios"
// @Success      200   {object}  dto.PackResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/packs/{id} [patch]
func (h *PackHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePackRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePack(c.Context(), c.Params("id"), pricing.OptionsFromRequest(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recalculate godoc
// @Summary      Recalcular precio de un pack (admin)
// @Tags         packs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pack"
// @Success      200  {object}  dto.PackResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packs/{id}/recalculate [post]
func (h *PackHandler) Recalculate(c *fiber.Ctx) error {
	out, err := h.uc.Recalculate(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecalculateAll godoc
// @Summary      Recalcular todos los packs automáticos (admin)
// @Description  Un pack que falla no detiene al resto; se devuelve en failed.
// @Tags         packs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BulkRecalculateResponse
// @Router       /api/packs/recalculate [post]
func (h *PackHandler) RecalculateAll(c *fiber.Ctx) error {
	out, err := h.uc.RecalculateAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProductPrice godoc
// @Summary      Cambiar precio diario de un producto (admin)
// @Description  Recalcula los packs automáticos que lo incluyen.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del producto"
// @Param        body  body  dto.UpdateProductPriceRequest  true  "Nuevo precio"
// @Success      200   {object}  dto.BulkRecalculateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price [put]
func (h *PackHandler) UpdateProductPrice(c *fiber.Ctx) error {
	var in dto.UpdateProductPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateProductPrice(c.Context(), c.Params("id"), in.PricePerDay)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
