package http

import (
	"github.com/daninav123/resonaweb/internal/application/availability"
	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/gofiber/fiber/v2"
)

// AvailabilityHandler consultas de disponibilidad (protegido).
type AvailabilityHandler struct {
	uc *availability.UseCase
}

// NewAvailabilityHandler construye el handler.
func NewAvailabilityHandler(uc *availability.UseCase) *AvailabilityHandler {
	return &AvailabilityHandler{uc: uc}
}

// Product godoc
// @Summary      Disponibilidad de un producto
// @Description  Más de 30 días de antelación aprueba sin mirar stock (auto_approved).
// @Tags         availability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductAvailabilityRequest  true  "Producto, rango y cantidad"
// @Success      200   {object}  dto.AvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/availability/product [post]
func (h *AvailabilityHandler) Product(c *fiber.Ctx) error {
	var in dto.ProductAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CheckProduct(c.Context(), in.ProductID, in.StartDate, in.EndDate, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Pack godoc
// @Summary      Disponibilidad de un pack
// @Tags         availability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PackAvailabilityRequest  true  "Pack, rango y cantidad"
// @Success      200   {object}  dto.AvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/availability/pack [post]
func (h *AvailabilityHandler) Pack(c *fiber.Ctx) error {
	var in dto.PackAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CheckPack(c.Context(), in.PackID, in.StartDate, in.EndDate, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
