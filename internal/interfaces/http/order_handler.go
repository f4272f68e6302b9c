package http

import (
	"github.com/daninav123/resonaweb/internal/application/booking"
	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler reservas.
type OrderHandler struct {
	uc *booking.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *booking.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Description  El cliente es el usuario del token. 409 UNAVAILABLE con el detalle si falta stock.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "Fechas y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.UnavailableResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.PlaceOrder(c.Context(), booking.InputFromRequest(GetUserID(c), in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ownedOrder(c)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar pedido (admin)
// @Description  Imputa el ingreso de cada producto a sus lotes.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.CompleteOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.CompleteOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Un cliente solo puede cancelar sus propios pedidos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if !IsAdmin(c) {
		own, err := h.ownedOrder(c)
		if err != nil || own == nil {
			return err
		}
	}
	out, err := h.uc.CancelOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ownedOrder carga el pedido y comprueba que pertenece al usuario (o que es admin).
// Si devuelve nil, nil la respuesta de error ya está escrita.
func (h *OrderHandler) ownedOrder(c *fiber.Ctx) (*dto.OrderResponse, error) {
	out, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return nil, writeError(c, err)
	}
	if !IsAdmin(c) && out.CustomerID != GetUserID(c) {
		return nil, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el pedido pertenece a otro cliente"})
	}
	return out, nil
}
