package http

import (
	"fmt"

	"github.com/daninav123/resonaweb/internal/application/amortization"
	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/gofiber/fiber/v2"
)

// PurchaseHandler lotes de compra y amortización.
type PurchaseHandler struct {
	uc *amortization.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *amortization.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar lote de compra (admin)
// @Description  Suma las unidades al stock del producto.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseRequest  true  "Lote"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterPurchase(c.Context(), amortization.RegisterPurchaseInput{
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		PurchaseDate: in.PurchaseDate,
		Supplier:     in.Supplier,
		Notes:        in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Import godoc
// @Summary      Importar lotes desde Excel (admin)
// @Tags         purchases
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Hoja .xlsx"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases/import [post]
func (h *PurchaseHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo file requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()
	out, err := h.uc.ImportFromSheet(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Lotes de un producto en orden FIFO
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/purchases [get]
func (h *PurchaseHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListLots(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de amortización de un producto
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.AmortizationSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/amortization [get]
func (h *PurchaseHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Informe PDF de amortización
// @Tags         purchases
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/amortization/pdf [get]
func (h *PurchaseHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, name, err := h.uc.ReportPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(pdf)
}

// Allocate godoc
// @Summary      Imputar ingreso a los lotes (admin)
// @Description  FIFO; lo que sobra tras cubrir todos los lotes va al último.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRevenueRequest  true  "Producto e importe"
// @Success      200   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/amortization/allocate [post]
func (h *PurchaseHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRevenueRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AllocateRevenue(c.Context(), amortization.AllocateRevenueInput{
		ProductID: in.ProductID,
		Revenue:   in.RevenueAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
