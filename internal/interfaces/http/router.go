package http

import (
	"github.com/daninav123/resonaweb/internal/application/amortization"
	"github.com/daninav123/resonaweb/internal/application/availability"
	"github.com/daninav123/resonaweb/internal/application/booking"
	"github.com/daninav123/resonaweb/internal/application/pricing"
	"github.com/daninav123/resonaweb/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para registrar rutas.
type RouterDeps struct {
	AvailabilityUC *availability.UseCase
	PricingUC      *pricing.UseCase
	AmortizationUC *amortization.UseCase
	BookingUC      *booking.UseCase
	JWTSecret      string
	JWTIssuer      string
}

// Router registra la API bajo /api. Todas las rutas exigen JWT; las de gestión, rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	admin := RequireRole(jwt.RoleAdmin)

	availabilityH := NewAvailabilityHandler(deps.AvailabilityUC)
	api.Post("/availability/product", availabilityH.Product)
	api.Post("/availability/pack", availabilityH.Pack)

	packH := NewPackHandler(deps.PricingUC)
	api.Post("/packs/recalculate", admin, packH.RecalculateAll)
	api.Get("/packs/:id", packH.GetByID)
	api.Patch("/packs/:id", admin, packH.Update)
	api.Post("/packs/:id/recalculate", admin, packH.Recalculate)
	api.Put("/products/:id/price", admin, packH.UpdateProductPrice)

	purchaseH := NewPurchaseHandler(deps.AmortizationUC)
	api.Post("/purchases", admin, purchaseH.Create)
	api.Post("/purchases/import", admin, purchaseH.Import)
	api.Get("/products/:id/purchases", purchaseH.ListByProduct)
	api.Get("/products/:id/amortization", purchaseH.Summary)
	api.Get("/products/:id/amortization/pdf", purchaseH.ReportPDF)
	api.Post("/amortization/allocate", admin, purchaseH.Allocate)

	orderH := NewOrderHandler(deps.BookingUC)
	api.Post("/orders", orderH.Create)
	api.Get("/orders/:id", orderH.GetByID)
	api.Post("/orders/:id/complete", admin, orderH.Complete)
	api.Post("/orders/:id/cancel", orderH.Cancel)
}
