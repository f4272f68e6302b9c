package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/daninav123/resonaweb/internal/application/amortization"
	"github.com/daninav123/resonaweb/internal/application/availability"
	"github.com/daninav123/resonaweb/internal/application/booking"
	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/application/pricing"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/infrastructure/memory"
	"github.com/daninav123/resonaweb/internal/infrastructure/pdf"
	apphttp "github.com/daninav123/resonaweb/internal/interfaces/http"
	pkgjwt "github.com/daninav123/resonaweb/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routerNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	d := routerNow.AddDate(0, 0, n)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(&entity.Product{ID: "altavoz", Name: "Altavoz", Stock: 4, RealStock: 4, PricePerDay: decimal.NewFromInt(30)})
	store.AddPack(&entity.Pack{
		ID:            "pack-dj",
		Name:          "Pack DJ",
		Items:         []entity.PackItem{{ProductID: "altavoz", Quantity: 2}},
		AutoCalculate: true,
		PricePerDay:   decimal.NewFromInt(60),
		IsActive:      true,
	})
	store.AddLot(&entity.ProductPurchase{
		ID:           "lote-1",
		ProductID:    "altavoz",
		Quantity:     4,
		UnitPrice:    decimal.NewFromInt(25),
		TotalCost:    decimal.NewFromInt(100),
		PurchaseDate: day(-200),
	})

	now := func() time.Time { return routerNow }
	log := zerolog.Nop()
	availUC := availability.NewUseCase(store.Products(), store.Packs(), store.Orders(), availability.Config{
		LeadTimeBypassDays: 30,
		Now:                now,
	}, log)
	pricingUC := pricing.NewUseCase(store.Packs(), store.Products(), log)
	amortUC := amortization.NewUseCase(store, store.Products(), store.Purchases(), pdf.NewAmortizationReport(), nil, log)
	bookingUC := booking.NewUseCase(store, store.Products(), store.Packs(), store.Orders(), availUC, amortUC,
		booking.Config{LockBookings: true, Now: now}, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AvailabilityUC: availUC,
		PricingUC:      pricingUC,
		AmortizationUC: amortUC,
		BookingUC:      bookingUC,
		JWTSecret:      testJWTSecret,
		JWTIssuer:      testIssuer,
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación y roles
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SinTokenRetorna401(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/packs/pack-dj", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RutasAdminBloqueanCliente(t *testing.T) {
	app, _ := buildAPI(t)
	cliente := tokenForRole(t, pkgjwt.RoleCustomer)

	cases := map[string][2]string{
		"recalcular todos": {http.MethodPost, "/api/packs/recalculate"},
		"imputar ingreso":  {http.MethodPost, "/api/amortization/allocate"},
		"registrar lote":   {http.MethodPost, "/api/purchases"},
		"completar":        {http.MethodPost, "/api/orders/x/complete"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := call(t, app, tc[0], tc[1], cliente, map[string]string{})
			defer resp.Body.Close()
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidad y packs
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_DisponibilidadProducto(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/availability/product", tokenForRole(t, pkgjwt.RoleCustomer),
		dto.ProductAvailabilityRequest{ProductID: "altavoz", StartDate: day(3), EndDate: day(4), Quantity: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.AvailabilityResponse
	decode(t, resp, &out)
	assert.False(t, out.Available)
	require.Len(t, out.Shortages, 1)
	assert.Equal(t, "altavoz", out.Shortages[0].ProductID)
}

func TestRouter_ProductoInexistenteRetorna404(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/availability/product", tokenForRole(t, pkgjwt.RoleCustomer),
		dto.ProductAvailabilityRequest{ProductID: "nada", StartDate: day(3), EndDate: day(4), Quantity: 1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_CambioDePrecioRecalculaPacks(t *testing.T) {
	app, store := buildAPI(t)
	resp := call(t, app, http.MethodPut, "/api/products/altavoz/price", tokenForRole(t, pkgjwt.RoleAdmin),
		dto.UpdateProductPriceRequest{PricePerDay: decimal.NewFromInt(40)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.BulkRecalculateResponse
	decode(t, resp, &out)
	assert.Equal(t, 1, out.Updated)
	assert.True(t, decimal.NewFromInt(80).Equal(store.Pack("pack-dj").FinalPrice()), "40 * 2 sin descuento")
}

func TestRouter_CuerpoInvalidoRetorna400(t *testing.T) {
	app, _ := buildAPI(t)
	req := httptest.NewRequest(http.MethodPatch, "/api/packs/pack-dj", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", out.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func placeOrder(t *testing.T, app *fiber.App, auth string, qty int) *http.Response {
	return call(t, app, http.MethodPost, "/api/orders", auth, dto.PlaceOrderRequest{
		StartDate: day(5),
		EndDate:   day(7),
		Lines:     []dto.OrderLineRequest{{ProductID: "altavoz", Quantity: qty}},
	})
}

func TestRouter_PedidoCompletoYAmortizado(t *testing.T) {
	app, store := buildAPI(t)
	cliente := tokenForRole(t, pkgjwt.RoleCustomer)

	resp := placeOrder(t, app, cliente, 2)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decode(t, resp, &order)
	assert.Equal(t, testUserID, order.CustomerID, "el cliente sale del token")
	assert.True(t, decimal.NewFromInt(120).Equal(order.Total))

	resp = call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/complete", tokenForRole(t, pkgjwt.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var done dto.CompleteOrderResponse
	decode(t, resp, &done)
	assert.Equal(t, entity.OrderStatusCompleted, done.Order.Status)
	require.Len(t, done.Allocations, 1)
	assert.True(t, decimal.NewFromInt(20).Equal(done.Allocations[0].Overflow))

	lot := store.Lot("lote-1")
	assert.True(t, decimal.NewFromInt(120).Equal(lot.TotalGenerated))
	assert.True(t, lot.IsAmortized)

	resp = call(t, app, http.MethodGet, "/api/products/altavoz/amortization", cliente, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.AmortizationSummary
	decode(t, resp, &summary)
	assert.True(t, decimal.NewFromInt(120).Equal(summary.RecoveredPct))
}

func TestRouter_PedidoSinStockRetorna409ConDetalle(t *testing.T) {
	app, _ := buildAPI(t)
	resp := placeOrder(t, app, tokenForRole(t, pkgjwt.RoleCustomer), 5)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.UnavailableResponse
	decode(t, resp, &out)
	assert.Equal(t, "UNAVAILABLE", out.Code)
	assert.False(t, out.Availability.Available)
	require.NotEmpty(t, out.Availability.Shortages)
}

func TestRouter_CancelarPedidoAjenoRetorna403(t *testing.T) {
	app, store := buildAPI(t)
	resp := placeOrder(t, app, tokenForRole(t, pkgjwt.RoleCustomer), 1)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decode(t, resp, &order)

	otro := tokenFor(t, "cliente-2", pkgjwt.RoleCustomer)
	resp = call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", otro, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, entity.OrderStatusPending, store.Order(order.ID).Status)

	resp = call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", tokenForRole(t, pkgjwt.RoleCustomer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled dto.OrderResponse
	decode(t, resp, &cancelled)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
}

func TestRouter_CompletarDosVecesRetorna409(t *testing.T) {
	app, _ := buildAPI(t)
	resp := placeOrder(t, app, tokenForRole(t, pkgjwt.RoleCustomer), 1)
	var order dto.OrderResponse
	decode(t, resp, &order)

	admin := tokenForRole(t, pkgjwt.RoleAdmin)
	first := call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/complete", admin, nil)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/complete", admin, nil)
	var out dto.ErrorResponse
	decode(t, second, &out)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	assert.Equal(t, "CONFLICT", out.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Amortización
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ImputarIngresoNegativoRetorna400(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodPost, "/api/amortization/allocate", tokenForRole(t, pkgjwt.RoleAdmin),
		dto.AllocateRevenueRequest{ProductID: "altavoz", RevenueAmount: decimal.NewFromInt(-5)})
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestRouter_InformePDF(t *testing.T) {
	app, _ := buildAPI(t)
	resp := call(t, app, http.MethodGet, "/api/products/altavoz/amortization/pdf", tokenForRole(t, pkgjwt.RoleAdmin), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "amortizacion-altavoz.pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
