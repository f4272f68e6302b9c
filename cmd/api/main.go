package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daninav123/resonaweb/internal/application/amortization"
	"github.com/daninav123/resonaweb/internal/application/availability"
	"github.com/daninav123/resonaweb/internal/application/booking"
	"github.com/daninav123/resonaweb/internal/application/pricing"
	infraexcel "github.com/daninav123/resonaweb/internal/infrastructure/excel"
	infrapdf "github.com/daninav123/resonaweb/internal/infrastructure/pdf"
	"github.com/daninav123/resonaweb/internal/infrastructure/postgres"
	httpRouter "github.com/daninav123/resonaweb/internal/interfaces/http"
	"github.com/daninav123/resonaweb/pkg/config"
	"github.com/daninav123/resonaweb/pkg/logger"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	loc, err := cfg.Rental.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de alquiler")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	productRepo := postgres.NewProductRepository(pool)
	packRepo := postgres.NewPackRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	availabilityUC := availability.NewUseCase(productRepo, packRepo, orderRepo, availability.Config{
		LeadTimeBypassDays: cfg.Rental.LeadTimeBypassDays,
		Location:           loc,
	}, log.Component("availability"))
	pricingUC := pricing.NewUseCase(packRepo, productRepo, log.Component("pricing"))

	// PDF: informe de amortización por producto; Excel: importación de lotes
	amortizationUC := amortization.NewUseCase(
		txRunner, productRepo, purchaseRepo,
		infrapdf.NewAmortizationReport(), infraexcel.NewPurchaseParser(),
		log.Component("amortization"),
	)
	bookingUC := booking.NewUseCase(
		txRunner, productRepo, packRepo, orderRepo, availabilityUC, amortizationUC,
		booking.Config{LockBookings: cfg.Rental.LockBookings, Location: loc},
		log.Component("booking"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Resonaweb API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AvailabilityUC: availabilityUC,
		PricingUC:      pricingUC,
		AmortizationUC: amortizationUC,
		BookingUC:      bookingUC,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
