// import_lots registra como lotes de compra las filas de una hoja Excel.
//
//	import_lots -file lotes.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/daninav123/resonaweb/internal/application/amortization"
	infraexcel "github.com/daninav123/resonaweb/internal/infrastructure/excel"
	"github.com/daninav123/resonaweb/internal/infrastructure/postgres"
	"github.com/daninav123/resonaweb/pkg/config"
	"github.com/daninav123/resonaweb/pkg/logger"
)

func main() {
	file := flag.String("file", "", "hoja .xlsx con los lotes (product_id, quantity, unit_price, ...)")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "uso: import_lots -file lotes.xlsx")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir hoja")
	}
	defer f.Close()

	uc := amortization.NewUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewProductRepository(pool),
		postgres.NewPurchaseRepository(pool),
		nil, infraexcel.NewPurchaseParser(),
		log.Component("import_lots"),
	)
	res, err := uc.ImportFromSheet(ctx, f)
	if err != nil {
		log.Fatal().Err(err).Msg("importar lotes")
	}

	for _, fail := range res.Failed {
		fmt.Printf("fila %d: %s\n", fail.Row, fail.Error)
	}
	log.Info().Int("imported", res.Imported).Int("failed", len(res.Failed)).Msg("importación terminada")
	if len(res.Failed) > 0 {
		os.Exit(1)
	}
}
