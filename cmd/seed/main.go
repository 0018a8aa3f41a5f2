// seed carga ítems desde un CSV y los crea a través del caso de uso de ítems,
// de modo que el stock inicial queda registrado como ajuste en el libro.
//
// Uso: go run ./cmd/seed [-latin1] [-user seed] items.csv
//
// Columnas (con cabecera): sku,name,unit,cost_price,selling_price,tax_rate,reorder_level,max_stock,initial_stock
// Separador "," o ";" (se detecta en la cabecera).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1 (exportaciones de Excel)")
	user := flag.String("user", "seed", "usuario registrado como autor de los ajustes")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] [-user seed] items.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readItemsCSV(bufio.NewReader(f), *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
	store := postgres.NewStore(pool)
	adjust := inventory.NewAdjustmentUseCase(txRunner, inventory.NewLedgerWriter(), store.Adjustments)
	items := usecase.NewItemUseCase(txRunner, store.Items, adjust)

	created, skipped, err := importItems(ctx, items, *user, rows, func(line int, sku string, err error) {
		log.Warn().Int("line", line).Str("sku", sku).Err(err).Msg("ítem omitido")
	})
	if err != nil {
		log.Fatal().Err(err).Int("created", created).Msg("carga interrumpida")
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("carga finalizada")
}

// importItems crea cada fila. Filas inválidas y SKU existentes se omiten;
// un error de almacenamiento detiene la carga.
func importItems(ctx context.Context, uc *usecase.ItemUseCase, userID string, rows []csvRow, onSkip func(line int, sku string, err error)) (created, skipped int, err error) {
	for _, r := range rows {
		if r.err != nil {
			skipped++
			onSkip(r.line, r.req.SKU, r.err)
			continue
		}
		if _, err := uc.Create(ctx, userID, r.req); err != nil {
			if errors.Is(err, domain.ErrStorage) {
				return created, skipped, fmt.Errorf("línea %d: %w", r.line, err)
			}
			skipped++
			onSkip(r.line, r.req.SKU, err)
			continue
		}
		created++
	}
	return created, skipped, nil
}
