// backend-go/cmd/backfill/main.go
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vendorpulse/backend-go/internal/cache"
	"github.com/vendorpulse/backend-go/internal/config"
	"github.com/vendorpulse/backend-go/internal/repository/postgres"
	"github.com/vendorpulse/backend-go/internal/service"
	"github.com/vendorpulse/backend-go/pkg/logger"
)

// backfill re-derives all four metrics for every vendor from a full order
// scan. It writes the current vendor rows only; no history snapshots are
// appended since no lifecycle event occurred.
func main() {
	app := &cli.App{
		Name:  "backfill",
		Usage: "Recompute performance metrics for every vendor",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Number of vendors recomputed in parallel",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  "vendor-code",
				Usage: "Restrict the backfill to one vendor",
			},
		},
		Action: runBackfill,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runBackfill(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	vendorRepo := postgres.NewVendorRepository(db)
	poRepo := postgres.NewPurchaseOrderRepository(db)
	historyRepo := postgres.NewPerformanceHistoryRepository(db)

	perfCache, err := cache.NewPerformanceCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Performance cache unavailable, continuing without it")
		perfCache = cache.NewNoopPerformanceCache()
	}

	perf := service.NewPerformanceService(vendorRepo, poRepo, historyRepo, perfCache)

	if code := c.String("vendor-code"); code != "" {
		vendor, err := vendorRepo.GetVendorByCode(c.Context, code)
		if err != nil {
			return err
		}
		if err := perf.RecomputeAll(c.Context, vendor.ID); err != nil {
			return err
		}
		logger.Log.Info().Str("vendor_code", code).Msg("backfill complete")
		return nil
	}

	vendors, err := vendorRepo.ListVendors(c.Context)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(c.Int("concurrency"))

	for _, vendor := range vendors {
		g.Go(func() error {
			if err := perf.RecomputeAll(ctx, vendor.ID); err != nil {
				logger.Log.Error().Err(err).Str("vendor_code", vendor.Code).Msg("backfill failed for vendor")
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Log.Info().Int("vendors", len(vendors)).Msg("backfill complete")
	return nil
}
