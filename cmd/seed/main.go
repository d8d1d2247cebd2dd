// Command seed fills the store with the example inventory, or imports a JSON
// fixture given with -file.
package main

import (
	"context"
	"flag"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"turismo/internal/adapters/observability"
	"turismo/internal/seed"
	"turismo/internal/shared"
	"turismo/internal/storage/sqlstore"
)

func main() {
	file := flag.String("file", "", "JSON fixture to import (default: built-in examples)")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	db, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	defer db.Close()
	if err := sqlstore.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	repo := sqlstore.New(db)

	fx := seed.Examples()
	if *file != "" {
		fh, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("open fixture failed")
		}
		fx, err = seed.ReadFixture(fh)
		_ = fh.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("read fixture failed")
		}
	}

	// refuse the whole fixture before anything is written
	if err := fx.Validate(); err != nil {
		log.Fatal().Err(err).Msg("fixture is invalid")
	}

	log.Info().
		Int("hotels", len(fx.Hotels)).
		Int("packages", len(fx.Packages)).
		Int("workers", cfg.ImportWorkers).
		Msg("seed starting")

	// hotels first, in order, so package positions resolve to ids
	ids, err := seed.InsertHotels(ctx, repo, fx.Hotels)
	if err != nil {
		log.Fatal().Err(err).Msg("hotel import failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.ImportWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, p := range fx.Packages {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(p seed.FixturePackage) {
			defer wg.Done()
			defer sem.Release(1)

			id, err := seed.InsertPackage(ctx, repo, ids, p)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("package", p.Name).Err(err).Msg("package import failed")
				return
			}
			log.Debug().Int64("id", id).Str("package", p.Name).Msg("package imported")
		}(p)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatal().Int64("failed", n).Msg("seed finished with errors")
	}
	log.Info().Msg("seed completed")
}
