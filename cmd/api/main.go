package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	server "turismo/internal/adapters/http_server"
	"turismo/internal/adapters/observability"
	redisad "turismo/internal/adapters/redis"
	"turismo/internal/app"
	"turismo/internal/domain"
	"turismo/internal/seed"
	"turismo/internal/shared"
	"turismo/internal/storage/sqlstore"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(reg, cfg.MetricsAddr)

	// db
	db, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	defer db.Close()
	if err := sqlstore.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection ok")

	repo := sqlstore.New(db)
	if cfg.SeedExamples {
		if _, err := seed.IfEmpty(ctx, repo); err != nil {
			log.Fatal().Err(err).Msg("seeding example data failed")
		}
	}

	// cache is optional; a nil interface turns it off
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(redisad.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; caching disabled")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	c := app.NewCommandService(repo, cache)

	views, err := server.NewViews()
	if err != nil {
		log.Fatal().Err(err).Msg("templates failed to load")
	}

	var limiter *rate.Limiter
	if cfg.WriteRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.WriteRateLimit), int(cfg.WriteRateLimit)+1)
	}

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c, Views: views, WriteLimiter: limiter})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("web app listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
