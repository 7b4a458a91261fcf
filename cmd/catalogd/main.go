package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"game-tracker-go/config"
	"game-tracker-go/internal/cache"
	"game-tracker-go/internal/logging"
	"game-tracker-go/internal/rawg"
	"game-tracker-go/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("catalogd exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Init(cfg.LogLevel, cfg.LoggerFormat())

	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := server.Migrate(db); err != nil {
		return err
	}
	logger.Info("database ready")

	var upstream rawg.Upstream = rawg.NewClient(cfg.RAWGBaseURL, cfg.RAWGAPIKey, cfg.RAWGTimeout)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// The cache falls through to RAWG while redis is down
			logger.Warn("redis unreachable, continuing", "error", err)
		}
		cached := cache.NewUpstream(upstream, rdb, cfg.CacheTTL, logger)
		upstream = cached
		logger.Info("upstream cache enabled", "ttl", cfg.CacheTTL)

		hangup := make(chan os.Signal, 1)
		signal.Notify(hangup, syscall.SIGHUP)
		defer signal.Stop(hangup)
		go flushOnSignal(ctx, hangup, cached, logger)
	}

	clock := clockwork.NewRealClock()
	hub := server.NewHub()
	repo := server.NewRepository(db, clock)
	service := server.NewCatalogService(upstream, repo, hub, clock, logger)
	handler := server.NewHandler(service, hub, logger)

	srv := server.New(cfg.Port, handler, hub, cfg.ShutdownTimeout, logger)
	return srv.Run(ctx)
}

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// flushOnSignal empties the upstream cache each time sig fires, until ctx
// is done
func flushOnSignal(ctx context.Context, sig <-chan os.Signal, c invalidator, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			if err := c.Invalidate(ctx); err != nil {
				logger.Warn("failed to flush upstream cache", "error", err)
				continue
			}
			logger.Info("upstream cache flushed")
		}
	}
}
