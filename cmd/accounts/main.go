// Command accounts serves the user account API.
//
// @title                       Accounts API
// @version                     1.0
// @description                 User registration, login and account management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/userbase/accounts-api/internal/api"
	"github.com/userbase/accounts-api/internal/api/handler"
	"github.com/userbase/accounts-api/internal/api/metrics"
	"github.com/userbase/accounts-api/internal/core/auth"
	"github.com/userbase/accounts-api/internal/core/ports"
	"github.com/userbase/accounts-api/internal/core/service"
	"github.com/userbase/accounts-api/internal/infrastructure/db/mongo"
	"github.com/userbase/accounts-api/internal/infrastructure/db/redis"
	"github.com/userbase/accounts-api/internal/infrastructure/db/sqlite"
	"github.com/userbase/accounts-api/internal/infrastructure/queue"
	"github.com/userbase/accounts-api/internal/pkg/config"
	"github.com/userbase/accounts-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// stores bundles the repositories selected by STORE_DRIVER.
type stores struct {
	accounts ports.AccountRepository
	audit    ports.AuditRepository
	checks   []handler.DependencyCheck
	close    func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("accounts-api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	accountsRepo := st.accounts
	checks := st.checks
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cached := redis.NewCachedAccountRepository(accountsRepo, rdb, cfg.Redis.CacheTTL, log)
		accountsRepo = cached
		checks = append(checks, handler.DependencyCheck{Name: "redis", Pinger: cached})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("account cache enabled")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, st.audit, log,
		queue.WithDropCounter(metrics.AuditEventsDroppedTotal))
	metrics.RegisterAuditQueueDepth(dispatcher.Depth)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	accounts := service.NewAccountService(
		accountsRepo,
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		dispatcher,
		cfg.TokenTTL,
		log,
	)

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Tokens:   tokens,
		Checks:   checks,
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		repo := mongo.NewAccountRepository(db)
		return &stores{
			accounts: repo,
			audit:    mongo.NewAuditRepository(db),
			checks:   []handler.DependencyCheck{{Name: "mongodb", Pinger: repo}},
			close:    client.Disconnect,
		}, nil

	default:
		db, err := sqlite.Open(sqlite.Config{Path: cfg.SQLite.Path, Debug: cfg.IsDevelopment()}, log)
		if err != nil {
			return nil, err
		}
		repo := sqlite.NewAccountRepository(db)
		return &stores{
			accounts: repo,
			audit:    sqlite.NewAuditRepository(db),
			checks:   []handler.DependencyCheck{{Name: "sqlite", Pinger: repo}},
			close:    func(context.Context) error { return sqlite.Close(db) },
		}, nil
	}
}
