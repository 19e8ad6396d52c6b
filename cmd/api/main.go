package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/config"
	httptransport "github.com/okaditya84/Spam-Contact-Search-API/internal/http"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/http/handler"
	httpmiddleware "github.com/okaditya84/Spam-Contact-Search-API/internal/http/middleware"
	apimiddleware "github.com/okaditya84/Spam-Contact-Search-API/internal/middleware"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/repository"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/server"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newPGXPool,
			newUserRepository,
			newContactRepository,
			newSpamRepository,
			newTokenRepository,
			newRateLimiter,
			service.NewAccountService,
			service.NewDirectoryService,
			service.NewSpamService,
			handler.NewAuthHandler,
			handler.NewDirectoryHandler,
			handler.NewSpamHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			newHTTPServer,
		),
		fx.Invoke(useTelemetry, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newContactRepository(pool *pgxpool.Pool) repository.ContactRepository {
	return repository.NewPostgresContactRepo(pool)
}

func newSpamRepository(pool *pgxpool.Pool) repository.SpamRepository {
	return repository.NewPostgresSpamRepo(pool)
}

func newTokenRepository(pool *pgxpool.Pool) repository.TokenRepository {
	return repository.NewPostgresTokenRepo(pool)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newAuthMiddleware(accounts *service.AccountService) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{Accounts: accounts}
}

func newHTTPServer(engine *gin.Engine, logger *zap.Logger) *server.HTTPServer {
	return server.NewHTTPServer(engine, logger)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
