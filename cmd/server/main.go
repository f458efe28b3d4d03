package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	adapterhttp "github.com/iho/splitclear/internal/adapter/http"
	"github.com/iho/splitclear/internal/adapter/http/handler"
	"github.com/iho/splitclear/internal/adapter/ledgerapi"
	redisrepo "github.com/iho/splitclear/internal/adapter/repository/redis"
	"github.com/iho/splitclear/internal/infrastructure/auth"
	"github.com/iho/splitclear/internal/infrastructure/config"
	"github.com/iho/splitclear/internal/infrastructure/idgen"
	"github.com/iho/splitclear/internal/infrastructure/logger"
	infraredis "github.com/iho/splitclear/internal/infrastructure/redis"
	"github.com/iho/splitclear/internal/usecase"
)

type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "json")
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway := ledgerapi.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.Timeout, log)

	// The cache is advisory: without redis every balance read goes upstream,
	// which is slower but correct.
	var (
		cache       usecase.Cache
		idempotency *redisrepo.IdempotencyStore
		pingers     = map[string]handler.Pinger{}
	)
	if redisClient, err := infraredis.NewClient(ctx, cfg.Redis.URL); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cache = redisrepo.NewCache(redisClient, "splitclear:")
		idempotency = redisrepo.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)
		pingers["redis"] = redisPinger{client: redisClient}
	}

	expenses := usecase.NewExpenseUseCase(gateway, cache)
	balances := usecase.NewBalanceUseCase(gateway, cache, cfg.Redis.BalanceCacheTTL)
	clearing := usecase.NewClearingUseCase(gateway, cache, idgen.NewULID())
	members := usecase.NewMemberUseCase(gateway)
	dashboard := usecase.NewDashboardUseCase(expenses, balances)

	deps := adapterhttp.RouterDeps{
		Expenses:  handler.NewExpenseHandler(expenses, clearing, log),
		Members:   handler.NewMemberHandler(members, log),
		Balances:  handler.NewBalanceHandler(balances, log),
		Dashboard: handler.NewDashboardHandler(dashboard, log),
		Health:    handler.NewHealthHandler(pingers),
		Verifier:  auth.NewJWTManager(cfg.Auth.JWTSecret),
		Logger:    log,
	}
	if idempotency != nil {
		deps.IdempotencyStore = idempotency
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      adapterhttp.NewRouter(deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
