package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/smscoins/internal/api"
	"github.com/fastprodman/smscoins/internal/config"
	"github.com/fastprodman/smscoins/internal/gateway"
	"github.com/fastprodman/smscoins/internal/identity"
	"github.com/fastprodman/smscoins/internal/infra/logging"
	"github.com/fastprodman/smscoins/internal/infra/pgutils"
	"github.com/fastprodman/smscoins/internal/pricing"
	"github.com/fastprodman/smscoins/internal/ratelimit"
	pgaccounts "github.com/fastprodman/smscoins/internal/repos/accounts/postgres"
	pgdeliveries "github.com/fastprodman/smscoins/internal/repos/deliveries/postgres"
	pgrates "github.com/fastprodman/smscoins/internal/repos/rates/postgres"
	"github.com/fastprodman/smscoins/internal/services/sms"
	"github.com/fastprodman/smscoins/internal/services/wallet"
	"github.com/fastprodman/smscoins/pkg/envconf"
	"github.com/fastprodman/smscoins/pkg/shutdownqueue"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	shutdown := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdown.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdown.Add("postgres", func(context.Context) error { return dbConns.Close() })

	limiter, err := newLimiter(ctx, cfg.RateLimit, cfg.Redis, shutdown)
	if err != nil {
		return fmt.Errorf("init rate limiter: %w", err)
	}

	table, err := loadRates(ctx, dbConns, cfg.Pricing)
	if err != nil {
		return fmt.Errorf("load rates: %w", err)
	}

	gw, err := gateway.NewClient(cfg.Gateway)
	if err != nil {
		return fmt.Errorf("init gateway: %w", err)
	}

	verifier, err := identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	if err != nil {
		return fmt.Errorf("init verifier: %w", err)
	}

	// --- Services ---
	smsSrv := sms.New(pgaccounts.New(dbConns), pgdeliveries.New(dbConns), gw, table)
	walletSrv := wallet.New(dbConns)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, api.Deps{
		SMS:       smsSrv,
		Wallet:    walletSrv,
		Verifier:  verifier,
		Limiter:   limiter,
		AdminRole: cfg.Auth.AdminRole,
	}, cfg.Gateway.Timeout)

	shutdown.Add("http", func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "rate_limit_backend", cfg.RateLimit.Backend)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdown runs
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

func newLimiter(
	ctx context.Context,
	rl config.RateLimitConfig,
	rc config.RedisConfig,
	shutdown *shutdownqueue.Queue,
) (ratelimit.Limiter, error) {
	switch rl.Backend {
	case "memory":
		lim, err := ratelimit.NewMemory(rl.Max, rl.Window, rl.Capacity)
		if err != nil {
			return nil, err
		}

		return lim, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})

		err := rdb.Ping(ctx).Err()
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}

		shutdown.Add("redis", func(context.Context) error { return rdb.Close() })

		lim, err := ratelimit.NewRedis(rdb, rl.Max, rl.Window)
		if err != nil {
			return nil, err
		}

		return lim, nil

	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", rl.Backend)
	}
}

// loadRates builds the pricing table from storage, falling back to the
// built-in tiers when none are configured.
func loadRates(ctx context.Context, db *sql.DB, pc config.PricingConfig) (*pricing.Table, error) {
	rates, err := pgrates.New(db).List(ctx)
	if err != nil {
		return nil, err
	}

	if len(rates) == 0 {
		slog.Warn("no rates configured, using reference table")

		rates = pricing.ReferenceRates
	}

	table, err := pricing.NewTable(rates, pc.DefaultCoins)
	if err != nil {
		return nil, fmt.Errorf("build rate table: %w", err)
	}

	slog.Info("rate table loaded", "prefixes", len(table.Rates()), "default_price", table.DefaultPrice())

	return table, nil
}
