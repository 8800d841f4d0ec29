package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Skyshop/internal/basket"
	"Skyshop/internal/catalog"
	"Skyshop/internal/config"
	"Skyshop/internal/gateway"
	"Skyshop/internal/session"
	"Skyshop/pkg/kit"
)

const service = "skyshop"

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain returns the process exit code; deferred cleanup runs before main exits.
func runMain(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("skyshop stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg config.Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()

	store := catalog.NewStore()
	if cfg.SeedDemoData {
		if err := catalog.Seed(store, cfg.FixedPrice); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		log.Info("catalog seeded",
			zap.Int("products", store.ProductCount()),
			zap.Int("articles", store.ArticleCount()),
		)
	}

	baskets, closeBaskets, err := newBasketStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeBaskets()

	deps := gateway.Deps{
		Catalog: &catalog.Server{
			Store:         store,
			Search:        catalog.NewSearcher(store, reg),
			Log:           log,
			CreateLimiter: kit.NewIPRateLimiter(cfg.ProductCreateLimit, time.Minute),
		},
		Basket: &basket.Server{
			Service: basket.NewService(store, baskets, log, reg),
			Log:     log,
		},
		Sessions: &session.Manager{
			Signer: session.NewSigner(cfg.SessionSecret, cfg.SessionTTL),
			Log:    log,
			Secure: cfg.SecureCookies,
		},
		ReadyChecks: map[string]func(context.Context) error{
			"basket-store": baskets.Ping,
		},
	}

	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		TrustProxy:     cfg.TrustProxy,
	})
	if err != nil {
		return fmt.Errorf("init handler: %w", err)
	}

	return kit.RunHTTPServer(cfg.HTTPAddr, h, log, cfg.ShutdownTimeout)
}

func newBasketStore(cfg config.Config, log *zap.Logger) (basket.Store, func(), error) {
	switch cfg.BasketBackend {
	case config.BackendRedis:
		client, err := basket.NewRedisClient(context.Background(), cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		log.Info("basket store: redis", zap.String("addr", cfg.RedisAddr))
		return basket.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
	default:
		mem := basket.NewMemStore(cfg.SessionTTL)
		go mem.Start()
		log.Info("basket store: memory", zap.Duration("idle_ttl", cfg.SessionTTL))
		return mem, mem.Stop, nil
	}
}
