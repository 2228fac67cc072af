package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/bluberry-labs/price-engine/api/openapi"
	"github.com/bluberry-labs/price-engine/internal/api/handlers"
	"github.com/bluberry-labs/price-engine/internal/api/middleware"
	"github.com/bluberry-labs/price-engine/internal/cache"
	"github.com/bluberry-labs/price-engine/internal/catalog"
	"github.com/bluberry-labs/price-engine/internal/config"
	"github.com/bluberry-labs/price-engine/internal/ebay"
	"github.com/bluberry-labs/price-engine/internal/engine"
	"github.com/bluberry-labs/price-engine/internal/estimate"
	"github.com/bluberry-labs/price-engine/internal/notify"
	"github.com/bluberry-labs/price-engine/internal/store"
	"github.com/bluberry-labs/price-engine/internal/telemetry"
	"github.com/bluberry-labs/price-engine/pkg/llm"
	"github.com/bluberry-labs/price-engine/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and snapshot scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    "price-engine",
		ServiceVersion: Version,
		Insecure:       true,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	snapCache := buildSnapshotCache(cfg, log)

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading pricing catalog: %w", err)
	}

	limiter := ebay.NewRateLimiter(
		cfg.Ebay.RateLimit.PerSecond,
		cfg.Ebay.RateLimit.Burst,
		cfg.Ebay.RateLimit.DailyLimit,
	)
	tokens := ebay.NewOAuthTokenProvider(cfg.Ebay.AppID, cfg.Ebay.CertID,
		ebay.WithTokenURL(cfg.Ebay.TokenURL),
		ebay.WithTokenStore(st),
	)
	browse := ebay.NewBrowseClient(tokens,
		ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
		ebay.WithMarketplace(cfg.Ebay.Marketplace),
		ebay.WithRateLimiter(limiter),
	)
	analytics := ebay.NewAnalyticsClient(tokens,
		ebay.WithAnalyticsURL(cfg.Ebay.AnalyticsURL),
	)

	market := estimate.NewMarketEstimator(browse, cat,
		estimate.WithSnapshotSink(snapCache),
		estimate.WithMaxListings(cfg.Ebay.MaxListings),
		estimate.WithMarketLogger(log),
	)
	local := estimate.NewLocalEstimator(cat,
		estimate.WithSnapshots(snapCache),
		estimate.WithLocalLogger(log),
	)

	estimators := []estimate.Estimator{market}
	backend, err := buildLLMBackend(&cfg.LLM)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		// A missing key degrades the chain, it does not stop the service.
		log.Error("LLM API key missing, AI estimator disabled", "backend", cfg.LLM.Backend)
	case err != nil:
		return fmt.Errorf("configuring LLM backend: %w", err)
	case backend != nil:
		estimators = append(estimators, estimate.NewAIEstimator(backend, estimate.WithAILogger(log)))
	default:
		log.Info("no LLM backend configured, AI estimator disabled")
	}
	estimators = append(estimators, local)

	orch := estimate.NewOrchestrator(
		estimate.NewContentFilter(cat.Blocklist),
		estimators,
		estimate.WithOrchestratorLogger(log),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	// The public quota guards the pricing API only; health probes and
	// metrics scrapes must never burn caller allowance.
	publicQuota := middleware.NewQuota(cfg.Quota.Requests, cfg.Quota.Window)
	quotaMW := publicQuota.Middleware()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := quotaMW(next)
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				return guarded(c)
			}
			return next(c)
		}
	})

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e)

	api := humaecho.New(e, huma.DefaultConfig("Price Engine API", Version))
	handlers.RegisterEstimateRoutes(api, handlers.NewEstimateHandler(orch,
		handlers.WithEstimateStore(st),
		handlers.WithEstimateLogger(log),
	))
	handlers.RegisterMarketRoutes(api, handlers.NewMarketHandler(market))
	handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(st))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(publicQuota, limiter,
		handlers.WithBrowseQuota(analytics),
		handlers.WithQuotaLogger(log),
	))

	seedSnapshotCache(ctx, st, snapCache, log)

	var notifier notify.Notifier = notify.NewNoOpNotifier(log)
	if cfg.Notify.DiscordWebhookURL != "" {
		notifier = notify.NewDiscordNotifier(cfg.Notify.DiscordWebhookURL)
	}

	var sched *engine.Scheduler
	if cfg.Ebay.AppID != "" {
		collector := ebay.NewCollector(browse, ebay.WithCollectorLogger(log))
		eng := engine.NewEngine(collector, cat.EbayFilters, st,
			engine.WithLogger(log),
			engine.WithCache(snapCache),
			engine.WithNotifier(notifier),
		)
		sched, err = engine.NewScheduler(eng, cfg.Schedule.SnapshotRefreshInterval, log)
		if err != nil {
			return fmt.Errorf("creating snapshot scheduler: %w", err)
		}
		sched.Start()
	} else {
		log.Info("eBay credentials not configured, snapshot scheduler disabled")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if sched != nil {
		<-sched.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("flushing traces", "error", err)
	}

	log.Info("server stopped")
	return nil
}

// seedSnapshotCache warms the cache from persisted snapshots so local
// estimates can blend market data immediately after a restart.
func seedSnapshotCache(ctx context.Context, st store.Store, c cache.SnapshotCache, log *slog.Logger) {
	snaps, err := st.ListSnapshots(ctx)
	if err != nil {
		log.Warn("seeding snapshot cache", "error", err)
		return
	}
	for i := range snaps {
		c.Put(ctx, &snaps[i])
	}
	if len(snaps) > 0 {
		log.Info("seeded snapshot cache", "snapshots", len(snaps))
	}
}

func buildSnapshotCache(cfg *config.Config, log *slog.Logger) cache.SnapshotCache {
	if cfg.Redis.Addr == "" {
		log.Info("using in-memory snapshot cache")
		return cache.NewMemoryCache(cache.WithMemoryTTL(cfg.Cache.TTL))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info("using redis snapshot cache", "addr", cfg.Redis.Addr)
	return cache.NewRedisCache(rdb,
		cache.WithRedisTTL(cfg.Cache.TTL),
		cache.WithRedisLogger(log),
	)
}

// buildLLMBackend resolves the configured LLM backend, or nil when disabled.
func buildLLMBackend(cfg *config.LLMConfig) (llm.Backend, error) {
	switch cfg.Backend {
	case "openai":
		var opts []llm.OpenAIOption
		if cfg.OpenAI.Endpoint != "" {
			opts = append(opts, llm.WithOpenAIEndpoint(cfg.OpenAI.Endpoint))
		}
		return llm.NewOpenAIBackend(cfg.OpenAI.Model, opts...)
	case "anthropic":
		return llm.NewAnthropicBackend(cfg.Anthropic.Model)
	case "ollama":
		return llm.NewOllamaBackend(cfg.Ollama.Endpoint, cfg.Ollama.Model), nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", cfg.Backend)
	}
}
