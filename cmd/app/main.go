package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-ai-planner/internal/config"
	"travel-ai-planner/internal/domain/ports/adapter"
	aiAdapters "travel-ai-planner/internal/infra/adapters/ai"
	placeAdapters "travel-ai-planner/internal/infra/adapters/places"
	pushAdapters "travel-ai-planner/internal/infra/adapters/push"
	tripAdapters "travel-ai-planner/internal/infra/adapters/trips"
	pg "travel-ai-planner/internal/infra/db/postgres"
	"travel-ai-planner/internal/infra/logging"
	"travel-ai-planner/internal/infra/metrics"
	red "travel-ai-planner/internal/infra/redis"
	"travel-ai-planner/internal/infra/sched"
	"travel-ai-planner/internal/infra/web"
	"travel-ai-planner/internal/infra/worker"
	"travel-ai-planner/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop push/AI fallbacks allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	metrics.MustRegister()

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	jobRepo := pg.NewPlanJobRepo(pool)
	ledgerRepo := pg.NewCreditLedgerRepo(pool)
	notifLogRepo := pg.NewNotificationLogRepo(pool)
	prefsRepo := pg.NewNotificationPrefsRepo(pool)

	// ---- Trip store ----
	tripStore, err := tripAdapters.NewRestClient(cfg.TripStore.BaseURL, cfg.TripStore.APIKey, cfg.TripStore.Timeout)
	if err != nil {
		log.Fatalf("trip store: %v", err)
	}

	// ---- Places ----
	var placeAdapter adapter.PlaceAdapter
	if cfg.Places.APIKey != "" {
		placeAdapter, err = placeAdapters.NewGooglePlacesAdapter(cfg.Places.APIKey, cfg.Places.BaseURL, cfg.Places.Timeout)
		if err != nil {
			log.Fatalf("places adapter: %v", err)
		}
	} else {
		logger.Warn().Msg("no places api key; enrichment disabled")
		placeAdapter = placeAdapters.NewNoopAdapter()
	}

	// ---- AI Adapter (Gemini -> OpenAI -> noop in dev) ----
	var ai adapter.CompletionAdapter
	modelConfigured := true
	if cfg.AI.GeminiKey != "" {
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxTokens)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	} else if cfg.AI.OpenAIKey != "" {
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.MaxTokens)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	} else if cfg.Runtime.Dev {
		ai = aiAdapters.NewNoopAdapter()
		modelConfigured = false
		logger.Warn().Msg("AI adapter: noop (dev mode, no provider configured)")
	} else {
		log.Fatalf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.Worker.Workers*2)

	// ---- Push ----
	var push adapter.PushGateway
	if cfg.Push.TelegramToken != "" {
		push, err = pushAdapters.NewTelegramGateway(cfg.Push.TelegramToken, logger)
		if err != nil {
			log.Fatalf("telegram gateway: %v", err)
		}
	} else {
		push = pushAdapters.NewNoopGateway(logger)
	}

	// ---- Use cases ----
	enrichSvc := usecase.NewEnrichmentService(placeAdapter, cfg.Places.Concurrency, logger)
	notifUC := usecase.NewNotificationUseCase(prefsRepo, notifLogRepo, push, logger)

	workerPool := worker.NewPool(cfg.Worker.Workers)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	planUC := usecase.NewPlanUseCase(
		jobRepo, ledgerRepo, txManager, tripStore, ai,
		enrichSvc, notifUC, workerPool, locker,
		cfg.AI.DefaultModel, logger,
	)

	// ---- Sweeper ----
	sweeper := sched.NewStaleJobSweeper(cfg.Worker.SweepInterval, cfg.Worker.LeaseTimeout, jobRepo, logger)
	go func() { _ = sweeper.Run(ctx) }()

	// ---- HTTP server ----
	srv := web.NewServer(
		planUC, jobRepo, rateLimiter,
		cfg.Auth.JWTSecret, cfg.Auth.RateLimit, cfg.Auth.RateLimitWindow,
		modelConfigured, logger,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	_ = server.Shutdown(shutCtx)
	cancel()
}
