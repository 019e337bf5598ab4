package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-etf-news-bot/internal/config"
	botdelivery "golang-etf-news-bot/internal/delivery/bot"
	delivery "golang-etf-news-bot/internal/delivery/http"
	"golang-etf-news-bot/internal/repository"
	"golang-etf-news-bot/internal/service"
	"golang-etf-news-bot/pkg/logger"
	"golang-etf-news-bot/pkg/redis"
	"golang-etf-news-bot/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the ETF news bot: command handler, scheduler and ops API",
	Run:   runServe,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs a single digest and exits, for external schedulers",
	Run:   runOnce,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger, teardown := mustInit()
	defer teardown()

	appLogger.Info("Starting ETF News Bot", logger.Field("name", cfg.App.Name))

	tgClient, digestSvc, cleanup, err := buildPipeline(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize pipeline", logger.ErrorField(err))
	}
	defer cleanup()

	// Bot command surface
	if cfg.Telegram.EnableBot {
		botHandler := botdelivery.NewHandler(tgClient, digestSvc, cfg.Telegram.PollTimeout, appLogger)
		go botHandler.Start(ctx)
	}

	// Cron-triggered digest
	if cfg.Scheduler.Enabled {
		schedulerSvc := service.NewSchedulerService(digestSvc, cfg.Scheduler.CronExpression, appLogger)
		go func() {
			if err := schedulerSvc.Start(ctx); err != nil {
				appLogger.Error("Scheduler failed to start", logger.ErrorField(err))
				stop()
			}
		}()
	}

	// Ops HTTP surface
	e := echo.New()
	e.HideBanner = true

	digestHandler := delivery.NewDigestHandler(digestSvc, appLogger)
	digestHandler.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger, teardown := mustInit()
	defer teardown()

	appLogger.Info("Running one-shot digest", logger.Field("name", cfg.App.Name))

	_, digestSvc, cleanup, err := buildPipeline(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize pipeline", logger.ErrorField(err))
	}
	defer cleanup()

	result, err := digestSvc.Run(ctx)
	if err != nil {
		appLogger.Fatal("Digest run failed", logger.ErrorField(err))
	}

	appLogger.Info("Digest run finished",
		logger.IntField("total_delivered", result.TotalDelivered),
		logger.IntField("assets", len(result.Assets)),
	)
}

// mustInit loads configuration and the logger, exiting on anything that
// makes startup pointless (missing credentials included).
func mustInit() (*config.Config, *logger.Logger, func()) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return cfg, appLogger, func() { _ = appLogger.Sync() }
}

// buildPipeline wires the telegram client, news provider, seen-article store
// and digest service. The returned cleanup closes any held connections.
func buildPipeline(cfg *config.Config, appLogger *logger.Logger) (*telegram.Client, service.DigestService, func(), error) {
	tgClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize telegram client: %w", err)
	}

	var newsRepo repository.NewsRepository
	switch cfg.NewsAPI.Provider {
	case config.NewsProviderGoogleRSS:
		newsRepo = repository.NewGoogleRSSRepository(cfg.NewsAPI, appLogger)
	default:
		newsRepo = repository.NewNewsAPIRepository(cfg.NewsAPI, appLogger)
	}

	cleanup := func() {}

	var seenRepo repository.SeenArticleRepository
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		cleanup = func() { _ = redisClient.Close() }
		seenRepo = repository.NewRedisSeenArticleRepository(redisClient, cfg.Store.RedisKey)
	case config.StoreBackendMemory:
		seenRepo = repository.NewInMemorySeenArticleRepository()
	default:
		seenRepo, err = repository.NewFileSeenArticleRepository(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load seen articles: %w", err)
		}
	}

	digestSvc := service.NewDigestService(cfg.Watchlist, newsRepo, seenRepo, tgClient, appLogger)
	return tgClient, digestSvc, cleanup, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "news-bot",
		Short: "Fetches ETF news and delivers unseen articles to a Telegram chat",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing news-bot CLI: %s\n", err)
		os.Exit(1)
	}
}
