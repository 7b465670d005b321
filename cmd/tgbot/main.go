package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/ChartBot/internal/api/yahoo"
	"github.com/Alias1177/ChartBot/internal/bot"
	"github.com/Alias1177/ChartBot/internal/cache"
	"github.com/Alias1177/ChartBot/internal/chart"
	"github.com/Alias1177/ChartBot/internal/config"
	"github.com/Alias1177/ChartBot/internal/database"
	"github.com/Alias1177/ChartBot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	if cfg.BotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	// Initialize Telegram bot
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	log.Info().Str("username", botAPI.Self.UserName).Msg("Authorized on Telegram")

	var source bot.HistorySource = yahoo.NewClient(yahoo.ClientOptions{
		BaseURL:        cfg.YahooBaseURL,
		MaxBars:        cfg.MaxBars,
		RequestTimeout: cfg.RequestTimeoutDuration(),
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
	})
	if rdb := connectRedis(ctx, cfg); rdb != nil {
		defer rdb.Close()
		source = cache.NewCachingSource(rdb, cfg.CacheTTLDuration(), source, "history")
	}

	store, err := storage.NewS3Store(ctx, storage.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object store")
	}

	renderer := chart.NewRenderer(cfg.ChartOptions())

	var history bot.PlotHistory
	if db := connectDB(ctx, cfg); db != nil {
		defer db.Close()
		history = db
	}

	handler := bot.NewHandler(botAPI, bot.NewPlotter(source, renderer, store), history)

	updates, shutdown, err := startUpdates(botAPI, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start receiving updates")
	}

	log.Info().Int("workers", cfg.Workers).Bool("webhook", cfg.WebhookURL != "").Msg("Bot started")

	serveUpdates(ctx, updates, cfg.Workers, handler.HandleUpdate)
	shutdown()
}

// serveUpdates dispatches updates to handle with at most workers running at once.
// It returns when ctx is cancelled or updates is closed, after running handlers finish.
// Handlers get a context that the shutdown signal does not cancel, so commands already
// in flight still fetch, upload and reply.
func serveUpdates(ctx context.Context, updates <-chan tgbotapi.Update, workers int, handle func(context.Context, tgbotapi.Update)) {
	if workers <= 0 {
		workers = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(workers)

	handlerCtx := context.WithoutCancel(ctx)

loop:
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutdown signal received, waiting for running commands")
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			g.Go(func() error {
				handle(handlerCtx, update)
				return nil
			})
		}
	}

	_ = g.Wait()
}

// startUpdates registers a webhook when WEBHOOK_URL is set and falls back to long
// polling otherwise. The returned func stops the update source.
func startUpdates(botAPI *tgbotapi.BotAPI, cfg *config.Config) (tgbotapi.UpdatesChannel, func(), error) {
	if cfg.WebhookURL == "" {
		if _, err := botAPI.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Warn().Err(err).Msg("Failed to delete webhook")
		}

		updateConfig := tgbotapi.NewUpdate(0)
		updateConfig.Timeout = 60
		return botAPI.GetUpdatesChan(updateConfig), botAPI.StopReceivingUpdates, nil
	}

	wh, err := tgbotapi.NewWebhook(fmt.Sprintf("%s/%s", cfg.WebhookURL, botAPI.Token))
	if err != nil {
		return nil, nil, fmt.Errorf("creating webhook config: %w", err)
	}
	if _, err := botAPI.Request(wh); err != nil {
		return nil, nil, fmt.Errorf("registering webhook: %w", err)
	}

	updates := botAPI.ListenForWebhook("/" + botAPI.Token)
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Webhook server failed")
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
	return updates, shutdown, nil
}

// connectRedis returns nil when caching is disabled or Redis is unreachable
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, history cache disabled")
		return nil
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("History cache enabled")
	return rdb
}

// connectDB returns nil when plot history is disabled
func connectDB(ctx context.Context, cfg *config.Config) *database.DB {
	if cfg.DBHost == "" {
		return nil
	}
	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	log.Info().Str("host", cfg.DBHost).Msg("Plot history enabled")
	return db
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	// Set log level from config
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
