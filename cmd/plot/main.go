package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/ChartBot/internal/api/yahoo"
	"github.com/Alias1177/ChartBot/internal/bot"
	"github.com/Alias1177/ChartBot/internal/chart"
	"github.com/Alias1177/ChartBot/internal/config"
	"github.com/Alias1177/ChartBot/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ticker := flag.String("ticker", "", "Ticker symbol, e.g. AAPL")
	period := flag.String("period", "", "Period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	interval := flag.String("interval", "", "Interval (1m, 2m, 5m, 15m, 30m, 60m, 90m, 1h, 1d, 5d, 1wk, 1mo, 3mo)")
	out := flag.String("out", "chart.png", "Output PNG file")
	upload := flag.Bool("upload", false, "Upload the chart to the object store and print its URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	query, err := bot.ParseQuery(*ticker, *period, *interval)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	source := yahoo.NewClient(yahoo.ClientOptions{
		BaseURL:        cfg.YahooBaseURL,
		MaxBars:        cfg.MaxBars,
		RequestTimeout: cfg.RequestTimeoutDuration(),
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
	})

	series, err := source.History(ctx, query.Ticker, query.Period, query.Interval)
	if err != nil {
		log.Fatal().Err(err).Str("ticker", query.Ticker).Msg("Failed to fetch history")
	}
	if len(series) == 0 {
		log.Fatal().
			Str("ticker", query.Ticker).
			Str("period", string(query.Period)).
			Str("interval", string(query.Interval)).
			Msg("No data for range")
	}

	renderer := chart.NewRenderer(cfg.ChartOptions())
	if err := renderer.RenderToFile(chart.Request{Series: series, Label: query.Ticker}, *out); err != nil {
		log.Fatal().Err(err).Msg("Failed to render chart")
	}
	log.Info().Str("file", *out).Int("bars", len(series)).Msg("Chart written")

	if !*upload {
		return
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

	url, err := store.UploadFile(ctx, *out, storage.NewObjectName())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to upload chart")
	}
	fmt.Println(url)
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
