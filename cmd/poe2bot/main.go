package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/catalog"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/chart"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/config"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/discord"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/logger"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/metrics"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/ratelimit"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/scout"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

// limiterPurgeInterval bounds the rate-limit table for long uptimes.
const limiterPurgeInterval = 10 * time.Minute

func main() {
	flag.Parse()

	// Development convenience, mirrors production env injection.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	var mets *metrics.Manager
	if cfg.Metrics.Enabled {
		mets = metrics.New()
	}

	scoutClient := scout.NewClient(cfg.Scout.BaseURL, cfg.Scout.Timeout, mets)
	catalogCache := catalog.New(scoutClient, cfg.Catalog.TTL, cfg.Catalog.MaxLeagues, mets)
	limiter := ratelimit.New(cfg.RateLimit.Cooldown)
	charts := chart.NewBuilder(cfg.Chart.BaseURL)

	bot, err := discord.New(cfg.Discord.Token, cfg.Discord.GuildID, discord.Deps{
		Market:       scoutClient,
		Catalog:      catalogCache,
		Limiter:      limiter,
		Charts:       charts,
		Metrics:      mets,
		Threshold:    cfg.Resolver.Threshold,
		HistoryLimit: cfg.Trend.HistoryLimit,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Discord bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutdown signal received, cleaning up...")
		cancel()
	}()

	if mets != nil {
		go func() {
			logger.Info("metrics listening on %s", cfg.Metrics.ListenAddr)
			if err := mets.Serve(ctx, cfg.Metrics.ListenAddr); err != nil {
				logger.Error("metrics server failed: %v", err)
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(limiterPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Purge(limiterPurgeInterval)
			}
		}
	}()

	logger.Info("starting poe2 price-check bot (catalog ttl: %v, cooldown: %v, threshold: %d)",
		cfg.Catalog.TTL, cfg.RateLimit.Cooldown, cfg.Resolver.Threshold)

	if err := bot.Run(ctx); err != nil {
		log.Fatalf("Bot stopped: %v", err)
	}
	logger.Info("service stopped")
}
