package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-reveal-quiz/internal/analyzer"
	"go-reveal-quiz/internal/config"
	"go-reveal-quiz/internal/dataset"
	"go-reveal-quiz/internal/dictionary"
	"go-reveal-quiz/internal/logger"
	"go-reveal-quiz/internal/observer"
	"go-reveal-quiz/internal/repository"
	"go-reveal-quiz/internal/service"
	"go-reveal-quiz/internal/session"
	"go-reveal-quiz/internal/storage"
	"go-reveal-quiz/internal/transport"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	loader       *dataset.Loader
	registry     *session.Registry
	roundService service.RoundService
	handler      http.Handler

	stopPruner context.CancelFunc
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Build dependency graph
	fetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout)

	var blobs storage.BlobStorage
	if cfg.AzureEnabled() {
		blobs, err = storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to init azure storage: %w", err)
		}
	}

	loader, err := dataset.NewLoader(cfg.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init dataset loader: %w", err)
	}

	dict, err := dictionary.Load(cfg.DictionaryPath)
	if err != nil {
		// A missing or broken dictionary degrades matching to key-only,
		// it does not prevent the engine from serving rounds.
		logger.WithError(err).WithField("path", cfg.DictionaryPath).
			Warn("Dictionary unavailable, answers match keys only")
		dict = dictionary.NewEmpty()
	}

	registry := session.NewRegistry()

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logrus.StandardLogger()))
	stats := observer.NewStatsObserver()
	events.Subscribe(stats)

	pool := analyzer.NewWorkerPool(0)
	pool.Start()

	repo := repository.NewImageRepository(loader, fetcher, blobs)
	rounds := service.NewRoundService(cfg, repo, registry, dict, loader, events, stats, pool)
	handler := transport.NewHandler(rounds, cfg)

	prunerCtx, stopPruner := context.WithCancel(context.Background())
	go pruneExpiredRounds(prunerCtx, registry, cfg.RoundTTL)

	return &Container{
		config:       cfg,
		loader:       loader,
		registry:     registry,
		roundService: rounds,
		handler:      handler,
		stopPruner:   stopPruner,
	}, nil
}

// pruneExpiredRounds evicts rounds that outlived their TTL so abandoned
// sessions do not pin decoded images in memory.
func pruneExpiredRounds(ctx context.Context, registry *session.Registry, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.PruneExpired(ttl); n > 0 {
				logger.WithField("pruned", n).Info("Expired rounds removed")
			}
		}
	}
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases background resources held by the container.
func (c *Container) Close() {
	if c.stopPruner != nil {
		c.stopPruner()
	}
}
