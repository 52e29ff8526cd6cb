package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nutrilabel/backend/config"
	httpDelivery "github.com/nutrilabel/backend/internal/delivery/http"
	"github.com/nutrilabel/backend/internal/domain"
	"github.com/nutrilabel/backend/internal/infrastructure/cache"
	"github.com/nutrilabel/backend/internal/infrastructure/embedding"
	"github.com/nutrilabel/backend/internal/infrastructure/fdc"
	"github.com/nutrilabel/backend/internal/pkg/logger"
	"github.com/nutrilabel/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("starting nutrilabel backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cacheType", cfg.Cache.Type))

	// Search cache backend
	searchCache, closeCache, err := newCache(cfg)
	if err != nil {
		zl.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer closeCache()

	// External clients
	catalogClient := fdc.NewClient(cfg.FDC.APIKey, cfg.FDC.BaseURL, zl)

	var embedder domain.Embedder
	if cfg.Embedding.APIKey != "" {
		client := embedding.NewClient(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Model, zl)
		embedder = embedding.NewCachedEmbedder(client, cfg.Embedding.CacheSize)
	} else {
		// Without an embedding key the matcher degrades to lexical-only
		// scoring on every candidate.
		zl.Warn("embedding API key not configured, semantic scoring disabled")
		embedder = unavailableEmbedder{}
	}

	// Usecase layer
	matcher := usecase.NewMatchingService(embedder, zl)
	resolver := usecase.NewResolverService(searchCache, catalogClient, matcher,
		usecase.ResolverConfig{Workers: cfg.Matching.Workers}, zl)
	nutrition := usecase.NewNutritionService(catalogClient,
		usecase.NutritionConfig{Workers: cfg.Matching.Workers}, zl)

	// HTTP delivery
	handler := httpDelivery.NewHandler(resolver, nutrition, httpDelivery.MatchDefaults{
		Alpha:         cfg.Matching.Alpha,
		PreferBranded: cfg.Matching.PreferBranded,
	}, zl)
	router := httpDelivery.SetupRouter(cfg, handler, zl)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	zl.Info("server exited")
}

// newCache builds the configured search cache backend and returns a
// close function for backends that hold resources.
func newCache(cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		c, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil
	case "pebble":
		c, err := cache.NewPebbleCache(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil
	default:
		return cache.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL), func() {}, nil
	}
}

// unavailableEmbedder stands in when no embedding backend is configured.
type unavailableEmbedder struct{}

func (unavailableEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, domain.ErrEmbeddingUnavailable
}
