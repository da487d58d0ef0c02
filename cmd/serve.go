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

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/cache"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/config"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/consumer"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/handler"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/repository"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/service"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/spellcheck"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/view"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/database"
	pkglog "github.com/weiawesome/wes-io-live/spellcheck-service/pkg/log"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/pubsub"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the index update consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	logger := pkglog.L()

	// Initialize Elasticsearch client
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	// Verify ES connection
	res, err := esClient.Info()
	if err != nil {
		return fmt.Errorf("failed to connect to elasticsearch: %w", err)
	}
	res.Body.Close()
	logger.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")

	searchRepo := repository.NewESSearchRepository(esClient, cfg.Elasticsearch.SpellcheckField)

	// Initialize cache store, shared by results and spellcheck payloads
	store, err := cache.New(cfg.Cache, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to create cache store: %w", err)
	}
	defer store.Close()
	logger.Info().Str("driver", cfg.Cache.Driver).Msg("cache store ready")

	// Optional suggestion log
	var logRepo repository.SuggestionLogRepository
	if cfg.Database.Enabled {
		db, err := database.New(&database.Config{
			Driver:          cfg.Database.Driver,
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			FilePath:        cfg.Database.FilePath,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db, &domain.SuggestionLogModel{}); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
		logRepo = repository.NewGormSuggestionLogRepository(db)
		logger.Info().Str("driver", cfg.Database.Driver).Msg("suggestion log enabled")
	}

	// Initialize service
	area := spellcheck.NewArea(spellcheck.Options{
		FilterName:   cfg.Spellcheck.FilterName,
		HideOnResult: cfg.Spellcheck.HideOnResult,
	}, store)
	registry := view.NewRegistry(cfg.ViewDefinitions()...)
	searchService := service.NewSearchService(registry, searchRepo, store, area, logRepo, cfg.Cache.TTL)
	logger.Info().Strs("views", registry.IDs()).Msg("views registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Index update consumer
	ps, err := pubsub.NewPubSub(cfg.PubSub)
	if err != nil {
		return fmt.Errorf("failed to create pubsub: %w", err)
	}
	var cons *consumer.InvalidationConsumer
	if ps != nil {
		defer ps.Close()
		cons = consumer.NewInvalidationConsumer(ps, searchService)
		go cons.Run(ctx)
		logger.Info().Str("driver", cfg.PubSub.Driver).Msg("index update consumer started")
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.NewHandler(searchService).RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("spellcheck-service starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info().Msg("received shutdown signal")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	cancel()
	if cons != nil {
		select {
		case <-cons.Done():
		case <-time.After(5 * time.Second):
			logger.Warn().Msg("consumer shutdown timed out")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("spellcheck-service stopped")
	return nil
}
