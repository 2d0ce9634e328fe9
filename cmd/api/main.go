package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bryanwahyu/drcalm/internal/application"
	appanalysis "github.com/bryanwahyu/drcalm/internal/application/analysis"
	"github.com/bryanwahyu/drcalm/internal/config"
	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
	"github.com/bryanwahyu/drcalm/internal/infra/ai/gemini"
	"github.com/bryanwahyu/drcalm/internal/infra/ai/openai"
	"github.com/bryanwahyu/drcalm/internal/infra/httpserver"
	"github.com/bryanwahyu/drcalm/internal/infra/illustration"
	minioStore "github.com/bryanwahyu/drcalm/internal/infra/storage"
	"github.com/bryanwahyu/drcalm/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()
	health := map[string]middleware.HealthChecker{}

	// init AI provider
	text, images, err := newGenerators(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ai init: %w", err)
	}
	health["ai"] = middleware.CheckFunc(func(context.Context) error {
		if text == nil {
			return analysis.ErrAIUnavailable
		}
		return nil
	})

	// init minio (optional, hanya untuk asset ilustrasi)
	var assets illustration.AssetResolver
	if cfg.MinioEnabled() {
		store, err := minioStore.New(ctx, minioStore.Config{
			Endpoint:   cfg.Minio.Endpoint,
			AccessKey:  cfg.Minio.AccessKey,
			SecretKey:  cfg.Minio.SecretKey,
			BucketName: cfg.Minio.BucketName,
			Region:     cfg.Minio.Region,
			UseSSL:     cfg.Minio.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		assets = store
		health["assets"] = store
	}

	catalog := illustration.Load(ctx, cfg.Illustrations, assets, logger.Named("illustration"))
	metrics := middleware.NewMetrics()

	svc := appanalysis.NewService(text, images, catalog,
		appanalysis.WithLogger(logger.Named("analysis")),
		appanalysis.WithRecorder(metrics),
		appanalysis.WithClock(application.SystemClock{}),
		appanalysis.WithTimeouts(cfg.AI.TextTimeout, cfg.AI.ImageTimeout),
	)

	handler := httpserver.NewRouter(httpserver.Deps{
		Analyzer:       svc,
		Catalog:        catalog,
		Metrics:        metrics,
		Health:         health,
		Logger:         logger.Named("http"),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("provider", cfg.AI.Provider),
			zap.Bool("images", images != nil),
			zap.Int("illustrations", len(catalog.Entries())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx2)
}

// newGenerators builds the text and image adapters for the configured
// provider. images is nil when image generation is disabled.
func newGenerators(ctx context.Context, cfg *config.Config) (analysis.TextGenerator, analysis.ImageGenerator, error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		c, err := openai.NewClient(openai.Config{
			APIKey:     cfg.AI.OpenAI.APIKey,
			BaseURL:    cfg.AI.OpenAI.BaseURL,
			TextModel:  cfg.AI.OpenAI.TextModel,
			ImageModel: cfg.AI.OpenAI.ImageModel,
			ImageSize:  cfg.AI.OpenAI.ImageSize,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.AI.DisableImages {
			return c, nil, nil
		}
		return c, c, nil
	default:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:     cfg.AI.Gemini.APIKey,
			BaseURL:    cfg.AI.Gemini.BaseURL,
			TextModel:  cfg.AI.Gemini.TextModel,
			ImageModel: cfg.AI.Gemini.ImageModel,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.AI.DisableImages {
			return c, nil, nil
		}
		return c, c, nil
	}
}
