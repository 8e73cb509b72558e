package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Klerno-Labs/iso20022-engine/internal/assets"
	"github.com/Klerno-Labs/iso20022-engine/internal/compliance"
	"github.com/Klerno-Labs/iso20022-engine/internal/config"
	"github.com/Klerno-Labs/iso20022-engine/internal/handlers"
	"github.com/Klerno-Labs/iso20022-engine/internal/metrics"
	"github.com/Klerno-Labs/iso20022-engine/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; stderr is all we have.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting iso20022 compliance engine",
		zap.String("addr", cfg.Server.Address()),
		zap.Strings("message_types", cfg.Compliance.MessageTypes))

	registry, err := assets.NewRegistry(cfg.Assets)
	if err != nil {
		logger.Fatal("invalid asset registry", zap.Error(err))
	}

	validator := validation.New(registry.Codes()...)
	history := compliance.NewHistory(cfg.Compliance.HistorySize)
	manager := compliance.NewManager(validator, history, logger, cfg.Compliance.EnabledMessageTypes()...)
	if !manager.ValidateConfiguration() {
		logger.Fatal("compliance manager failed configuration self-check")
	}
	extension := assets.NewExtension(registry, manager, logger)
	collector := metrics.NewCollector()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handlers.NewMessagingHandler(manager, extension, collector, logger).RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown incomplete", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
