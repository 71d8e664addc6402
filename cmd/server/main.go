package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"

	"github.com/rl1809/shirt-inventory/internal/adapter/handler"
	"github.com/rl1809/shirt-inventory/internal/app"
	"github.com/rl1809/shirt-inventory/internal/config"
	"github.com/rl1809/shirt-inventory/internal/core/service"
	"github.com/rl1809/shirt-inventory/internal/platform/logging"
	"github.com/rl1809/shirt-inventory/internal/platform/tracing"
	"github.com/rl1809/shirt-inventory/internal/worker"
)

const serviceName = "shirt-inventory"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		fatal(logger, "failed to init tracing", err)
	}

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		fatal(logger, "failed to open store", err)
	}

	publisher, err := app.OpenPublisher(cfg, logger)
	if err != nil {
		store.Close()
		fatal(logger, "failed to open event sink", err)
	}

	// Initialize service
	shirtService := service.NewShirtService(store.Repo, service.Config{
		LowStockThreshold: cfg.LowStockThreshold,
		QueueSize:         cfg.EventQueueSize,
		Idempotency:       store.Idempotency,
		Logger:            logger,
	})

	// Start event workers
	dispatcher := worker.NewDispatcher(shirtService.EventQueue(), publisher, cfg.WorkerCount, logger)
	if shirtService.EventQueue() != nil {
		dispatcher.Start()
	}

	// Initialize gRPC server
	grpcServer := handler.NewGRPCServer(handler.NewGRPCHandler(shirtService), logger)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		fatal(logger, "failed to listen", err)
	}

	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", "error", err)
		}
	}()

	// Initialize HTTP server
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := handler.NewRouter(handler.NewHTTPHandler(shirtService, logger), logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	// Shutdown runs as one operation so the steps keep their order: stop
	// intake, drain events, then release connections.
	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"shirt-inventory": func(ctx context.Context) error {
			logger.Info("shutting down...")

			var errs []error
			if err := httpServer.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
			logger.Info("HTTP server stopped")

			grpcServer.GracefulStop()
			logger.Info("gRPC server stopped")

			shirtService.Close()
			if shirtService.EventQueue() != nil {
				if err := dispatcher.Wait(ctx); err != nil {
					errs = append(errs, err)
				}
			}
			logger.Info("workers stopped")

			if err := publisher.Close(); err != nil {
				errs = append(errs, err)
			}
			if err := store.Close(); err != nil {
				errs = append(errs, err)
			}
			logger.Info("connections closed")

			if err := shutdownTracing(ctx); err != nil {
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	})

	exitCode := <-wait
	logger.Info("application exited", "code", exitCode)
	os.Exit(exitCode)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
