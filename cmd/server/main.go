package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/grachmannico95/finsync/internal/config"
	"github.com/grachmannico95/finsync/internal/conflict"
	"github.com/grachmannico95/finsync/internal/eventbus"
	"github.com/grachmannico95/finsync/internal/handler"
	"github.com/grachmannico95/finsync/internal/notification"
	"github.com/grachmannico95/finsync/internal/remote/plaid"
	"github.com/grachmannico95/finsync/internal/server"
	"github.com/grachmannico95/finsync/internal/service"
	"github.com/grachmannico95/finsync/internal/storage"
	"github.com/grachmannico95/finsync/internal/syncstatus"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	ctx := context.Background()
	log.Info(ctx, "Starting application")

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		log.Fatal(ctx, "Failed to open store",
			"driver", cfg.Storage.Driver,
			"error", err,
		)
	}
	defer store.Close()
	log.Info(ctx, "Store initialized",
		"driver", cfg.Storage.Driver,
	)

	strategy, err := conflict.ParseStrategy(cfg.Conflict.Strategy)
	if err != nil {
		log.Fatal(ctx, "Invalid conflict strategy",
			"error", err,
		)
	}

	remote, err := plaid.NewClient(plaid.Config{
		Environment: cfg.Plaid.Environment,
		ClientID:    cfg.Plaid.ClientID,
		Secret:      cfg.Plaid.Secret,
		BaseURL:     cfg.Plaid.BaseURL,
		Timeout:     cfg.Plaid.Timeout,
		PageSize:    cfg.Plaid.PageSize,
	}, log)
	if err != nil {
		log.Fatal(ctx, "Failed to create Plaid client",
			"error", err,
		)
	}
	log.Info(ctx, "Plaid client initialized",
		"environment", cfg.Plaid.Environment,
	)

	bus := eventbus.New(log, &eventbus.Config{
		ChannelBuffer: cfg.EventBus.ChannelBufferSize,
		MaxRetries:    cfg.Worker.MaxRetries,
		RetryDelay:    cfg.EventBus.RetryDelay,
	})

	notificationConsumer := eventbus.NewNotificationConsumer(store, log, cfg.Worker.PoolSize)
	if err := bus.Subscribe(eventbus.EventTypeNotification, notificationConsumer); err != nil {
		log.Fatal(ctx, "Failed to subscribe consumer",
			"error", err,
		)
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal(ctx, "Failed to start event bus",
			"error", err,
		)
	}
	log.Info(ctx, "Event bus initialized",
		"worker_count", cfg.Worker.PoolSize,
	)

	var statusOpts []syncstatus.Option
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = syncstatus.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal(ctx, "Failed to connect to redis",
				"error", err,
			)
		}
		statusOpts = append(statusOpts, syncstatus.WithMirror(syncstatus.NewRedisMirror(redisClient, cfg.Redis.StatusTTL)))
		log.Info(ctx, "Sync status mirror enabled")
	}
	status := syncstatus.NewManager(log, statusOpts...)

	syncService := service.NewSyncService(
		store,
		store,
		remote,
		conflict.NewResolver(conflict.Policy{Strategy: strategy}),
		status,
		service.NewRetryManager(service.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		}, log),
		notification.NewDispatcher(bus, log),
		service.SyncConfig{
			WindowDays:              cfg.Sync.WindowDays,
			StaleAfter:              cfg.Sync.StaleAfter,
			IncrementalOverlap:      cfg.Sync.IncrementalOverlap,
			MaxConcurrentAccounts:   cfg.Sync.MaxConcurrentAccounts,
			NewTransactionThreshold: cfg.Sync.NewTransactionThreshold,
		},
		log,
	)

	monitor := service.NewDeviceMonitor()
	scheduler := service.NewScheduler(
		syncService,
		store,
		service.NewDeviceConditions(monitor, cfg.Sync.MinBatteryLevel),
		cfg.Sync.IncrementalInterval,
		log,
	)
	if cfg.Sync.SchedulerEnabled {
		scheduler.Start(ctx)
	}
	log.Info(ctx, "Services initialized",
		"conflict_strategy", strategy,
		"scheduler_enabled", cfg.Sync.SchedulerEnabled,
	)

	srv := server.New(cfg, log, server.Handlers{
		Sync:         handler.NewSyncHandler(syncService, status, log),
		Notification: handler.NewNotificationHandler(store, log),
		Device:       handler.NewDeviceHandler(monitor, log),
		Health:       handler.NewHealthHandler(bus),
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal(ctx, "Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	log.Info(ctx, "Application started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown in order:
	// 1. Stop accepting new HTTP requests
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "HTTP server shutdown error",
			"error", err,
		)
	}

	// 2. Stop background syncs
	if err := scheduler.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "Scheduler shutdown error",
			"error", err,
		)
	}

	// 3. Drain notifications
	if err := bus.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "Event bus shutdown error",
			"error", err,
		)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error(shutdownCtx, "Redis close error",
				"error", err,
			)
		}
	}

	log.Info(ctx, "Application stopped gracefully")
}
