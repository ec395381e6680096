// Package main is the entry point for the application.
// It loads configuration, wires storage, cache, broker and services, and
// serves the HTTP API until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vetopay/internal/broker"
	"vetopay/internal/config"
	"vetopay/internal/handlers"
	applog "vetopay/internal/logger"
	"vetopay/internal/repositories"
	"vetopay/internal/repositories/cache"
	"vetopay/internal/repositories/memstore"
	"vetopay/internal/routes"
	"vetopay/internal/services/admin"
	"vetopay/internal/services/audit"
	"vetopay/internal/services/auth"
	"vetopay/internal/services/dispatcher"
	"vetopay/internal/services/email"
	"vetopay/internal/services/notification"
	"vetopay/internal/services/transaction"
	"vetopay/internal/services/transfer"
	"vetopay/internal/services/user"
	"vetopay/internal/services/wallet"
	"vetopay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const version = "1.0.0"

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applog.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, db, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := repositories.Close(db); err != nil {
				log.Warn("failed to close database connection", zap.Error(err))
			}
		}()
	}

	// Cache
	cacheService := openCache(ctx, cfg.Redis, log)
	defer func() {
		if err := cacheService.Close(); err != nil {
			log.Warn("failed to close redis connection", zap.Error(err))
		}
	}()

	// Broker
	var (
		mailer email.Mailer = email.NewLogMailer(log)
		events dispatcher.EventPublisher
		writer *kafka.Writer
	)
	if cfg.Kafka.Enabled() {
		writer = broker.NewKafkaWriter(cfg.Kafka)
		publisher := broker.NewPublisher(writer)
		mailer = email.NewQueueMailer(publisher, cfg.Kafka.EmailTopic)
		events = broker.NewEventPublisher(publisher, cfg.Kafka.EventsTopic)
		log.Info("kafka publisher ready", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		log.Info("no kafka brokers configured, emails are logged only")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := wallet.NewPrometheusCollector(registry)

	// Services
	auditService := audit.NewService(store, log)
	notificationService := notification.NewService(store, log)
	walletService := wallet.NewService(store, cacheService, wallet.WalletConfig{
		DefaultCurrency: cfg.DefaultCurrency,
		CacheTTL:        cfg.Redis.WalletTTL,
	}, metrics, log)

	sideEffects := dispatcher.New(dispatcher.Deps{
		Mailer:   mailer,
		Notifier: notificationService,
		Auditor:  auditService,
		Events:   events,
	}, cfg.Transfer.SideEffectTimeout, log)

	transferService := transfer.NewService(store, walletService, sideEffects, transfer.Config{
		MaxRetries:        cfg.Transfer.MaxRetries,
		RetryBackoff:      cfg.Transfer.RetryBackoff,
		ProcessingTimeout: cfg.Transfer.ProcessingTimeout,
	}, metrics, log)

	authService := auth.NewService(
		store,
		walletService,
		utils.NewTokenIssuer(cfg.JWT),
		cacheService,
		auditService,
		mailer,
		auth.Config{},
		log,
	)
	userService := user.NewService(store, log)
	adminService := admin.NewService(store, walletService, auditService, cacheService, notificationService, log)

	// HTTP
	app := fiber.New(fiber.Config{
		AppName:      "vetopay " + version,
		ErrorHandler: handlers.ErrorHandler(log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: !strings.Contains(cfg.CORSOrigins, "*"),
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))

	checks := map[string]handlers.Pinger{"database": store}
	if cfg.Redis.Enabled() {
		checks["redis"] = cacheService
	}

	routes.SetupRoutes(app, routes.Dependencies{
		Auth:          authService,
		Users:         userService,
		Wallets:       walletService,
		Transfers:     transferService,
		Ledger:        transaction.NewService(store, log),
		Notifications: notificationService,
		Admin:         adminService,
		Health:        handlers.NewHealthHandler(version, checks),
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		SecureCookies: cfg.IsProduction(),
		AuthRateLimit: 5,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", zap.Error(err))
	}

	// Let in-flight side effects finish before closing their targets.
	sideEffects.Wait()
	if writer != nil {
		if err := writer.Close(); err != nil {
			log.Warn("failed to close kafka writer", zap.Error(err))
		}
	}
	return nil
}

// openStore returns the configured store. db is nil for the memory driver.
func openStore(cfg config.Config, log *zap.Logger) (repositories.Store, *gorm.DB, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memstore.New(), nil, nil
	case config.StoragePostgres:
		db, err := repositories.InitDB(cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewStore(db, repositories.StoreOptions{LockTimeout: cfg.Transfer.LockTimeout}), db, nil
	default:
		return nil, nil, errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
	}
}

// openCache falls back to the no-op cache when Redis is not configured or
// not reachable at startup.
func openCache(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) cache.Cache {
	if !cfg.Enabled() {
		log.Info("no redis host configured, caching disabled")
		return cache.NewNoop()
	}
	client := cache.NewRedisClient(cfg)
	svc := cache.NewCacheService(client, 5*time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := svc.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, caching disabled", zap.Error(err))
		_ = client.Close()
		return cache.NewNoop()
	}
	log.Info("redis connected", zap.String("host", cfg.Host))
	return svc
}
