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
	"time"

	"medicine-service/config"
	"medicine-service/internal/api"
	"medicine-service/internal/broker"
	"medicine-service/internal/catalog"
	"medicine-service/internal/connectivity"
	"medicine-service/internal/redisclient"
	"medicine-service/internal/scheduler"
	"medicine-service/internal/service"
	"medicine-service/internal/store"
	"medicine-service/internal/util"
	"medicine-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting medicine service")

	tp, err := util.InitTracer(cfg.Observ.JaegerEndpoint, cfg.Observ.TracingEnabled)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	persistence, closeStore, err := openStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()
	logger.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	gate := connectivity.NewGate(true)

	var publisher service.EventPublisher = service.NopPublisher{}
	var ledgerWorker *worker.LedgerWorker

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicLedger)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicLedger))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicLedger, cfg.Kafka.ConsumerGroup)
		ledgerWorker = worker.NewLedgerWorker(consumer)
		go func() {
			if err := ledgerWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Ledger worker error", zap.Error(err))
			}
		}()
	}

	deps := service.Dependencies{
		Store:     persistence,
		Gate:      gate,
		Catalog:   catalog.Default(),
		IDs:       service.TimestampIDs{},
		Clock:     time.Now,
		Publisher: publisher,
	}

	b := cfg.Business
	handler := api.NewHandler(api.Services{
		Search:  service.NewSearchService(deps, service.Latency{Min: b.SearchLatencyMin, Max: b.SearchLatencyMax}),
		Advisor: service.NewAdvisorService(deps, service.Latency{Min: b.AdvisorLatencyMin, Max: b.AdvisorLatencyMax}),
		Reservations: service.NewReservationService(deps,
			service.ReservationPolicy{TTL: b.ReservationTTL, Validate: b.ValidateReserve},
			service.Latency{Min: b.ReservationLatencyMin, Max: b.ReservationLatencyMax}),
		Reports:       service.NewReportService(deps, service.Latency{Min: b.ReportLatencyMin, Max: b.ReportLatencyMax}),
		Notifications: service.NewNotificationService(deps),
		Preferences:   service.NewPreferenceService(deps),
	}, gate)

	probe := connectivity.NewProbe(gate, cfg.Connectivity.ProbeAddr, cfg.Connectivity.ProbeTimeout)
	jobs := scheduler.NewScheduler(probe, cfg.Connectivity.ProbeSchedule, persistence)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	jobs.Stop()

	workerCancel()
	if ledgerWorker != nil {
		if err := ledgerWorker.Stop(); err != nil {
			logger.Error("Error stopping ledger worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// openStorage returns the configured ledger backend and its close function
func openStorage(cfg *config.Config) (store.Persistence, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	case "redis":
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	case store.DriverSQLite:
		db, err := store.NewStore(store.DriverSQLite, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case store.DriverPostgres:
		db, err := store.NewStore(store.DriverPostgres, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
