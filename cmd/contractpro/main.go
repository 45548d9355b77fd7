package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/contractpro/contractpro/internal/config"
	"github.com/contractpro/contractpro/internal/directory"
	"github.com/contractpro/contractpro/internal/docstore"
	"github.com/contractpro/contractpro/internal/events"
	"github.com/contractpro/contractpro/internal/handler"
	"github.com/contractpro/contractpro/internal/logger"
	"github.com/contractpro/contractpro/internal/metrics"
	"github.com/contractpro/contractpro/internal/notifier"
	"github.com/contractpro/contractpro/internal/reports"
	"github.com/contractpro/contractpro/internal/router"
	"github.com/contractpro/contractpro/internal/scheduler"
	"github.com/contractpro/contractpro/internal/service"
	"github.com/contractpro/contractpro/internal/storage"
	"github.com/contractpro/contractpro/internal/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using process environment")
	}
	cfg := config.Load()

	l := logger.NewJSONLogger(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Two database handles share one Postgres: pgx for the row-oriented
	// stores, sqlx for the ledger, audit, and archive stores.
	pool, err := storage.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		l.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	sqlxDB, err := storage.ConnectSQLX(cfg.DB)
	if err != nil {
		l.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlxDB.Close()

	contracts := storage.NewContractStorage(pool)
	documents := storage.NewDocumentStorage(pool)
	reviews := storage.NewReviewStorage(pool)
	users := storage.NewUserStorage(pool)
	ledger := storage.NewLedgerStorage(sqlxDB)
	audit := storage.NewAuditStorage(sqlxDB)
	archive := storage.NewArchiveStorage(sqlxDB)

	docs, err := docstore.New(cfg.Minio)
	if err != nil {
		l.Error("Failed to create object store client", slog.Any("error", err))
		os.Exit(1)
	}
	if err := docs.EnsureBucket(ctx); err != nil {
		l.Error("Failed to ensure bucket", slog.Any("error", err))
		os.Exit(1)
	}

	dir, err := directory.New(cfg.Directory)
	if err != nil {
		l.Error("Failed to create directory client", slog.Any("error", err))
		os.Exit(1)
	}

	// Kafka producer for lifecycle events and a consumer group that folds
	// them into the audit trail.
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 5
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Consumer.Return.Errors = true

	asyncProducer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		l.Error("Failed to create Kafka producer", slog.Any("error", err))
		os.Exit(1)
	}
	var producerWG sync.WaitGroup
	producer := events.NewProducer(asyncProducer, cfg.Kafka.EventTopic, l, &producerWG)
	producer.Start(ctx)

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, saramaCfg)
	if err != nil {
		l.Error("Failed to create Kafka consumer group", slog.Any("error", err))
		os.Exit(1)
	}
	consumer := events.NewConsumer(cfg.Kafka.EventTopic, consumerGroup, audit, l)

	mailer := notifier.NewSMTPNotifier(cfg.SMTP, l)

	flow := workflow.NewService(contracts, reviews, users, ledger, mailer, producer, cfg.AppURL, l)
	tokens := service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	authSvc := service.NewAuthService(users, dir, tokens, cfg.Auth, l)
	userSvc := service.NewUserService(users, dir, l)
	contractSvc := service.NewContractService(contracts, documents, audit, docs, flow, producer, l)
	vendorSvc := service.NewVendorService(users, contracts, mailer, cfg.AppURL, l)
	archiveSvc := service.NewArchiveService(archive, docs, l)
	reportSvc := reports.NewService(contracts, users)
	healthSvc := service.NewHealthService(contracts)

	if err := authSvc.EnsureAdmin(ctx); err != nil {
		l.Error("Failed to bootstrap admin account", slog.Any("error", err))
		os.Exit(1)
	}

	sched := scheduler.New(contracts, reviews, users, ledger, mailer, cfg.Scheduler, l).
		WithEvents(producer)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(authSvc, l),
		Contracts:     handler.NewContractHandler(contractSvc, flow, l),
		Vendors:       handler.NewVendorHandler(vendorSvc, flow, l),
		Users:         handler.NewUserHandler(userSvc, l),
		Notifications: handler.NewNotificationHandler(ledger),
		Reports:       handler.NewReportHandler(reportSvc, l),
		Archive:       handler.NewArchiveHandler(archiveSvc, l),
		Health:        handler.NewHealthHandler(healthSvc, l),
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.New(h, tokens, users),
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.Error("Event consumer stopped with error", slog.Any("error", err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Info("Server started", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("Shutdown failed", slog.Any("error", err))
	}

	producer.Close(shutdownCtx)

	wg.Wait()
	l.Info("Server exited cleanly")
}
