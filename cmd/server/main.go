package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sheikh-saqib/customer-ledger/internal/config"
	"github.com/sheikh-saqib/customer-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/customer-ledger/internal/events/nats"
	"github.com/sheikh-saqib/customer-ledger/internal/events/noop"
	"github.com/sheikh-saqib/customer-ledger/internal/events/redis"
	interfaces "github.com/sheikh-saqib/customer-ledger/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger/internal/ledger"
	"github.com/sheikh-saqib/customer-ledger/internal/logging"
	"github.com/sheikh-saqib/customer-ledger/internal/storage/memory"
	transportHTTP "github.com/sheikh-saqib/customer-ledger/internal/transport/http"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("ledger service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	var store interfaces.AccountStore = memory.NewMemoryAccountStore()
	ledgerService := ledger.NewLedger(store,
		ledger.WithLogger(logger.Named("ledger")),
		ledger.WithLocation(cfg.Location),
		ledger.WithPublisher(publisher, cfg.EventTopic),
		ledger.WithPublishTimeout(cfg.PublishTimeout),
	)

	server := transportHTTP.NewServer(cfg.HTTPAddr, ledgerService, logger.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Stop(shutdownCtx)
	})

	logger.Info("ledger service started",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("event_bus", cfg.EventBus),
		zap.String("timezone", cfg.Location.String()),
	)
	return g.Wait()
}

func newPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, error) {
	switch cfg.EventBus {
	case config.BusKafka:
		return kafka.NewPublisher(cfg.KafkaBrokers), nil
	case config.BusRedis:
		p := redis.NewPublisher(cfg.RedisAddr)
		if err := p.Ping(ctx); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return p, nil
	case config.BusNats:
		p, err := nats.NewPublisher(cfg.NatsURL)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		return p, nil
	default:
		return noop.Publisher{}, nil
	}
}
