package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomdesk/internal/app/middleware"
	"roomdesk/internal/app/policies"
	domainrooms "roomdesk/internal/domain/rooms"
	"roomdesk/internal/infra/broker/kafka"
	"roomdesk/internal/infra/config"
	mongodb "roomdesk/internal/infra/db/mongo"
	"roomdesk/internal/infra/fixtures"
	ginserver "roomdesk/internal/infra/http/gin"
	"roomdesk/internal/infra/obs"
	infraoutbox "roomdesk/internal/infra/outbox"
	"roomdesk/internal/infra/storage/cache"
	"roomdesk/internal/infra/storage/memory"
	"roomdesk/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(os.Getenv("APP_ENV")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("roomdesk stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	checks := map[string]obs.Check{}
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	seedRooms, skipped, err := fixtures.LoadRooms(cfg.RoomsFixtures, cfg.Currency)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		logger.Warn("room fixtures file not found, starting with an empty catalog", "path", cfg.RoomsFixtures)
	}
	for _, s := range skipped {
		logger.Error("room fixture invalid", "room_id", s.ID, "error", s.Err)
	}

	rooms, err := buildRoomRepository(ctx, cfg, logger, seedRooms, checks, &closers)
	if err != nil {
		return err
	}

	bookings := memory.NewBookingRepository()
	if cfg.BookingsFixtures != "" {
		seeded, skipped, err := fixtures.LoadBookings(cfg.BookingsFixtures, seedRooms)
		if err != nil {
			logger.Warn("booking fixtures load failed", "error", err, "path", cfg.BookingsFixtures)
		}
		for _, s := range skipped {
			logger.Error("booking fixture invalid", "booking_id", s.ID, "error", s.Err)
		}
		for _, b := range seeded {
			if err := bookings.Save(ctx, b); err != nil {
				return err
			}
		}
		logger.Info("booking fixtures imported", "count", len(seeded))
	}

	idempotency, err := buildIdempotencyStore(ctx, cfg, checks, &closers)
	if err != nil {
		return err
	}

	var images policies.ImageResolver = policies.PassthroughImages{}
	if cfg.S3Enabled() {
		resolver, err := s3.NewImageResolver(s3.Options{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			UseSSL:         cfg.S3UseSSL,
			URLTTL:         cfg.ImageURLTTL,
		}, logger)
		if err != nil {
			return err
		}
		images = resolver
		checks["s3"] = resolver.Ping
	}

	// Cancelling runCtx stops the worker; closers run only after it returned.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outboxStore := memory.NewOutbox()
	var producer infraoutbox.Producer = infraoutbox.LogProducer{Logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		closers = append(closers, func() { _ = kp.Close() })
		producer = kp
	} else {
		logger.Info("KAFKA_BROKERS not set, events are logged only")
	}
	worker := &infraoutbox.Worker{
		Store:       outboxStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	app := buildApplication(dependencies{
		Logger:       logger,
		Rooms:        rooms,
		Bookings:     bookings,
		Idempotency:  idempotency,
		Outbox:       outboxStore,
		Images:       images,
		ConfirmDelay: cfg.BookingConfirmDelay,
	})
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: checks}, app.handlers)

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "rooms_source", cfg.RoomsSource, "idempotency", cfg.IdempotencyBackend)
	if err := serve(runCtx, cancel, server, workerDone, logger); err != nil {
		return err
	}
	if pending := outboxStore.Pending(); pending > 0 {
		logger.Warn("outbox events left unpublished", "count", pending)
	}
	logger.Info("HTTP server stopped")
	return nil
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// serve runs srv until ctx ends or srv fails. Either way it cancels the run
// and waits for the outbox worker before returning.
func serve(ctx context.Context, cancel context.CancelFunc, srv httpServer, workerDone <-chan struct{}, logger *slog.Logger) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	err := srv.ListenAndServe()
	cancel()
	<-workerDone
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func buildRoomRepository(ctx context.Context, cfg config.Config, logger *slog.Logger, seed []*domainrooms.Room, checks map[string]obs.Check, closers *[]func()) (domainrooms.Repository, error) {
	if cfg.RoomsSource != config.RoomsSourceMongo {
		logger.Info("room catalog loaded from fixtures", "count", len(seed), "path", cfg.RoomsFixtures)
		return memory.NewRoomRepository(seed...), nil
	}
	client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	*closers = append(*closers, func() { _ = client.Close(context.Background()) })
	checks["mongo"] = client.Ping

	repo := mongodb.NewRoomRepository(client.DB)
	count, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}
	if count == 0 && len(seed) > 0 {
		if err := repo.Seed(ctx, seed); err != nil {
			return nil, err
		}
		logger.Info("room catalog seeded into mongo", "count", len(seed))
	}
	return repo, nil
}

func buildIdempotencyStore(ctx context.Context, cfg config.Config, checks map[string]obs.Check, closers *[]func()) (middleware.IdempotencyStore, error) {
	if cfg.IdempotencyBackend == config.IdempotencyRedis {
		client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { _ = client.Close() })
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return cache.NewRedisIdempotencyStore(client, cfg.IdempotencyTTL), nil
	}
	store := cache.NewIdempotencyStore(cfg.IdempotencyTTL, 0)
	*closers = append(*closers, store.Close)
	return store, nil
}
