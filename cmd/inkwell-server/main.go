package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inkwell/backend/internal/config"
	"inkwell/backend/internal/events"
	"inkwell/backend/internal/payments"
	"inkwell/backend/internal/pricing"
	"inkwell/backend/internal/schedule"
	"inkwell/backend/internal/service/availability"
	"inkwell/backend/internal/service/booking"
	"inkwell/backend/internal/store/postgres"
	httpTransport "inkwell/backend/internal/transport/http"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "inkwell-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "inkwell-server"),
	)
	slog.SetDefault(log)

	log.Info("starting", slog.String("http_addr", cfg.HTTPAddr), slog.String("log_level", cfg.LogLevel))

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	if n, err := postgres.Migrate(context.Background(), db); err != nil {
		log.Error("migrations failed", slog.Any("err", err))
		os.Exit(1)
	} else if n > 0 {
		log.Info("migrations applied", slog.Int("count", n))
	}

	bookingRepo := postgres.NewBookingRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)
	outboxRepo := postgres.NewOutboxRepo(db)

	engine := pricing.NewEngine(cfg.DepositFraction)
	policies := schedule.NewStaticPolicyProvider(schedule.Policy{
		StartHour:              cfg.BusinessStartHour,
		EndHour:                cfg.BusinessEndHour,
		SlotGranularityMinutes: cfg.SlotGranularityMinutes,
	})

	var charger payments.Charger = payments.NopCharger{}
	if cfg.StripeAPIKey != "" {
		charger = payments.NewStripeCharger(cfg.StripeAPIKey, log)
	} else {
		log.Warn("stripe key not set; deposit capture disabled")
	}

	bookingSvc := booking.NewService(bookingRepo, catalogRepo, engine, policies, charger, log, booking.Config{
		MinimumDuration: time.Duration(cfg.MinimumDurationMinutes) * time.Minute,
	})
	availSvc := availability.NewService(bookingRepo, catalogRepo, policies)

	e := httpTransport.NewServer(bookingSvc, availSvc, catalogRepo, log, httpTransport.Config{
		JWTSecret:      cfg.JWTSecret,
		RequestTimeout: cfg.HTTPRequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher := events.NewPublisher(outboxRepo, log, events.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		PollEvery: cfg.OutboxPollEvery,
		BatchSize: cfg.OutboxBatchSize,
	})
	go publisher.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(cfg.HTTPAddr)
	}()

	log.Info("http server started", slog.String("http_addr", cfg.HTTPAddr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, e, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdown(log *slog.Logger, s shutdowner, timeout time.Duration) {
	log.Info("shutting down http server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed", slog.Any("err", err))
		return
	}
	log.Info("http server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
