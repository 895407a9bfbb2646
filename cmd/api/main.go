package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"phonebook/internal/awsutil"
	"phonebook/internal/config"
	"phonebook/internal/httpserver"
	"phonebook/internal/logging"
	"phonebook/internal/observability"
	"phonebook/internal/providers/pokeapi"
	sqsqueue "phonebook/internal/queue/sqs"
	"phonebook/internal/service"
	"phonebook/internal/store/memory"
	"phonebook/internal/store/pg"
	"phonebook/internal/store/sqlite"
	"phonebook/internal/util"
)

// contactStore is what the API needs from a storage backend.
type contactStore interface {
	service.Store
	Ping(ctx context.Context) error
}

func main() {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.LoadAPI()
	logging.Init("api", cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closer, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("api store open failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closer.Close()

	events, err := newEvents(ctx, cfg)
	if err != nil {
		slog.Error("api sqs client init failed", "err", err)
		os.Exit(1)
	}

	observability.Register(prometheus.DefaultRegisterer)

	svc := &service.ContactService{
		Store:  st,
		Events: events,
		IDGen:  util.NewContactID,
		Now:    util.NowUTC,
	}
	avatars := &pokeapi.Client{
		BaseURL: cfg.AvatarBaseURL,
		HTTP:    &http.Client{Timeout: cfg.AvatarTimeout},
		Limiter: rate.NewLimiter(rate.Limit(cfg.AvatarRPS), cfg.AvatarBurst),
		Breaker: pokeapi.NewBreaker("pokeapi"),
	}

	s := httpserver.New()
	s.Mux.Use(httpserver.Metrics(observability.APIRequests))
	api := &httpserver.API{
		Contacts:      svc,
		Avatars:       avatars,
		AvatarTimeout: cfg.AvatarTimeout,
	}
	api.Register(s.Mux)

	s.Mux.HandleFunc("/healthz", httpserver.Healthz())
	s.Mux.HandleFunc("/readyz", httpserver.Readyz(2*time.Second, st.Ping))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.Logging(s.Mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("api shutdown", "signal", sig.String())
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("api listening", "port", cfg.Port, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("api server failed", "err", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.APIConfig) (contactStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.DBDSN, pg.PoolOptions{
			MaxConns:          cfg.DBPoolMaxConns,
			MinConns:          cfg.DBPoolMinConns,
			MaxConnLifetime:   cfg.DBPoolMaxConnLifetime,
			MaxConnIdleTime:   cfg.DBPoolMaxConnIdleTime,
			HealthCheckPeriod: cfg.DBPoolHealthCheckPeriod,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg.New(pool), closerFunc(func() error { pool.Close(); return nil }), nil
	case config.DriverMemory:
		m := memory.New()
		return m, m, nil
	default:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
}

func newEvents(ctx context.Context, cfg config.APIConfig) (service.Events, error) {
	if cfg.EventsQueueURL == "" {
		return service.NopEvents{}, nil
	}
	client, err := awsutil.NewSQSClient(ctx, cfg.AWSRegion, cfg.LocalstackEndpoint)
	if err != nil {
		return nil, err
	}
	return &sqsqueue.Producer{SQS: client, QueueURL: cfg.EventsQueueURL}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
