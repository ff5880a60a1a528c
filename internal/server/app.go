// Package server initializes and runs the funding server.
// It selects the storage backend, connects the optional event broker and
// archive, serves the gRPC API and exposes Prometheus metrics and a health
// check over HTTP, shutting everything down when the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcamera/school-of-solana-season-8/internal/logging"
	"github.com/mcamera/school-of-solana-season-8/internal/server/archive"
	"github.com/mcamera/school-of-solana-season-8/internal/server/config"
	"github.com/mcamera/school-of-solana-season-8/internal/server/events"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/memory"
	"github.com/mcamera/school-of-solana-season-8/internal/server/repositories/repomanager"
	"github.com/mcamera/school-of-solana-season-8/internal/server/services"

	gs "github.com/mcamera/school-of-solana-season-8/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	publisher events.Publisher
	grpc      *gs.GRPCServer
}

// openRepositories is a seam for tests; postgres needs a live database.
var openRepositories = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(memory.NewStore()), nil
	case config.StoragePostgres:
		db, err := repomanager.OpenPostgres(c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return repomanager.NewPostgresRepositoryManager(db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// NewApp wires the server from c, writing logs to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, w)
	if err != nil {
		return nil, err
	}

	repos, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	publisher := newPublisher(ctx, c, logger)

	archiver, err := newArchiver(ctx, c)
	if err != nil {
		_ = publisher.Close()
		_ = repos.Close()
		return nil, fmt.Errorf("archive init error: %w", err)
	}

	ps := services.NewProjectService(repos, c, publisher, archiver, logger)
	as := services.NewAccountService(repos, c, logger)
	au := services.NewAuthService(c, logger)

	return &App{
		config:    c,
		logger:    logger,
		repos:     repos,
		publisher: publisher,
		grpc:      gs.NewGRPCServer(c.EndpointAddrGRPC, logger, ps, as, au, c.SecretKey),
	}, nil
}

func newPublisher(ctx context.Context, c *config.Config, l logging.Logger) events.Publisher {
	if c.AMQPURL == "" {
		return events.NopPublisher{Logger: l}
	}
	p, err := events.DialAMQP(c.AMQPURL, c.EventsExchange)
	if err != nil {
		l.Warn(ctx, "event broker unavailable, lifecycle events disabled", "error", err)
		return events.NopPublisher{Logger: l}
	}
	return p
}

func newArchiver(ctx context.Context, c *config.Config) (archive.Archiver, error) {
	if c.S3Bucket == "" {
		return archive.Nop{}, nil
	}
	return archive.NewS3Archiver(ctx, c)
}

func (app *App) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (app *App) startHTTPServer(ctx context.Context) error {
	srv := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           app.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "metrics server listening", "addr", app.config.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives. A failure of
// either listener stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		if err == nil {
			return
		}
		app.logger.Error(ctx, err.Error())
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
		cancel()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		fail(app.grpc.Run(ctx))
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fail(app.startHTTPServer(ctx))
		}()
	}

	wg.Wait()
	app.logger.Info(context.Background(), "shutting down")

	if err := app.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := app.repos.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}

// Main is the server entry point used by cmd/server.
func Main() int {
	cfg := config.LoadConfig()
	ctx := context.Background()

	app, err := NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := app.Run(ctx); err != nil {
		return 1
	}
	return 0
}
