package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/http/api"
	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/http/site"
	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/http/swagger"
	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/repository"
	service "github.com/isabelbroeder/unicycle-score-board/internal/app"
	"github.com/isabelbroeder/unicycle-score-board/internal/config"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		loggerInstance.Fatal(ctx, "failed to load config", logger.Error(err))
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Fatal(ctx, "failed to build service", logger.Error(err))
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService opens the configured store and builds the service from cfg.
// An empty database path keeps all data in memory.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	day, err := cfg.Day()
	if err != nil {
		return nil, err
	}
	p, err := cfg.Panel()
	if err != nil {
		return nil, err
	}
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}

	var store repository.Store = repository.NewMemoryStore()
	if cfg.DatabasePath != "" {
		sqlite, err := repository.OpenSQLite(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		store = sqlite
		log.Info(ctx, "using sqlite store", logger.String("path", cfg.DatabasePath))
	} else {
		log.Warn(ctx, "no database path configured, data is kept in memory")
	}

	return service.New(
		service.WithLogger(log.Named("service")),
		service.WithStore(store),
		service.WithPanel(p),
		service.WithClassifier(classifier),
		service.WithCompetitionDay(day),
		service.WithJuryPasswordHash(cfg.JuryPasswordHash),
		service.WithShuffleSeed(cfg.ShuffleSeed),
	), nil
}

// newHandler registers the API, the API docs and the score board page.
func newHandler(ctx context.Context, svc *service.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	apiServer := api.NewServer(svc, log.Named("api"))
	apiServer.Register(ctx, mux)
	return apiServer.Handler(mux)
}
