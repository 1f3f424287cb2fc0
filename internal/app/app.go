package app

import (
	"context"
	"coverage/internal/adapter/fetcher"
	"coverage/internal/adapter/parser"
	"coverage/internal/analysis"
	"coverage/internal/config"
	"coverage/internal/domain"
	"coverage/internal/metrics"
	"coverage/internal/migrations"
	server "coverage/internal/transport/http"
	"coverage/internal/usecase"
	"coverage/storage"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

// ErrStorageDisabled возвращается операциями со снимками, если database.enabled выключен.
var ErrStorageDisabled = errors.New("snapshot storage is disabled (database.enabled=false)")

// App связывает компоненты анализатора: сборщик, анализ, метрики, необязательное
// хранилище снимков и HTTP-сервер режима serve.
type App struct {
	config    *config.Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
	collector *usecase.CollectUseCase
	analyzer  *usecase.AnalyzeUseCase
	dataset   *usecase.DatasetUseCase
	snapshots *usecase.SnapshotUseCase
	store     storage.Storage
	server    *http.Server
	stopChan  chan os.Signal
	wg        sync.WaitGroup
}

// New создает приложение. При включенном хранилище подключается к PostgreSQL
// и применяет миграции.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	m := metrics.New()
	httpFetcher := fetcher.NewHTTPFetcher(log,
		fetcher.WithTimeout(cfg.API.TimeoutDuration()),
		fetcher.WithUserAgent(cfg.API.UserAgent),
		fetcher.WithRateLimit(cfg.API.RequestsPerSecond),
		fetcher.WithObserver(m),
	)
	jsonParser := parser.NewJSONParser(log)
	collector := usecase.NewCollectUseCase(httpFetcher, jsonParser, cfg.API.Query(), cfg.API.MaxPages, log).
		WithObserver(m)

	opts, err := usecase.AnalysisOptions(cfg.Analysis)
	if err != nil {
		return nil, fmt.Errorf("bad init app: %w", err)
	}
	analyzer := usecase.NewAnalyzeUseCase(opts, log)
	dataset := usecase.NewDatasetUseCase(analyzer)
	if err := m.RegisterDataset(dataset); err != nil {
		return nil, fmt.Errorf("failed to register dataset metrics: %w", err)
	}

	a := &App{
		config:    cfg,
		logger:    log,
		metrics:   m,
		collector: collector,
		analyzer:  analyzer,
		dataset:   dataset,
		stopChan:  make(chan os.Signal, 1),
	}
	if cfg.Database.Enabled {
		store, err := openStorage(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.snapshots = usecase.NewSnapshotUseCase(store, log)
	}

	handler := server.NewHandler(log, dataset)
	a.server = &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.NewServer(log, handler, m.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*storage.PostgresCollectionDB, error) {
	dbPool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("Database connection established", slog.String("component", "database"))
	if err := migrations.Apply(ctx, log, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return storage.NewPostgresCollectionDB(dbPool, log), nil
}

// Collect собирает коллекцию из API.
func (a *App) Collect(ctx context.Context) (*domain.Collection, error) {
	return a.collector.Collect(ctx)
}

// Analyze строит отчет по коллекции.
func (a *App) Analyze(c *domain.Collection) *analysis.Report {
	return a.analyzer.Analyze(c)
}

// Save сохраняет коллекцию как новый снимок.
func (a *App) Save(ctx context.Context, c *domain.Collection) (uuid.UUID, error) {
	if a.snapshots == nil {
		return uuid.Nil, ErrStorageDisabled
	}
	return a.snapshots.Save(ctx, c)
}

// Latest читает последний снимок по ключевому слову из конфигурации.
func (a *App) Latest(ctx context.Context) (*domain.Collection, error) {
	if a.snapshots == nil {
		return nil, ErrStorageDisabled
	}
	return a.snapshots.Latest(ctx, a.config.API.Keyword)
}

// Run загружает коллекцию (из API или, при fromSnapshot, из хранилища), запускает
// HTTP-сервер и блокируется до сигнала завершения или отмены ctx.
func (a *App) Run(ctx context.Context, fromSnapshot bool) error {
	a.logger.Info("Starting coverage API",
		slog.String("component", "app"),
		slog.String("keyword", a.config.API.Keyword),
		slog.Bool("from_snapshot", fromSnapshot),
	)
	var (
		c   *domain.Collection
		err error
	)
	if fromSnapshot {
		c, err = a.Latest(ctx)
	} else {
		c, err = a.Collect(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	a.dataset.Load(c)

	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	serveErr := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
			serveErr <- err
		}
	}()

	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.stopChan)
	select {
	case sig := <-a.stopChan:
		a.logger.Info("Shutdown signal received",
			slog.String("component", "app"),
			slog.String("signal", sig.String()),
		)
	case <-ctx.Done():
		a.logger.Info("Context cancelled, initiating shutdown", slog.String("component", "app"))
	case err := <-serveErr:
		a.Shutdown()
		return fmt.Errorf("http server: %w", err)
	}
	return a.Shutdown()
}

// Shutdown останавливает HTTP-сервер с таймаутом 10 секунд, закрывает хранилище
// и ожидает завершения горутин.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown", slog.String("component", "app"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	var shutdownErr error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
		shutdownErr = fmt.Errorf("http server shutdown: %w", err)
	}
	a.Close()
	a.wg.Wait()
	a.logger.Info("Application stopped gracefully", slog.String("component", "app"))
	return shutdownErr
}

// Close освобождает соединения с базой данных. Повторный вызов безопасен.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}
