package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/api"
	"github.com/planwise/timetable-companion/internal/handler"
	"github.com/planwise/timetable-companion/internal/service"
	"github.com/planwise/timetable-companion/internal/store"
	"github.com/planwise/timetable-companion/pkg/config"
	"github.com/planwise/timetable-companion/pkg/export"
	"github.com/planwise/timetable-companion/pkg/logger"
	corsmiddleware "github.com/planwise/timetable-companion/pkg/middleware/cors"
	reqidmiddleware "github.com/planwise/timetable-companion/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	backing, err := buildStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("store init failed", "backend", cfg.Store.Backend, "error", err)
	}

	wiped, err := store.Migrate(backing, cfg.Store.VersionMarker, logr)
	if err != nil {
		logr.Sugar().Fatalw("store migration failed", "error", err)
	}
	if wiped {
		logr.Info("cache version marker changed, store wiped")
	}

	cache := store.NewCache(backing, logr)
	client := api.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logr)

	registry := prometheus.NewRegistry()
	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService(registry)
	}

	validate := validator.New()
	selection := service.NewSelectionService(cache, validate, logr)
	control := service.NewRevalidationController(cache, client, metrics, logr)
	electives := service.NewElectiveService(cache, client, logr)
	week := service.NewWeekService(logr)
	timeline := service.NewTimelineService(logr)
	views := service.NewViewService(selection, control, electives, week, timeline, cache, logr)
	exports := service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter(), logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.Register(r, handler.Handlers{
		View:       handler.NewViewHandler(views),
		Selection:  handler.NewSelectionHandler(selection),
		Elective:   handler.NewElectiveHandler(selection, electives),
		Preference: handler.NewPreferenceHandler(cache),
		Export:     handler.NewExportHandler(views, selection, exports),
		Compare:    handler.NewCompareHandler(selection, electives, week, cache),
		Timeline:   handler.NewTimelineHandler(timeline),
	}, handler.RouterOptions{
		ExportEnabled:  cfg.Export.Enabled,
		MetricsEnabled: cfg.Metrics.Enabled,
		Registry:       registry,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go timeline.Run(ctx, 50*time.Millisecond)
	go connectivityLoop(ctx, cfg, control, logr)
	go syncLoop(ctx, cfg.Sync.Interval, views, logr)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("companion starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("shutdown incomplete", "error", err)
	}
}

func buildStore(cfg *config.Config, logr *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreFilesystem:
		return store.NewFileStore(cfg.Store.Directory, logr)
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return store.NewRedisStore(client, cfg.Store.Namespace, logr), nil
	case config.StorePostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		return store.NewSQLStore(db, logr)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// syncLoop runs one refresh immediately, then on every tick.
func syncLoop(ctx context.Context, interval time.Duration, views *service.ViewService, logr *zap.Logger) {
	views.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logr.Debug("background sync tick")
			views.Refresh(ctx)
		}
	}
}

// connectivityLoop probes the upstream and feeds the controller's online
// flag.
func connectivityLoop(ctx context.Context, cfg *config.Config, control *service.RevalidationController, logr *zap.Logger) {
	probe := func() {
		probeCtx, cancel := context.WithTimeout(ctx, cfg.Sync.ProbeTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, cfg.Upstream.BaseURL+"/api/metadata", nil)
		if err != nil {
			return
		}
		resp, err := http.DefaultClient.Do(req)
		online := err == nil
		if resp != nil {
			resp.Body.Close()
		}
		if online != control.Online() {
			logr.Sugar().Infow("connectivity changed", "online", online)
		}
		control.SetOnline(online)
	}

	probe()
	ticker := time.NewTicker(cfg.Sync.ProbeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
