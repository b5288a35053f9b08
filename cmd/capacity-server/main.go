package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/capacity/pkg/application/services"
	"github.com/vsinha/capacity/pkg/config"
	"github.com/vsinha/capacity/pkg/infrastructure/repositories/mongodb"
	"github.com/vsinha/capacity/pkg/infrastructure/repositories/sqlite"
	httpapi "github.com/vsinha/capacity/pkg/interfaces/http"
	"github.com/vsinha/capacity/pkg/interfaces/scheduler"
	"github.com/vsinha/capacity/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.Catalog.SQLitePath)
	if err != nil {
		baseLogger.Fatal("failed to open sqlite catalog", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close sqlite catalog", zap.Error(err))
		}
	}()
	if err := store.Migrate(ctx); err != nil {
		baseLogger.Fatal("failed to migrate sqlite catalog", zap.Error(err))
	}

	planner := services.NewPlannerService(store, store, store, baseLogger.Named("svc.planner"))

	if cfg.ArchiveEnabled() {
		archive, err := mongodb.NewPlanArchive(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb plan archive", zap.Error(err))
		}
		defer func() {
			if err := archive.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()

		snapshotSvc := services.NewSnapshotService(planner, archive, baseLogger.Named("svc.snapshot"))
		sched := scheduler.NewScheduler(cfg.Snapshot.CronSchedule, snapshotSvc, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		baseLogger.Warn("MONGODB_URI missing, plan snapshots disabled")
	}

	handler := httpapi.NewPlanHandler(planner, store, baseLogger.Named("handlers.plan"))
	engine := httpapi.New(handler, cfg.Server.APIToken, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
