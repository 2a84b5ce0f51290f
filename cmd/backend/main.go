// Package main provides the entry point for the EquiSplit tracking backend.
//
//	@title			EquiSplit Tracking API
//	@version		1.0.0
//	@description	Visitor, page view, event, conversion and feature usage tracking for EquiSplit, with dashboard statistics.
//
//	@contact.name	EquiSplit Team
//
//	@license.name	MIT
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	_ "EquiSplit-Backend/docs" // Import swagger docs
	"EquiSplit-Backend/internal/analytics"
	"EquiSplit-Backend/internal/config"
	"EquiSplit-Backend/internal/database"
	httpHandler "EquiSplit-Backend/internal/handler/http"
	"EquiSplit-Backend/internal/metrics"
	"EquiSplit-Backend/internal/repository/gormstore"
	"EquiSplit-Backend/internal/service"
	"EquiSplit-Backend/pkg/logger"
	"EquiSplit-Backend/pkg/useragent"
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting EquiSplit tracking service",
		zap.String("version", version),
		zap.String("db_driver", cfg.Database.Driver),
	)

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	uaParser, err := useragent.NewParser(cfg.Tracking.UARegexesPath, log)
	if err != nil {
		log.Warn("failed to initialize User-Agent parser, using bot patterns only", zap.Error(err))
		uaParser = nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	storage := gormstore.New(db, log)
	resolver := service.NewVisitorResolver(storage, uaParser, log, service.WithMetrics(m))
	recorder := service.NewEventRecorder(storage, log, service.WithMetrics(m))
	reporter := service.NewReporter(storage, log, service.ReporterConfig{
		DefaultWindowDays:  cfg.Tracking.DefaultWindowDays,
		DefaultLimit:       cfg.Tracking.DefaultLimit,
		ActiveWindow:       cfg.Tracking.ActiveWindow,
		RecentEventsWindow: cfg.Tracking.RecentEventsWindow,
		RecentEventsLimit:  cfg.Tracking.RecentEventsLimit,
	}, service.WithMetrics(m))

	var pageViews httpHandler.PageViewTracker = recorder
	var queue httpHandler.QueueStats
	var processor *analytics.Processor
	if cfg.Tracking.AsyncPageViews {
		processor = analytics.NewProcessor(recorder, log, m, analytics.ProcessorConfig{
			WorkerCount:     cfg.Tracking.Workers,
			BufferSize:      cfg.Tracking.BufferSize,
			JobTimeout:      cfg.Tracking.JobTimeout,
			ShutdownTimeout: cfg.Tracking.ShutdownTimeout,
		})
		if err := processor.Start(); err != nil {
			log.Fatal("failed to start analytics processor", zap.Error(err))
		}
		pageViews = processor
		queue = processor
	}

	apiServer := httpHandler.NewServer(httpHandler.Dependencies{
		Resolver:  resolver,
		Recorder:  recorder,
		Reporter:  reporter,
		PageViews: pageViews,
		Pinger:    storage,
		Queue:     queue,
		Metrics:   m,
	}, httpHandler.ServerConfig{
		APIPrefix:      cfg.Tracking.APIPrefix,
		SessionHeader:  cfg.Tracking.SessionHeader,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		Version:        version,
	}, log)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      apiServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server",
		zap.String("address", cfg.HTTPServer.Address),
		zap.Bool("async_page_views", cfg.Tracking.AsyncPageViews),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down EquiSplit tracking service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// Сервер больше не принимает запросы, очередь можно дописать
	if processor != nil {
		if err := processor.Stop(); err != nil {
			log.Error("failed to stop analytics processor", zap.Error(err))
		}
	}
}
