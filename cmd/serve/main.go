// Package classification Calendar Service.
//
// Create, update and delete calendar events and list the events of a month.
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//	Version: 0.1.0
//	License: TODO
//	Contact: <info@dhis2.org> https://github.com/dhis2-sre/im-calendar
//
//	Consumes:
//	  - application/json
//
//	Produces:
//	  - application/json
//
// swagger:meta
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

	"github.com/dhis2-sre/im-calendar/internal/handler"
	"github.com/dhis2-sre/im-calendar/internal/log"
	"github.com/dhis2-sre/im-calendar/internal/server"
	"github.com/dhis2-sre/im-calendar/pkg/config"
	"github.com/dhis2-sre/im-calendar/pkg/event"
	"github.com/dhis2-sre/im-calendar/pkg/health"
	"github.com/dhis2-sre/im-calendar/pkg/storage"
	"github.com/dhis2-sre/im-calendar/pkg/tracing"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Failed to run calendar service", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := slog.New(log.New(log.NewPrettyJSONHandler(os.Stdout, &log.PrettyJSONHandlerOptions{
		HandlerOptions: slog.HandlerOptions{
			AddSource: true,
			Level:     cfg.LogLevel,
		},
		PrettyPrint: cfg.LogPretty,
	})))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled() {
		provider, err := tracing.NewProvider(cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down tracer provider", "error", err)
			}
		}()
	}

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %v", err)
	}
	defer sqlDB.Close()

	var publisher event.Publisher
	if cfg.RabbitMQ.Enabled() {
		amqpPublisher, err := event.NewAMQPPublisher(cfg.RabbitMQ.GetURI(), cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	eventRepository := event.NewRepository(db)
	var eventService *event.Service
	if cfg.Redis.Enabled() {
		redis, err := storage.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		defer redis.Close()
		eventService = event.NewService(logger, event.NewCache(logger, eventRepository, redis, cfg.Redis.CacheTTL), publisher)
	} else {
		eventService = event.NewService(logger, eventRepository, publisher)
	}

	err = handler.RegisterValidation()
	if err != nil {
		return err
	}
	err = event.RegisterValidation()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := server.GetEngine(logger, cfg.Tracing.ServiceName, cfg.BasePath, cfg.CORSAllowedOrigins, event.NewHandler(eventService), health.NewHandler(sqlDB))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "address", srv.Addr, "basePath", cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
