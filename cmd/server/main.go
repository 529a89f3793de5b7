// Package main wires high-level dependencies, exposes the HTTP router,
// and keeps the server lifecycle small. Business logic lives in the
// internal service packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"enrolld/internal/alert"
	"enrolld/internal/operator"
	"enrolld/internal/platform/config"
	"enrolld/internal/platform/database"
	"enrolld/internal/platform/health"
	"enrolld/internal/platform/httpserver"
	"enrolld/internal/platform/kafka/producer"
	"enrolld/internal/platform/logger"
	"enrolld/internal/platform/metrics"
	mw "enrolld/internal/platform/middleware"
	platformredis "enrolld/internal/platform/redis"
	"enrolld/internal/registry/handler"
	"enrolld/internal/registry/service"
	"enrolld/internal/registry/store"
	"enrolld/internal/registry/tracer"
	"enrolld/pkg/platform/middleware/device"
	"enrolld/pkg/platform/middleware/metadata"
	request "enrolld/pkg/platform/middleware/request"
	"enrolld/pkg/platform/middleware/requesttime"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing enrolld",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	m := metrics.New()
	healthHandler := health.New(cfg.Environment)

	// Subject storage: PostgreSQL when configured, otherwise the
	// durable JSON snapshot.
	var subjects service.SubjectStore
	var alertStore alert.Store

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
		subjects = store.NewPostgres(pool.DB())
		alertStore = alert.NewPostgresStore(pool.DB())
		healthHandler.RegisterCheck("postgres", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		log.Info("using postgres subject store")
	} else {
		snapshot, err := store.NewSnapshot(cfg.SnapshotPath, store.WithSnapshotMetrics(m))
		if err != nil {
			log.Error("snapshot load failed", "error", err, "path", cfg.SnapshotPath)
			os.Exit(1)
		}
		subjects = snapshot
		alertStore = alert.NewInMemoryStore()
		log.Info("using snapshot subject store", "path", cfg.SnapshotPath)
	}

	// Alert pipeline: log and history always, Kafka and Redis when
	// configured, all behind an async buffer.
	sinks := []alert.Notifier{
		alert.NewLogSink(log),
		alert.NewStoreSink(alertStore, log),
	}

	var kafkaProducer *producer.Producer
	if cfg.KafkaBrokers != "" {
		kafkaCfg := producer.DefaultConfig()
		kafkaCfg.Brokers = cfg.KafkaBrokers
		kafkaProducer, err = producer.New(kafkaCfg, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close()
		sinks = append(sinks, alert.NewKafkaSink(kafkaProducer, cfg.AlertTopic, log))
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if !kafkaProducer.Healthy(ctx) {
				return errors.New("kafka unreachable")
			}
			return nil
		})
		log.Info("kafka alert sink enabled", "topic", cfg.AlertTopic)
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sinks = append(sinks, alert.NewRedisSink(redisClient.Client, cfg.AlertTopic, log))
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		log.Info("redis alert sink enabled", "channel", cfg.AlertTopic)
	}

	notifier := alert.NewBuffered(
		alert.NewFanout(log, sinks...),
		cfg.AlertBufferSize,
		alert.WithBufferedLogger(log),
		alert.WithBufferedMetrics(m),
	)
	defer notifier.Close()

	svc := service.New(subjects,
		service.WithLogger(log),
		service.WithAlerts(notifier),
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
	)

	tokens := operator.NewTokenService(cfg.JWTSigningKey, cfg.TokenTTL)
	registryHandler := handler.New(svc, log)
	operatorHandler := operator.NewHandler(alertStore, log)

	router := chi.NewRouter()
	router.Use(mw.Recovery(log))
	router.Use(mw.RequestID)
	router.Use(requesttime.Middleware)
	router.Use(metadata.NewMiddleware(metadata.DefaultConfig()).Handler)
	router.Use(device.Middleware)
	router.Use(mw.Logger(log))
	router.Use(mw.Latency(m))
	router.Use(mw.Timeout(cfg.RequestTimeout))
	router.Use(request.BodyLimit(cfg.MaxBodyBytes))
	router.Use(mw.ContentTypeJSON)

	healthHandler.Register(router)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	registryHandler.Register(router)
	router.Group(func(r chi.Router) {
		r.Use(operator.Authenticate(tokens, cfg.AdminToken, log))
		registryHandler.RegisterAdmin(r)
		operatorHandler.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
