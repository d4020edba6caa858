// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"orderflow/internal/auth"
	"orderflow/internal/events"
	"orderflow/internal/jwttoken"
	"orderflow/internal/notify"
	"orderflow/internal/operator"
	orderhandler "orderflow/internal/order/handler"
	"orderflow/internal/order/service"
	"orderflow/internal/order/store"
	"orderflow/internal/platform/config"
	"orderflow/internal/platform/httpserver"
	"orderflow/internal/platform/kafka"
	"orderflow/internal/platform/logger"
	"orderflow/internal/platform/metrics"
	"orderflow/internal/platform/middleware"
	platformredis "orderflow/internal/platform/redis"
	"orderflow/pkg/platform/httputil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		orders   store.OrderStore
		groups   operator.GroupStore
		accounts operator.AccountStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return err
		}
		orders = store.NewPostgres(pool)

		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		operatorStore := operator.NewPostgres(db)
		groups = operatorStore
		accounts = operatorStore

		log.Info("using postgres stores")
	} else {
		memOperators := operator.NewInMemoryStore()
		orders = store.NewInMemory()
		groups = memOperators
		accounts = memOperators
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("redis connected")
	}

	bus := events.NewBus(events.WithLogger(log), events.WithMetrics(m))
	defer bus.Close()

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(ctx, cfg.KafkaBrokers, kafka.WithLogger(log))
		if err != nil {
			return err
		}
		publisher.Register(bus)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := publisher.Close(closeCtx); err != nil {
				log.Error("kafka publisher close failed", "error", err)
			}
		}()
		log.Info("kafka lifecycle publisher enabled", "brokers", cfg.KafkaBrokers)
	}

	dispatcher := notify.NewDispatcher(
		notify.NewLogSink(log),
		notify.WithSupportEmail(cfg.SupportEmail),
		notify.WithLogger(log),
		notify.WithMetrics(m),
	)
	dispatcher.Register(bus)

	authorizer := auth.NewStaticAuthorizer()
	orderService := service.New(orders, groups, accounts, authorizer, bus,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "orderflow")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwttoken.NewMiddlewareAdapter(jwtService), log))
		orderhandler.New(orderService, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting orderflow server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
