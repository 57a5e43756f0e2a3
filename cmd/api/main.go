package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/checkout"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
	dbpkg "github.com/BruksfildServices01/lawnmate-api/internal/db"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/routes"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := dbpkg.NewDB(cfg)

	// ---- optional collaborators ----
	var revocations auth.RevocationStore
	if cfg.RedisAddr != "" {
		if client := newRedisClient(cfg); client != nil {
			defer client.Close()
			revocations = auth.NewRedisRevocationStore(client)
		}
	}
	if revocations == nil {
		slog.Warn("redis unavailable, token revocations are kept in memory")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}
	eventDispatcher := events.NewDispatcher(publisher)
	defer eventDispatcher.Close()

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	var provider checkout.Provider = checkout.Disabled{}
	if cfg.MercadoPagoAccessToken != "" {
		mp, err := checkout.NewMercadoPago(cfg.MercadoPagoAccessToken, cfg.CheckoutNotificationURL)
		if err != nil {
			slog.Error("mercadopago disabled", "error", err)
		} else {
			provider = mp
		}
	}

	// ---- http ----
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Revocations: revocations,
		Audit:       auditDispatcher,
		Events:      eventDispatcher,
		Checkout:    provider,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

// newRedisClient returns nil when the server does not answer a ping.
func newRedisClient(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		client.Close()
		return nil
	}
	return client
}
