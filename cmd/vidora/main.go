package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"

	"github.com/sakury/vidora/adapters/account"
	"github.com/sakury/vidora/adapters/captcha"
	"github.com/sakury/vidora/adapters/events"
	"github.com/sakury/vidora/adapters/store"
	"github.com/sakury/vidora/internal/config"
	"github.com/sakury/vidora/internal/logger"
	"github.com/sakury/vidora/ports"
	"github.com/sakury/vidora/service"
	transport "github.com/sakury/vidora/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	// Redis backs the shared cache and the event stream
	var redisClient *redis.Client
	if cfg.CacheBackend == config.BackendRedis || cfg.Events.Enabled {
		redisClient, err = store.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Fatal("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
	}

	var cache ports.Cache
	if cfg.CacheBackend == config.BackendRedis {
		cache = store.NewRedisStore(redisClient)
	} else {
		logger.Warn("using in-memory cache, sessions are not shared between instances")
		cache = store.NewMemoryStore()
	}

	var accounts ports.AccountStore
	if cfg.AccountStore == config.BackendPostgres {
		db, err := account.Open(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize account storage", "error", err)
		}
		defer db.Close()
		accounts = account.NewPostgresRepository(db)
	} else {
		logger.Warn("using in-memory account store, accounts are lost on restart")
		accounts = account.NewMemoryRepository()
	}

	var eventPub ports.EventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		publisher, err := events.NewRedisStreamPublisher(redisClient, cfg.Events.Topic, watermill.NewSlogLogger(logger.Logger))
		if err != nil {
			logger.Fatal("failed to create event publisher", "error", err)
		}
		defer publisher.Close()
		eventPub = publisher
	}

	authService := service.NewAuthService(
		service.NewChallengeStore(cache, cfg.Challenge.TTL),
		service.NewCredentials(accounts, logger, cfg.Password.Cost),
		service.NewSessionStore(cache, cfg.Session.TTL, cfg.Session.RenewWindow),
		captcha.NewMathGenerator(cfg.Captcha.Width, cfg.Captcha.Height),
		eventPub,
		logger,
	)

	binder := transport.NewBinder(transport.BinderConfig{
		CookieName: cfg.Cookie.Name,
		Header:     cfg.TokenHeader,
		Domain:     cfg.Cookie.Domain,
		Secure:     cfg.Cookie.Secure,
		MaxAge:     cfg.Session.TTL,
	}, authService)

	router, err := transport.SetupRouter(authService, binder, logger, cfg.HTTP.TrustedProxies)
	if err != nil {
		logger.Fatal("failed to set up router", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server on", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Addr)
	}

	logger.Info("shutdown complete")
}
