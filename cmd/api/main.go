package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baharkarakas/qa-forum/internal/api"
	"github.com/baharkarakas/qa-forum/internal/auth"
	"github.com/baharkarakas/qa-forum/internal/config"
	"github.com/baharkarakas/qa-forum/internal/db"
	"github.com/baharkarakas/qa-forum/internal/logger"
	"github.com/baharkarakas/qa-forum/internal/metrics"
	"github.com/baharkarakas/qa-forum/internal/repository/postgres"
	"github.com/baharkarakas/qa-forum/internal/services"
	"github.com/baharkarakas/qa-forum/internal/session"
	"github.com/baharkarakas/qa-forum/internal/worker"
)

const sweepInterval = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Migrate {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	}

	dbPool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	metrics.Init()

	sessions, closeSessions, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("session store", "err", err)
		os.Exit(1)
	}
	defer closeSessions()

	repos := postgres.NewRepositories(dbPool)
	wp := worker.NewPool(cfg.HashWorkers)
	defer wp.Stop()
	metrics.RegisterGauge("forum_hash_queue_depth", "Password hashing jobs waiting for a worker", func() float64 {
		return float64(wp.Depth())
	})

	hasher := auth.NewHasher(cfg.BcryptCost, wp)
	cookie := auth.NewSessionCookie(cfg.CookieName, cfg.SessionSecret, cfg.CookieCrossSite)
	authSvc := services.NewAuthService(repos.Users, sessions, hasher)
	forumSvc := services.NewForumService(repos.Categories, repos.Questions, repos.Answers)

	r := api.NewRouter(api.RouterDeps{
		Cfg:      cfg,
		Logger:   log,
		AuthSvc:  authSvc,
		ForumSvc: forumSvc,
		Cookie:   cookie,
		DB:       dbPool,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "cors_origins", cfg.CORSOrigins)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// newSessionStore picks Redis when REDIS_ADDR is set and the in-memory store
// otherwise. The returned func releases the store's resources.
func newSessionStore(ctx context.Context, cfg config.Config, log *slog.Logger) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		mem := session.NewMemoryStore(cfg.SessionTTL)
		go mem.RunJanitor(ctx, sweepInterval)
		metrics.RegisterGauge("forum_sessions_active", "Sessions held in memory", func() float64 {
			return float64(mem.Len())
		})
		log.Info("session store", "kind", "memory", "ttl", cfg.SessionTTL)
		return mem, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := session.NewRedisStore(client, cfg.SessionTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info("session store", "kind", "redis", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return store, func() { _ = client.Close() }, nil
}
