// cmd/server/main.go
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

	"github.com/coder/quartz"
	"github.com/jason-s-yu/lucky21/internal/auth"
	"github.com/jason-s-yu/lucky21/internal/cache"
	"github.com/jason-s-yu/lucky21/internal/config"
	"github.com/jason-s-yu/lucky21/internal/database"
	"github.com/jason-s-yu/lucky21/internal/game"
	"github.com/jason-s-yu/lucky21/internal/handlers"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	logger.SetLevel(level)
	if cfg.Env != "dev" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectDB(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatalf("schema: %v", err)
	}
	store := database.NewResultStore(pool)

	var recorder handlers.ResultRecorder = store
	if cfg.ResultSink == config.SinkQueue {
		rdb, err := cache.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		queue := cache.NewResultQueue(rdb, cfg.Redis.QueueName)
		recorder = queue
		logger.Infof("Recording results to redis queue %s", queue.Name())
	}

	ttl, err := cfg.TokenTTL()
	if err != nil {
		logger.Fatalf("token expiry: %v", err)
	}
	sessions, err := auth.NewSessions(ttl)
	if err != nil {
		logger.Fatalf("sessions: %v", err)
	}

	var random game.RandomSource
	if cfg.Seed != nil {
		logger.Warnf("Using fixed shuffle seed %d", *cfg.Seed)
		random = game.NewRandom(*cfg.Seed)
	} else {
		random = game.NewTimeSeededRandom()
	}

	games := game.NewGameStore(quartz.NewReal(), cfg.SessionIdleTimeout())
	gs := handlers.NewGameServer(games, random, recorder, store, sessions, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gs.Routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		games.RunJanitor(gctx, time.Minute, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
