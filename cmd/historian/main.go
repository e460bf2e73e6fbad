// cmd/historian/main.go drains finished-game results from the Redis queue and
// persists them to PostgreSQL. Run it alongside the server when RESULT_SINK=queue.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/lucky21/internal/cache"
	"github.com/jason-s-yu/lucky21/internal/config"
	"github.com/jason-s-yu/lucky21/internal/database"
	"github.com/jason-s-yu/lucky21/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
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

	rdb, err := cache.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	queue := cache.NewResultQueue(rdb, cfg.Redis.QueueName)
	logger.WithFields(logrus.Fields{
		"queue":      queue.Name(),
		"batch_size": cfg.Historian.BatchSize,
		"flush":      cfg.FlushDelay(),
	}).Info("historian configured")

	hs := historian.NewService(queue, database.NewResultStore(pool), cfg.Historian.BatchSize, cfg.FlushDelay(), logger)
	hs.Run(ctx)
}
