// Package historian drains finished-game results from the Redis queue and
// persists them to PostgreSQL in batches.
package historian

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jason-s-yu/lucky21/internal/cache"
	"github.com/jason-s-yu/lucky21/internal/models"
	"github.com/sirupsen/logrus"
)

// ResultSource yields queued results; cache.ResultQueue satisfies it.
type ResultSource interface {
	PopResult(ctx context.Context, timeout time.Duration) (models.GameResult, error)
}

// ResultWriter stores a batch atomically; database.ResultStore satisfies it.
type ResultWriter interface {
	InsertResults(ctx context.Context, results []models.GameResult) error
}

const defaultFlushDelay = 500 * time.Millisecond

// Service accumulates popped results and flushes them when the batch is full
// or the flush interval elapses, whichever comes first.
type Service struct {
	source     ResultSource
	writer     ResultWriter
	batchSize  int
	flushDelay time.Duration
	popTimeout time.Duration
	logger     *logrus.Logger

	batchMu sync.Mutex
	batch   []models.GameResult
}

func NewService(source ResultSource, writer ResultWriter, batchSize int, flushDelay time.Duration, logger *logrus.Logger) *Service {
	if batchSize <= 0 {
		batchSize = 1
	}
	if flushDelay <= 0 {
		flushDelay = defaultFlushDelay
	}
	return &Service{
		source:     source,
		writer:     writer,
		batchSize:  batchSize,
		flushDelay: flushDelay,
		popTimeout: 3 * time.Second,
		logger:     logger,
		batch:      make([]models.GameResult, 0, batchSize),
	}
}

// Run reads the queue until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()

	s.logger.Info("lucky21-historian started")
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.Flush(flushCtx)
			cancel()
			s.logger.Info("lucky21-historian shutting down")
			return

		case <-ticker.C:
			s.Flush(ctx)

		default:
			r, err := s.source.PopResult(ctx, s.popTimeout)
			if err != nil {
				if !errors.Is(err, cache.ErrQueueEmpty) && ctx.Err() == nil {
					s.logger.WithError(err).Error("pop result")
				}
				continue
			}
			s.appendToBatch(ctx, r)
		}
	}
}

// appendToBatch adds a result and flushes once the batch is full.
func (s *Service) appendToBatch(ctx context.Context, r models.GameResult) {
	s.batchMu.Lock()
	s.batch = append(s.batch, r)
	full := len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if full {
		s.Flush(ctx)
	}
}

// Flush writes the pending batch in one transaction. On failure the results
// stay pending and are retried on the next flush.
func (s *Service) Flush(ctx context.Context) {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	if len(s.batch) == 0 {
		return
	}
	if err := s.writer.InsertResults(ctx, s.batch); err != nil {
		s.logger.WithError(err).WithField("pending", len(s.batch)).Error("flush results to DB")
		return
	}
	s.logger.WithField("count", len(s.batch)).Info("flushed results to DB")
	s.batch = make([]models.GameResult, 0, s.batchSize)
}

// Pending reports how many results are waiting to be flushed.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}
