// internal/historian/historian_test.go
package historian

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jason-s-yu/lucky21/internal/cache"
	"github.com/jason-s-yu/lucky21/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	results []models.GameResult
}

func (f *fakeSource) PopResult(ctx context.Context, timeout time.Duration) (models.GameResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) == 0 {
		time.Sleep(time.Millisecond)
		return models.GameResult{}, cache.ErrQueueEmpty
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, nil
}

type fakeWriter struct {
	mu      sync.Mutex
	fail    bool
	batches [][]models.GameResult
}

func (f *fakeWriter) InsertResults(ctx context.Context, results []models.GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("db down")
	}
	f.batches = append(f.batches, append([]models.GameResult(nil), results...))
	return nil
}

func (f *fakeWriter) written() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestHistorianFlushesFullBatches(t *testing.T) {
	source := &fakeSource{results: []models.GameResult{
		{Won: true, Score: 21, Total: 21},
		{Won: false, Score: 24, Total: 24},
		{Won: true, Score: 18, Total: 26},
	}}
	writer := &fakeWriter{}
	hs := NewService(source, writer, 2, time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hs.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return writer.written() == 2 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return hs.Pending() == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	// the leftover result is flushed on shutdown
	assert.Equal(t, 3, writer.written())
	writer.mu.Lock()
	defer writer.mu.Unlock()
	require.Len(t, writer.batches, 2)
	assert.Len(t, writer.batches[0], 2)
	assert.Len(t, writer.batches[1], 1)
}

func TestHistorianFlushesOnInterval(t *testing.T) {
	source := &fakeSource{results: []models.GameResult{{Won: true, Score: 21, Total: 21}}}
	writer := &fakeWriter{}
	hs := NewService(source, writer, 50, 20*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hs.Run(ctx)

	require.Eventually(t, func() bool { return writer.written() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestHistorianDefaultsNonPositiveFlushDelay(t *testing.T) {
	source := &fakeSource{results: []models.GameResult{{Won: false, Score: 25, Total: 25}}}
	writer := &fakeWriter{}
	hs := NewService(source, writer, 50, 0, quietLogger())
	assert.Equal(t, defaultFlushDelay, hs.flushDelay)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hs.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return writer.written() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, defaultFlushDelay, NewService(source, writer, 1, -time.Second, quietLogger()).flushDelay)
}

func TestHistorianKeepsBatchOnWriteFailure(t *testing.T) {
	writer := &fakeWriter{fail: true}
	hs := NewService(&fakeSource{}, writer, 10, time.Hour, quietLogger())

	hs.appendToBatch(context.Background(), models.GameResult{Won: true, Score: 21, Total: 21})
	hs.Flush(context.Background())
	assert.Equal(t, 1, hs.Pending())

	writer.mu.Lock()
	writer.fail = false
	writer.mu.Unlock()

	hs.Flush(context.Background())
	assert.Equal(t, 0, hs.Pending())
	assert.Equal(t, 1, writer.written())
}
