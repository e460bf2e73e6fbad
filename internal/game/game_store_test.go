// internal/game/game_store_test.go
package game

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStoreSessionCreatesOnce(t *testing.T) {
	store := NewGameStore(quartz.NewMock(t), time.Minute)
	id := uuid.New()

	s1 := store.Session(id)
	s2 := store.Session(id)

	assert.Same(t, s1, s2)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Lookup(id)
	require.True(t, ok)
	assert.Same(t, s1, got)

	store.Delete(id)
	_, ok = store.Lookup(id)
	assert.False(t, ok)
}

func TestGameStoreSweepEvictsIdleSessions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	store := NewGameStore(mClock, time.Minute)
	idle := uuid.New()
	active := uuid.New()

	store.Session(idle)
	mClock.Advance(30 * time.Second).MustWait(ctx)
	store.Session(active)
	mClock.Advance(45 * time.Second).MustWait(ctx)

	assert.Equal(t, 1, store.Sweep())
	_, ok := store.Lookup(idle)
	assert.False(t, ok)
	_, ok = store.Lookup(active)
	assert.True(t, ok)

	// touching a session keeps it alive
	store.Session(active)
	mClock.Advance(59 * time.Second).MustWait(ctx)
	assert.Equal(t, 0, store.Sweep())
}

func TestGameStoreWithoutTimeoutNeverEvicts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	store := NewGameStore(mClock, 0)
	store.Session(uuid.New())
	mClock.Advance(24 * time.Hour).MustWait(ctx)

	assert.Equal(t, 0, store.Sweep())

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	// returns immediately when eviction is disabled
	store.RunJanitor(ctx, time.Minute, logger)
}

func TestGameStoreJanitorEvictsOnTick(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	store := NewGameStore(mClock, time.Minute)
	idle := uuid.New()
	store.Session(idle)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		store.RunJanitor(janitorCtx, time.Minute, logger)
		close(done)
	}()

	// every advance lands exactly on a tick; the second one finds the session idle past the timeout
	require.Eventually(t, func() bool {
		mClock.Advance(time.Minute).MustWait(ctx)
		_, ok := store.Lookup(idle)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, store.Len())

	stopJanitor()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestSessionMarkRecorded(t *testing.T) {
	store := NewGameStore(quartz.NewMock(t), time.Minute)
	sess := store.Session(uuid.New())
	g, err := Start(NewRandom(5))
	require.NoError(t, err)

	sess.Lock()
	defer sess.Unlock()
	sess.Reset(g)
	assert.True(t, sess.MarkRecorded())
	assert.False(t, sess.MarkRecorded())

	sess.Reset(g)
	assert.True(t, sess.MarkRecorded())
}
