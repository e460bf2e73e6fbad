package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coder/quartz"
	"github.com/jason-s-yu/lucky21/internal/auth"
	"github.com/jason-s-yu/lucky21/internal/game"
	"github.com/jason-s-yu/lucky21/internal/handlers"
	"github.com/jason-s-yu/lucky21/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopRecorder struct{}

func (nopRecorder) RecordResult(ctx context.Context, r models.GameResult) error { return nil }

type staticStats models.Stats

func (s staticStats) Stats(ctx context.Context) (models.Stats, error) { return models.Stats(s), nil }

func newTestAPI(t *testing.T) *Client {
	t.Helper()
	sessions, err := auth.NewSessions(0)
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	noShuffle := game.RandomFunc(func(min, max int) int { return min })
	gs := handlers.NewGameServer(game.NewGameStore(quartz.NewMock(t), 0), noShuffle, nopRecorder{},
		staticStats{TotalNumberOfGames: 4, TotalNumberOfWins: 1, TotalNumberOf21: 1}, sessions, logger)
	srv := httptest.NewServer(gs.Routes(nil))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	return c
}

func TestClientPlaysAGame(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "The API is running!\n", status)

	_, err = c.State(ctx)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	st, err := c.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"13S", "12S"}, st.Cards)

	_, err = c.Start(ctx)
	assert.True(t, IsStatus(err, http.StatusConflict))

	st, err = c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, st.Total)

	st, err = c.Guess21OrUnder(ctx)
	require.NoError(t, err)
	assert.True(t, st.GameOver)
	assert.False(t, st.PlayerWon)

	_, err = c.GuessOver21(ctx)
	assert.True(t, IsStatus(err, http.StatusForbidden))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalNumberOfGames)
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: http.StatusNotFound, Message: "game not started"}
	assert.Equal(t, "lucky21 api: 404 game not started", err.Error())
	assert.False(t, IsStatus(err, http.StatusConflict))
}
