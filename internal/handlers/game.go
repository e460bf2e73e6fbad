// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/lucky21/internal/game"
	"github.com/jason-s-yu/lucky21/internal/models"
)

// undefinedTable is the Postgres error code for a missing relation.
const undefinedTable = "42P01"

// StatusHandler answers liveness probes.
func (gs *GameServer) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("The API is running!\n"))
}

// StartHandler deals a new game for the caller's session.
func (gs *GameServer) StartHandler(w http.ResponseWriter, r *http.Request) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	state, err := gs.StartGame(r.Context(), sid)
	if err != nil {
		gs.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// StateHandler returns the caller's current game.
func (gs *GameServer) StateHandler(w http.ResponseWriter, r *http.Request) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	state, err := gs.State(r.Context(), sid)
	if err != nil {
		gs.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GuessHandler returns a handler applying the given guess.
func (gs *GameServer) GuessHandler(kind GuessKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := SessionFromContext(r.Context())
		if !ok {
			http.Error(w, "missing session", http.StatusUnauthorized)
			return
		}
		state, err := gs.Guess(r.Context(), sid, kind)
		if err != nil {
			gs.writeGameError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// StatsHandler reports totals over every recorded game.
func (gs *GameServer) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if gs.Stats == nil {
		http.Error(w, "Stats are not available", http.StatusServiceUnavailable)
		return
	}
	stats, err := gs.Stats.Stats(r.Context())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			// nothing has been recorded yet
			gs.Logger.WithError(err).Warn("results table missing, reporting empty stats")
			writeJSON(w, http.StatusOK, models.Stats{})
			return
		}
		gs.Logger.WithError(err).Error("failed to read stats")
		http.Error(w, "Failed to read stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// statusForError maps session and engine errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNoGame):
		return http.StatusNotFound
	case errors.Is(err, ErrGameInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrGameOver):
		return http.StatusForbidden
	case errors.Is(err, game.ErrDeckExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (gs *GameServer) writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		gs.Logger.WithError(err).WithField("path", r.URL.Path).Error("game request failed")
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
