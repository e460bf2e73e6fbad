// internal/database/result.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/lucky21/internal/models"
)

const insertResultQuery = `
	INSERT INTO "GameResult" ("Won", "Score", "Total", "InsertDate")
	VALUES ($1, $2, $3, $4)
`

// ResultStore persists finished games and answers the history queries.
type ResultStore struct {
	db  DBTX
	now func() time.Time
}

func NewResultStore(db DBTX) *ResultStore {
	return &ResultStore{db: db, now: time.Now}
}

// InsertResult stores one finished game. A zero InsertDate is stamped with the current time.
func (s *ResultStore) InsertResult(ctx context.Context, r models.GameResult) error {
	return s.InsertResults(ctx, []models.GameResult{r})
}

// RecordResult lets the store stand in wherever results are recorded.
func (s *ResultStore) RecordResult(ctx context.Context, r models.GameResult) error {
	return s.InsertResult(ctx, r)
}

// InsertResults stores a batch of results in a single transaction.
func (s *ResultStore) InsertResults(ctx context.Context, results []models.GameResult) error {
	if len(results) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, r := range results {
			insertDate := r.InsertDate
			if insertDate.IsZero() {
				insertDate = s.now()
			}
			if _, err := tx.Exec(ctx, insertResultQuery, r.Won, r.Score, r.Total, insertDate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert game results: %w", err)
	}
	return nil
}

// TotalNumberOfGames counts every recorded game.
func (s *ResultStore) TotalNumberOfGames(ctx context.Context) (int64, error) {
	return s.countGameResults(ctx, "")
}

// TotalNumberOfWins counts games the player won.
func (s *ResultStore) TotalNumberOfWins(ctx context.Context) (int64, error) {
	return s.countGameResults(ctx, `WHERE "Won" = true`)
}

// TotalNumberOf21 counts games that ended with a hand worth exactly 21.
func (s *ResultStore) TotalNumberOf21(ctx context.Context) (int64, error) {
	return s.countGameResults(ctx, `WHERE "Score" = 21`)
}

// Stats runs all three counts.
func (s *ResultStore) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	var err error
	if st.TotalNumberOfGames, err = s.TotalNumberOfGames(ctx); err != nil {
		return st, err
	}
	if st.TotalNumberOfWins, err = s.TotalNumberOfWins(ctx); err != nil {
		return st, err
	}
	if st.TotalNumberOf21, err = s.TotalNumberOf21(ctx); err != nil {
		return st, err
	}
	return st, nil
}

// countGameResults counts rows matching a fixed condition; callers never pass user input.
func (s *ResultStore) countGameResults(ctx context.Context, condition string) (int64, error) {
	q := `SELECT COUNT(*) FROM "GameResult" ` + condition
	var n int64
	if err := s.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count game results: %w", err)
	}
	return n, nil
}
