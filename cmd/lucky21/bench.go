package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jason-s-yu/lucky21/internal/client"
	"github.com/jason-s-yu/lucky21/internal/game"
	"golang.org/x/sync/errgroup"
)

type BenchCmd struct {
	Games      int `kong:"default='100',help='Number of games to play'"`
	Workers    int `kong:"default='4',help='Concurrent players, each with its own session'"`
	MaxGuesses int `kong:"default='12',help='Fail if a game is not over after this many guesses'"`
}

type benchTotals struct {
	games   atomic.Int64
	wins    atomic.Int64
	guesses atomic.Int64
}

func (c *BenchCmd) Run(cli *CLI) error {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Games < 1 {
		return fmt.Errorf("--games must be positive")
	}

	var totals benchTotals
	start := time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < c.Workers; w++ {
		n := c.Games / c.Workers
		if w < c.Games%c.Workers {
			n++
		}
		g.Go(func() error {
			api, err := client.New(cli.Server)
			if err != nil {
				return err
			}
			random := game.NewTimeSeededRandom()
			for i := 0; i < n; i++ {
				if err := playRandomGame(ctx, api, random, c.MaxGuesses, &totals); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	games := totals.games.Load()
	fmt.Printf("Played %d games (%d won) with %d guesses in %s\n",
		games, totals.wins.Load(), totals.guesses.Load(), elapsed.Round(time.Millisecond))
	fmt.Printf("%.1f games/sec\n", float64(games)/elapsed.Seconds())
	return nil
}

// playRandomGame starts a game and guesses at random until it ends.
func playRandomGame(ctx context.Context, api *client.Client, random game.RandomSource, maxGuesses int, totals *benchTotals) error {
	st, err := api.Start(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	for i := 0; i < maxGuesses && !st.GameOver; i++ {
		if random.RandomInt(0, 1) == 0 {
			st, err = api.Guess21OrUnder(ctx)
		} else {
			st, err = api.GuessOver21(ctx)
		}
		if err != nil {
			return fmt.Errorf("guess: %w", err)
		}
		totals.guesses.Add(1)
	}
	if !st.GameOver {
		return fmt.Errorf("game not over after %d guesses: %v", maxGuesses, st.Cards)
	}
	totals.games.Add(1)
	if st.PlayerWon {
		totals.wins.Add(1)
	}
	return nil
}
