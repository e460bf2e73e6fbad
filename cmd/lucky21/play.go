package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jason-s-yu/lucky21/internal/client"
	"github.com/jason-s-yu/lucky21/internal/handlers"
	"golang.org/x/term"
)

type PlayCmd struct {
	NoColor bool `kong:"help='Disable coloured output'"`
	Names   bool `kong:"help='Show card artwork names (Ah, Qs, 10c) instead of suit symbols'"`
}

var (
	redCard   = color.New(color.FgHiRed, color.Bold)
	blackCard = color.New(color.FgHiWhite, color.Bold)
	label     = color.New(color.FgCyan)
	good      = color.New(color.FgGreen, color.Bold)
	bad       = color.New(color.FgRed, color.Bold)
)

func (c *PlayCmd) Run(cli *CLI) error {
	if c.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	api, err := client.New(cli.Server)
	if err != nil {
		return err
	}
	cardName := client.Pretty
	if c.Names {
		cardName = client.DisplayName
	}
	return play(context.Background(), api, os.Stdin, os.Stdout, cardName)
}

func play(ctx context.Context, api *client.Client, in io.Reader, out io.Writer, cardName func(string) string) error {
	st, err := api.State(ctx)
	switch {
	case client.IsStatus(err, http.StatusNotFound):
		if st, err = api.Start(ctx); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	render(out, st, cardName)

	scanner := bufio.NewScanner(in)
	for {
		if st.GameOver {
			fmt.Fprint(out, label.Sprint("[n]ew game, [q]uit: "))
		} else {
			fmt.Fprint(out, label.Sprint("[u]nder or 21, [o]ver 21, [q]uit: "))
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		var next handlers.StateResponse
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "u":
			next, err = api.Guess21OrUnder(ctx)
		case "o":
			next, err = api.GuessOver21(ctx)
		case "n":
			next, err = api.Start(ctx)
		case "q":
			return nil
		default:
			continue
		}
		if err != nil {
			fmt.Fprintln(out, bad.Sprint(err.Error()))
			continue
		}
		st = next
		render(out, st, cardName)
	}
}

func render(out io.Writer, st handlers.StateResponse, cardName func(string) string) {
	cards := make([]string, 0, len(st.Cards))
	for _, tok := range st.Cards {
		cards = append(cards, paint(tok, cardName))
	}
	fmt.Fprintf(out, "%s %s  (%d)\n", label.Sprint("Hand:"), strings.Join(cards, " "), st.CardsValue)
	if st.Card != nil && st.CardValue != nil {
		fmt.Fprintf(out, "%s %s  (%d)\n", label.Sprint("Next:"), paint(*st.Card, cardName), *st.CardValue)
	}
	fmt.Fprintf(out, "%s %d\n", label.Sprint("Total:"), st.Total)

	if !st.GameOver {
		return
	}
	if st.PlayerWon {
		fmt.Fprintln(out, good.Sprint("You win!"))
	} else {
		fmt.Fprintln(out, bad.Sprint("You lose."))
	}
}

func paint(token string, cardName func(string) string) string {
	if client.IsRed(token) {
		return redCard.Sprint(cardName(token))
	}
	return blackCard.Sprint(cardName(token))
}
