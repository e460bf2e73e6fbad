package main

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/lucky21/internal/client"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(cli *CLI) error {
	api, err := client.New(cli.Server)
	if err != nil {
		return err
	}
	stats, err := api.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Games played: %d\n", stats.TotalNumberOfGames)
	fmt.Printf("Games won:    %d\n", stats.TotalNumberOfWins)
	fmt.Printf("Hit 21:       %d\n", stats.TotalNumberOf21)
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(cli *CLI) error {
	api, err := client.New(cli.Server)
	if err != nil {
		return err
	}
	msg, err := api.Status(context.Background())
	if err != nil {
		return err
	}
	fmt.Print(msg)
	return nil
}
