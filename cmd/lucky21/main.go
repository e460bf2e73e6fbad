// cmd/lucky21 is a terminal client for the lucky21 API.
package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Server  string           `kong:"default='http://localhost:3000',env='LUCKY21_SERVER',help='API base URL'"`

	Play   PlayCmd   `cmd:"" default:"1" help:"Play interactively"`
	Bench  BenchCmd  `cmd:"" help:"Play random games against the API and report throughput"`
	Stats  StatsCmd  `cmd:"" help:"Show recorded game statistics"`
	Status StatusCmd `cmd:"" help:"Check that the API is up"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lucky21"),
		kong.Description("Guess whether the next card takes you past 21"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
