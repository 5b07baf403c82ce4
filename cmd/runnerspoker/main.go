package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every subcommand
type Globals struct {
	Debug bool `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Run the interactive game form"`
	Calc    CalcCmd          `cmd:"" help:"Calculate forfeits from a game file"`
	Serve   ServeCmd         `cmd:"" help:"Host a game session players submit chips to"`
	Submit  SubmitCmd        `cmd:"" help:"Submit your final chips to a hosted session"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("runnerspoker"),
		kong.Description("Convert poker chip results into running forfeits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
