package main

import (
	"os"

	"github.com/coder/quartz"

	"github.com/lox/runnerspoker/internal/config"
	"github.com/lox/runnerspoker/internal/forfeit"
	"github.com/lox/runnerspoker/internal/render"
)

type CalcCmd struct {
	File string `arg:"" type:"existingfile" help:"Game definition file (HCL)"`
}

func (c *CalcCmd) Run(g *Globals) error {
	gf, err := config.Load(c.File)
	if err != nil {
		return err
	}

	game, players, err := gf.ToGame()
	if err != nil {
		return err
	}

	results, check := forfeit.Calculate(game, players)
	return render.Results(os.Stdout, game, results, check, quartz.NewReal())
}
