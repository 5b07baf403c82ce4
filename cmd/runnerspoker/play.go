package main

import (
	"github.com/coder/quartz"

	"github.com/lox/runnerspoker/cmd/runnerspoker/shared"
	"github.com/lox/runnerspoker/internal/tui"
)

type PlayCmd struct{}

func (c *PlayCmd) Run(g *Globals) error {
	logger := shared.NewLogger(g.Debug)
	return tui.Run(logger, quartz.NewReal())
}
