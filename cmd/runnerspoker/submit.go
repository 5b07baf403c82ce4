package main

import (
	"os"

	"github.com/lox/runnerspoker/cmd/runnerspoker/shared"
	"github.com/lox/runnerspoker/internal/client"
)

type SubmitCmd struct {
	Server string `kong:"default='ws://localhost:8080/ws',help='Session server URL'"`
	Name   string `kong:"required,help='Your player name as configured in the game'"`
	Chips  int    `kong:"required,help='Your final chip count'"`
}

func (c *SubmitCmd) Run(g *Globals) error {
	logger := shared.NewLogger(g.Debug)

	return client.Run(client.Config{
		Server: c.Server,
		Name:   c.Name,
		Chips:  c.Chips,
	}, logger, os.Stdout)
}
