package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/runnerspoker/cmd/runnerspoker/shared"
	"github.com/lox/runnerspoker/internal/config"
	"github.com/lox/runnerspoker/internal/server"
)

type ServeCmd struct {
	File string `arg:"" type:"existingfile" help:"Game definition file (HCL); final_chips values are ignored"`
	Addr string `kong:"default=':8080',help='Address to listen on'"`
}

func (c *ServeCmd) Run(g *Globals) error {
	logger := shared.NewLogger(g.Debug)

	gf, err := config.Load(c.File)
	if err != nil {
		return err
	}

	game, players, err := gf.ToGame()
	if err != nil {
		return err
	}

	session, err := server.NewSession(game, players)
	if err != nil {
		return err
	}

	srv := server.NewServer(c.Addr, session, logger, quartz.NewReal())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Start(ctx)
	})
	eg.Go(func() error {
		<-ctx.Done()
		return srv.Stop()
	})

	return eg.Wait()
}
