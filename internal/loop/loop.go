// Package loop wires a game server and a terminal client together for a
// single local player.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/loop/client"
	"github.com/tomz197/starstrike/internal/loop/server"
)

// Options configures a local game.
type Options struct {
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
}

// Run starts a game server on its own goroutine and blocks in the terminal
// client until the player quits or the input closes.
func Run(r *bufio.Reader, w io.Writer, t config.Tuning, opts Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := server.New(t, server.Options{Logger: opts.Logger})
	done := make(chan struct{})
	go func() {
		defer close(done)
		gs.Run(ctx)
	}()

	c := client.NewClient(gs, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Logger:       opts.Logger,
	})
	err := c.Run()

	cancel()
	<-done
	return err
}
