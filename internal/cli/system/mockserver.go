package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/mockserver"
)

type MockServerCmd struct {
	Addr    string `help:"Listen address (defaults to mock.addr from the config file)."`
	Advance int    `help:"Seconds between simulated engine steps; 0 disables the simulator, -1 uses mock.advance_seconds." default:"-1"`
}

func (c *MockServerCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	advance := time.Duration(c.Advance) * time.Second
	if ctx.Config != nil {
		if addr == "" {
			addr = ctx.Config.Mock.Addr
		}
		if c.Advance < 0 {
			advance = ctx.Config.AdvanceEvery()
		}
	}
	if addr == "" {
		return fmt.Errorf("no listen address configured")
	}
	if advance < 0 {
		advance = 0
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	station := mockserver.NewDemoStation(time.Now)
	fmt.Fprintf(ctx.Stdout(), "Mock station serving http://%s (advance every %s). Press Ctrl+C to stop.\n", addr, advance)
	return mockserver.Run(sigCtx, station, addr, advance, ctx.Debug)
}
