package station

import (
	"fmt"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/utils"
)

type InputEnableCmd struct {
	Line  string `arg:"" enum:"schedule,show,talkover,master" help:"Input line: schedule, show, talkover or master."`
	State string `arg:"" enum:"on,off" help:"on or off."`
}

func (c *InputEnableCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	enabled := c.State == "on"
	if err := ctx.Station.EnableInput(reqCtx, constants.InputLine(c.Line), enabled); err != nil {
		return ctx.StationError(fmt.Sprintf("failed to switch %s input %s", c.Line, c.State), err)
	}
	fmt.Fprintf(ctx.Stdout(), "✓ %s input switched %s\n", c.Line, c.State)
	return nil
}

type PostSetCmd struct {
	FileID int64  `arg:"" name:"file-id" help:"Library file id."`
	Post   string `arg:"" help:"Post mark as HH:MM:SS or MM:SS."`
}

func (c *PostSetCmd) Run(ctx *cli.Context) error {
	if utils.ToSeconds(c.Post) <= 0 {
		return fmt.Errorf("invalid post %q: expected a positive HH:MM:SS or MM:SS duration", c.Post)
	}
	post := utils.Normalize(c.Post)

	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Station.SetPost(reqCtx, c.FileID, post); err != nil {
		return ctx.StationError("failed to set post", err)
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Post of file %d set to %s\n", c.FileID, post)
	return nil
}
