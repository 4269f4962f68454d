package station

import (
	"fmt"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/client"
)

type SearchCmd struct {
	Query     string `arg:"" optional:"" help:"Search text."`
	Restrict  bool   `help:"Cap the number of results at the station's search limit."`
	Randomize bool   `short:"r" help:"Shuffle the results."`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	files, err := ctx.Station.SearchFiles(reqCtx, client.SearchQuery{
		Query:     c.Query,
		Restrict:  c.Restrict,
		Randomize: c.Randomize,
	})
	if err != nil {
		return ctx.StationError("search failed", err)
	}

	out := ctx.Stdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No files found.")
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(out, "%6d  %-24s %-32s %s  %s\n", f.ID, f.Artist, f.Title, f.Duration, f.Genre)
	}
	return nil
}
