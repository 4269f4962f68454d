package station

import (
	"fmt"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/status"
	"github.com/julianstephens/cloudcast/internal/utils"
)

type NowCmd struct{}

func (c *NowCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	st, err := ctx.Station.FetchStatus(reqCtx)
	if err != nil {
		return ctx.StationError("failed to fetch status", err)
	}
	d := status.Extrapolate(*st, 0)
	out := ctx.Stdout()

	if st.CurrentFileTitle == "" {
		fmt.Fprintln(out, "Nothing is playing.")
	} else {
		fmt.Fprintf(out, "Now playing: %s - %s\n", st.CurrentFileArtist, st.CurrentFileTitle)
		fmt.Fprintf(out, "  %s elapsed, %s remaining of %s (%.0f%%)\n",
			d.CurrentFileElapsed, d.CurrentFileRemaining, utils.Normalize(st.CurrentFileDuration), clampPercent(d.CurrentFilePercentage))
		if st.CurrentFilePost != "" {
			fmt.Fprintf(out, "  Post: %s\n", st.CurrentFilePost)
		}
	}
	if st.NextFileTitle != "" {
		fmt.Fprintf(out, "Next: %s - %s (%s)\n", st.NextFileArtist, st.NextFileTitle, utils.Normalize(st.NextFileDuration))
	}
	if st.CurrentShowTitle != "" {
		fmt.Fprintf(out, "Show: %s, %s elapsed, %s remaining\n", st.CurrentShowTitle, d.CurrentShowElapsed, d.CurrentShowRemaining)
	}
	if st.NextShowTitle != "" {
		fmt.Fprintf(out, "Next show: %s (%s)\n", st.NextShowTitle, utils.Normalize(st.NextShowDuration))
	}
	if st.HostUsername != "" {
		fmt.Fprintf(out, "Host: %s\n", st.HostUsername)
	}

	fmt.Fprintln(out, "Inputs:")
	for _, line := range constants.InputLines {
		in := st.Input(line)
		state := "off"
		if in.Enabled {
			state = "on"
		}
		onAir := ""
		if in.Active {
			onAir = " ON AIR"
		}
		user := ""
		if in.Username != "" {
			user = " (" + in.Username + ")"
		}
		fmt.Fprintf(out, "  %-9s %-3s%s%s\n", line, state, onAir, user)
	}
	if d.UpdatedOnTime != "" {
		fmt.Fprintf(out, "Updated at %s\n", d.UpdatedOnTime)
	}
	return nil
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
