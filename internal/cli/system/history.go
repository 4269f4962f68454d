package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/constants"
)

type HistoryCmd struct {
	Limit    int   `help:"Number of records to show (0 for all)." default:"20"`
	Schedule int64 `help:"Only show saves of this schedule id."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	limit := c.Limit
	if c.Schedule != 0 {
		// The filter runs after the query, so fetch everything.
		limit = 0
	}
	records, err := ctx.Store.GetCommitRecords(limit)
	if err != nil {
		return fmt.Errorf("failed to load commit history: %w", err)
	}

	out := ctx.Stdout()
	shown := 0
	for _, r := range records {
		if c.Schedule != 0 && r.ScheduleID != c.Schedule {
			continue
		}
		if c.Limit > 0 && shown == c.Limit {
			break
		}
		if shown == 0 {
			fmt.Fprintf(out, "%-20s %-10s %-22s %-6s %s\n", "TIME", "SCHEDULE", "RESULT", "FILES", "MESSAGE")
		}
		result := string(r.Result)
		if result == "" {
			result = "ERROR"
		}
		fmt.Fprintf(out, "%-20s %-10d %-22s %-6d %s\n",
			r.CreatedAt.Local().Format(constants.DateTimeFormat),
			r.ScheduleID,
			result,
			len(r.FileIDs),
			strings.TrimSpace(r.Message),
		)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "No schedule saves recorded.")
	}
	return nil
}
