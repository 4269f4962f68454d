package station

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
)

type SchedulesListCmd struct {
	Files bool `short:"f" help:"List the entries of every schedule."`
}

func (c *SchedulesListCmd) Run(ctx *cli.Context) error {
	dates, err := fetchDates(ctx)
	if err != nil {
		return err
	}
	out := ctx.Stdout()
	if len(dates) == 0 {
		fmt.Fprintln(out, "No schedules.")
		return nil
	}

	for _, d := range dates {
		fmt.Fprintf(out, "%s\n", d.Date)
		for _, s := range d.Schedules {
			fmt.Fprintf(out, "  #%-6d %-24s %s - %s  %d files, %s\n",
				s.ID, s.ShowTitle, utils.TrimSeconds(s.StartOn), utils.TrimSeconds(s.EndAt),
				len(s.ScheduleFiles), s.TotalDuration())
			if !c.Files {
				continue
			}
			for i, sf := range s.ScheduleFiles {
				artist, title := "?", "(missing file)"
				if sf.File != nil {
					artist, title = sf.File.Artist, sf.File.Title
				}
				fmt.Fprintf(out, "      %3d. %-8s %s - %s [%s]\n", i+1, entryState(sf), artist, title, sf.Duration())
			}
		}
	}
	return nil
}

// ExportRow is one schedule entry flattened for tabular export.
type ExportRow struct {
	Date       string `csv:"date" yaml:"date"`
	ScheduleID int64  `csv:"schedule_id" yaml:"schedule_id"`
	ShowTitle  string `csv:"show_title" yaml:"show_title"`
	StartOn    string `csv:"start_on" yaml:"start_on"`
	EndAt      string `csv:"end_at" yaml:"end_at"`
	Position   int    `csv:"position" yaml:"position"`
	EntryID    int64  `csv:"entry_id" yaml:"entry_id"`
	State      string `csv:"state" yaml:"state"`
	FileID     int64  `csv:"file_id" yaml:"file_id"`
	Artist     string `csv:"artist" yaml:"artist"`
	Title      string `csv:"title" yaml:"title"`
	Duration   string `csv:"duration" yaml:"duration"`
	Genre      string `csv:"genre" yaml:"genre,omitempty"`
}

// Flatten turns the schedule tree into export rows in broadcast order.
func Flatten(dates []*models.ScheduleDate) []ExportRow {
	var rows []ExportRow
	for _, d := range dates {
		for _, s := range d.Schedules {
			for i, sf := range s.ScheduleFiles {
				row := ExportRow{
					Date:       d.Date,
					ScheduleID: s.ID,
					ShowTitle:  s.ShowTitle,
					StartOn:    s.StartOn,
					EndAt:      s.EndAt,
					Position:   i + 1,
					EntryID:    sf.ID,
					State:      entryState(sf),
					FileID:     sf.FileID(),
					Duration:   sf.Duration(),
				}
				if sf.File != nil {
					row.Artist = sf.File.Artist
					row.Title = sf.File.Title
					row.Genre = sf.File.Genre
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

type SchedulesExportCmd struct {
	Format string `help:"Output format." enum:"csv,yaml,json" default:"csv"`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *SchedulesExportCmd) Run(ctx *cli.Context) error {
	dates, err := fetchDates(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = ctx.Stdout()
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	if err := Export(w, c.Format, dates); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Fprintf(ctx.Stdout(), "Exported %d schedule entries to %s\n", len(Flatten(dates)), c.Output)
	}
	return nil
}

// Export writes dates to w as csv, yaml or json.
func Export(w io.Writer, format string, dates []*models.ScheduleDate) error {
	switch format {
	case "csv":
		rows := Flatten(dates)
		if len(rows) == 0 {
			// csvutil refuses to infer a header from an empty slice.
			header, err := csvutil.Header(ExportRow{}, "csv")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, strings.Join(header, ","))
			return err
		}
		data, err := csvutil.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to encode csv: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Flatten(dates)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dates)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

type SchedulesDeactivateCmd struct {
	IDs []int64 `arg:"" name:"id" help:"Schedule ids to deactivate."`
	Yes bool    `short:"y" help:"Do not ask for confirmation."`
}

func (c *SchedulesDeactivateCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		return fmt.Errorf("deactivating %d schedule(s) cannot be undone; rerun with --yes", len(c.IDs))
	}
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Station.DeactivateSchedules(reqCtx, c.IDs); err != nil {
		return ctx.StationError("failed to deactivate schedules", err)
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Deactivated %d schedule(s)\n", len(c.IDs))
	return nil
}

type SchedulesGenerateCmd struct{}

func (c *SchedulesGenerateCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Station.GenerateSchedules(reqCtx); err != nil {
		return ctx.StationError("failed to generate schedules", err)
	}
	fmt.Fprintln(ctx.Stdout(), "✓ Schedule generation requested")
	return nil
}

func fetchDates(ctx *cli.Context) ([]*models.ScheduleDate, error) {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()

	dates, err := ctx.Station.FetchScheduleDates(reqCtx)
	if err != nil {
		return nil, ctx.StationError("failed to fetch schedules", err)
	}
	return dates, nil
}

func entryState(sf *models.ScheduleFile) string {
	switch {
	case sf.SkippedOn != nil && *sf.SkippedOn != "":
		return "skipped"
	case sf.PlayedOn != nil && *sf.PlayedOn != "":
		return "played"
	case sf.QueuedOn != nil && *sf.QueuedOn != "":
		return "queued"
	}
	return ""
}
