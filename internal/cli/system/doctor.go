package system

import (
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
	"github.com/julianstephens/cloudcast/internal/validation"
)

// MaxClockDrift is how far the station's generated_on may be from local time before doctor warns.
const MaxClockDrift = 5 * time.Minute

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkipped
)

func report(out io.Writer, name string, result checkResult, detail string) {
	switch result {
	case checkOK:
		fmt.Fprintf(out, "✓ %s: OK\n", name)
	case checkWarn:
		fmt.Fprintf(out, "⚠ %s: WARNING\n", name)
		fmt.Fprintf(out, "   %s\n", detail)
	case checkFail:
		fmt.Fprintf(out, "❌ %s: FAIL\n", name)
		fmt.Fprintf(out, "   Error: %s\n", detail)
	case checkSkipped:
		fmt.Fprintf(out, "⊘ %s: SKIPPED (%s)\n", name, detail)
	}
}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	fmt.Fprintln(out, "Running cloudcast diagnostics...")
	fmt.Fprintln(out)

	hasError := false
	check := func(name string, err error) bool {
		if err != nil {
			report(out, name, checkFail, err.Error())
			hasError = true
			return false
		}
		report(out, name, checkOK, "")
		return true
	}

	// Local store
	dbReachable := check("Database reachable", ctx.Store.Load())
	if dbReachable {
		check("Schema version", checkSchemaVersion(ctx))
	} else {
		report(out, "Schema version", checkSkipped, "database not reachable")
	}

	// Station
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()
	st, err := ctx.Station.FetchStatus(reqCtx)
	stationReachable := check("Station reachable", err)

	if stationReachable {
		dates, err := ctx.Station.FetchScheduleDates(reqCtx)
		if err != nil {
			check("Schedule payload", err)
		} else {
			result := validation.New().ValidateDates(dates)
			if result.HasConflicts() {
				report(out, "Schedule payload", checkFail, result.FormatReport())
				hasError = true
			} else {
				report(out, "Schedule payload", checkOK, "")
			}
		}

		if drift, ok := clockDrift(st, time.Now()); !ok {
			report(out, "Clock sanity", checkWarn, "station status carries no generated_on timestamp")
		} else if drift > MaxClockDrift {
			report(out, "Clock sanity", checkWarn, fmt.Sprintf("station clock differs from local time by %s", drift.Round(time.Second)))
		} else {
			report(out, "Clock sanity", checkOK, "")
		}
	} else {
		report(out, "Schedule payload", checkSkipped, "station not reachable")
		report(out, "Clock sanity", checkSkipped, "station not reachable")
	}

	fmt.Fprintln(out)
	if path := logger.Path(); path != "" {
		fmt.Fprintf(out, "Log file: %s\n", path)
	}
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("schema version %d does not match latest %d; run 'cloudcast init'", current, latest)
	}
	return nil
}

// clockDrift compares the station's generated_on, read in local time, with now.
func clockDrift(st *models.Status, now time.Time) (time.Duration, bool) {
	if st == nil {
		return 0, false
	}
	generated, ok := utils.ParseDateTime(st.GeneratedOn)
	if !ok {
		return 0, false
	}
	drift := now.Sub(generated)
	if drift < 0 {
		drift = -drift
	}
	return drift, true
}
