package status

import (
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
)

// Snapshot is the last authoritative status plus the fields derived from it.
type Snapshot struct {
	models.Status
	Derived models.Derived
}

// Extrapolate derives the display fields for a status that was generated
// ticks seconds ago. It is a pure function of its inputs.
func Extrapolate(st models.Status, ticks int) models.Derived {
	var d models.Derived
	d.CurrentFileElapsed = constants.ZeroDuration
	d.CurrentFileRemaining = constants.ZeroDuration
	d.CurrentShowElapsed = constants.ZeroDuration
	d.CurrentShowRemaining = constants.ZeroDuration

	generated, ok := utils.ParseDateTime(st.GeneratedOn)
	if !ok {
		return d
	}
	updated := generated.Add(time.Duration(ticks) * time.Second)
	d.UpdatedOnTime = utils.TimeOfDay(updated)

	if start, ok := utils.ParseDateTime(st.FilePlayedOn); ok {
		d.CurrentFileElapsed, d.CurrentFileRemaining, d.CurrentFilePercentage = progress(start, updated, st.CurrentFileDuration)
	}
	if start, ok := utils.ParseDateTime(st.ShowStartedOn); ok {
		d.CurrentShowElapsed, d.CurrentShowRemaining, d.CurrentShowPercentage = progress(start, updated, st.CurrentShowDuration)
	}

	if st.CurrentFilePost != "" {
		d.CurrentFilePostPercentage = utils.Percentage(utils.ToSeconds(st.CurrentFilePost), utils.ToSeconds(st.CurrentFileDuration))
	}
	return d
}

func progress(start, now time.Time, duration string) (elapsed, remaining string, percentage float64) {
	total := utils.ToSeconds(duration)
	if total <= 0 {
		return constants.ZeroDuration, constants.ZeroDuration, 0
	}
	secs := max(utils.SpanSeconds(start, now), 0)
	return utils.FromSeconds(secs), utils.FromSeconds(total - secs), utils.Percentage(secs, total)
}
