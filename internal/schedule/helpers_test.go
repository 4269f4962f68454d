package schedule

import (
	"context"
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
)

type fakeStation struct {
	dates       []*models.ScheduleDate
	result      constants.SaveResult
	saveErr     error
	saved       []int64
	deactivated []int64
	generated   int
}

func (f *fakeStation) FetchScheduleDates(ctx context.Context) ([]*models.ScheduleDate, error) {
	return f.dates, nil
}

func (f *fakeStation) SaveSchedule(ctx context.Context, id int64, fileIDs []int64) (constants.SaveResult, error) {
	f.saved = fileIDs
	return f.result, f.saveErr
}

func (f *fakeStation) DeactivateSchedules(ctx context.Context, ids []int64) error {
	f.deactivated = ids
	return nil
}

func (f *fakeStation) GenerateSchedules(ctx context.Context) error {
	f.generated++
	return nil
}

func stamp(s string) *string { return &s }

func entry(id, fileID int64, state string) *models.ScheduleFile {
	sf := &models.ScheduleFile{ID: id, File: &models.File{ID: fileID, Duration: "00:03:00"}}
	switch state {
	case "played":
		sf.PlayedOn = stamp("2024-05-01 12:00:00")
	case "queued":
		sf.QueuedOn = stamp("2024-05-01 12:03:00")
	case "skipped":
		sf.SkippedOn = stamp("2024-05-01 12:03:00")
	}
	return sf
}

// payload builds a fresh server response: one date with schedule 1 (two static
// entries then three movable ones) and schedule 2 (two movable entries).
func payload() []*models.ScheduleDate {
	return []*models.ScheduleDate{
		{
			Date: "2024-05-01",
			Schedules: []*models.Schedule{
				{ID: 1, ScheduleFiles: []*models.ScheduleFile{
					entry(11, 101, "played"),
					entry(12, 102, "queued"),
					entry(13, 103, ""),
					entry(14, 104, ""),
					entry(15, 105, ""),
				}},
				{ID: 2, ScheduleFiles: []*models.ScheduleFile{
					entry(21, 201, ""),
					entry(22, 202, ""),
				}},
			},
		},
	}
}

func newTestCoordinator(station *fakeStation, autoRefresh bool) *Coordinator {
	if station.dates == nil {
		station.dates = payload()
	}
	c := NewCoordinator(station, Options{AutoRefresh: autoRefresh, Timeout: time.Second})
	c.SetAutoRefresh(autoRefresh)
	c.Apply(payload())
	return c
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
