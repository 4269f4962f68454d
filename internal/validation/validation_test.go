package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/cloudcast/internal/models"
)

func ts(s string) *string { return &s }

func file(id int64, duration string) *models.File {
	return &models.File{ID: id, Artist: "Artist", Title: "Title", Duration: duration}
}

func cleanDates() []*models.ScheduleDate {
	return []*models.ScheduleDate{
		{
			Date: "2024-05-01",
			Schedules: []*models.Schedule{
				{
					ID: 1, StartOn: "2024-05-01 20:00:00", EndAt: "2024-05-01 21:00:00", ShowTitle: "Evening",
					ScheduleFiles: []*models.ScheduleFile{
						{ID: 11, File: file(101, "00:03:30"), PlayedOn: ts("2024-05-01 20:00:00")},
						{ID: 12, File: file(102, "04:10"), QueuedOn: ts("2024-05-01 20:03:00")},
						{ID: 13, File: file(103, "00:02:00")},
					},
				},
				{
					ID: 2, StartOn: "2024-05-01 21:00:00", EndAt: "2024-05-01 22:00:00", ShowTitle: "Night",
					ScheduleFiles: []*models.ScheduleFile{
						{ID: 21, File: file(201, "00:05:00")},
					},
				},
			},
		},
	}
}

func conflictTypes(result ValidationResult) []ConflictType {
	var out []ConflictType
	for _, c := range result.Conflicts {
		out = append(out, c.Type)
	}
	return out
}

func TestValidateDatesClean(t *testing.T) {
	result := New().ValidateDates(cleanDates())
	if result.HasConflicts() {
		t.Fatalf("unexpected conflicts: %v", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidateDatesConflicts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(dates []*models.ScheduleDate)
		want   ConflictType
	}{
		{
			name: "duplicate schedule id",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[1].ID = 1
			},
			want: ConflictDuplicateScheduleID,
		},
		{
			name: "duplicate entry id",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[1].ScheduleFiles[0].ID = 12
			},
			want: ConflictDuplicateEntryID,
		},
		{
			name: "static after movable",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[0].ScheduleFiles[2].SkippedOn = ts("2024-05-01 20:10:00")
			},
			want: ConflictStaticAfterMovable,
		},
		{
			name: "malformed duration",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[0].ScheduleFiles[1].File.Duration = "four minutes"
			},
			want: ConflictMalformedDuration,
		},
		{
			name: "missing file",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[1].ScheduleFiles[0].File = nil
			},
			want: ConflictMissingFile,
		},
		{
			name: "invalid start",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[0].StartOn = "tonight"
			},
			want: ConflictInvalidDateTime,
		},
		{
			name: "end before start",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[1].EndAt = "2024-05-01 20:30:00"
			},
			want: ConflictInvalidDateTime,
		},
		{
			name: "overlapping schedules",
			mutate: func(d []*models.ScheduleDate) {
				d[0].Schedules[1].StartOn = "2024-05-01 20:45"
			},
			want: ConflictOverlappingSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := cleanDates()
			tt.mutate(dates)

			result := New().ValidateDates(dates)
			found := false
			for _, typ := range conflictTypes(result) {
				if typ == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("conflicts = %v, want one of type %s", conflictTypes(result), tt.want)
			}
		})
	}
}

func TestTouchingSchedulesDoNotOverlap(t *testing.T) {
	result := New().ValidateDates(cleanDates())
	for _, c := range result.Conflicts {
		if c.Type == ConflictOverlappingSchedule {
			t.Fatalf("back-to-back schedules flagged: %s", c.Description)
		}
	}
}

func TestFormatReportListsConflicts(t *testing.T) {
	dates := cleanDates()
	dates[0].Schedules[0].ScheduleFiles[0].File = nil

	result := New().ValidateDates(dates)
	report := result.FormatReport()
	if !strings.HasPrefix(report, "Conflicts detected:") || !strings.Contains(report, "has no file") {
		t.Errorf("FormatReport() = %q", report)
	}
}
