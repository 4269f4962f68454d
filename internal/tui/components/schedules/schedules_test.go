package schedules

import (
	"testing"

	"github.com/julianstephens/cloudcast/internal/models"
)

func entry(id int64, title string) *models.ScheduleFile {
	return &models.ScheduleFile{ID: id, File: &models.File{ID: id * 10, Title: title}}
}

func TestSetTreeKeepsCursorOnEntryAfterShift(t *testing.T) {
	a, b, c := entry(1, "a"), entry(2, "b"), entry(3, "c")
	sched := &models.Schedule{ID: 7, Expanded: true, ScheduleFiles: []*models.ScheduleFile{a, b, c}}
	dates := []*models.ScheduleDate{{Date: "2024-05-01", Schedules: []*models.Schedule{sched}}}

	m := New(80, 20)
	m.SetTree(dates, false)
	m.SetCursorEntry(sched, 1)
	if r, _ := m.Cursor(); r.Entry() != b {
		t.Fatalf("cursor entry = %v, want b", r.Entry())
	}

	// A refresh inserts a new entry ahead of b.
	sched.ScheduleFiles = []*models.ScheduleFile{entry(9, "new"), a, b, c}
	m.SetTree(dates, false)

	r, ok := m.Cursor()
	if !ok {
		t.Fatal("cursor lost after refresh")
	}
	if r.Entry() != b {
		t.Errorf("cursor entry = %+v, want b", r.Entry())
	}
	if r.Index != 2 {
		t.Errorf("cursor index = %d, want 2", r.Index)
	}
}

func TestSetTreeFallsBackToScheduleWhenEntryRemoved(t *testing.T) {
	a, b := entry(1, "a"), entry(2, "b")
	sched := &models.Schedule{ID: 7, Expanded: true, ScheduleFiles: []*models.ScheduleFile{a, b}}
	dates := []*models.ScheduleDate{{Date: "2024-05-01", Schedules: []*models.Schedule{sched}}}

	m := New(80, 20)
	m.SetTree(dates, false)
	m.SetCursorEntry(sched, 1)

	sched.ScheduleFiles = []*models.ScheduleFile{a}
	m.SetTree(dates, false)

	r, ok := m.Cursor()
	if !ok {
		t.Fatal("cursor lost after refresh")
	}
	if r.Kind != RowSchedule || r.Schedule != sched {
		t.Errorf("cursor row = %+v, want the schedule row", r)
	}
}

func TestSetTreeKeepsCursorOnSchedule(t *testing.T) {
	first := &models.Schedule{ID: 1}
	second := &models.Schedule{ID: 2}
	dates := []*models.ScheduleDate{{Date: "2024-05-01", Schedules: []*models.Schedule{first, second}}}

	m := New(80, 20)
	m.SetTree(dates, false)
	m.MoveDown()
	m.MoveDown()
	if r, _ := m.Cursor(); r.Schedule != second {
		t.Fatalf("cursor schedule = %+v, want second", r.Schedule)
	}

	dates[0].Schedules = []*models.Schedule{{ID: 3}, first, second}
	m.SetTree(dates, false)

	if r, _ := m.Cursor(); r.Kind != RowSchedule || r.Schedule != second {
		t.Errorf("cursor row = %+v, want second schedule", r)
	}
}
