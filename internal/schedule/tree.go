// Package schedule holds the operator's view of the broadcast schedule: the
// date tree kept in sync with the station, the edit session that reorders a
// single schedule, and the coordinator that refreshes the tree between edits.
package schedule

import (
	"slices"

	"github.com/julianstephens/cloudcast/internal/models"
)

// Tree is the ordered list of schedule dates shown to the operator.
type Tree struct {
	Dates []*models.ScheduleDate
}

// Schedules returns every schedule in display order.
func (t *Tree) Schedules() []*models.Schedule {
	var out []*models.Schedule
	for _, d := range t.Dates {
		out = append(out, d.Schedules...)
	}
	return out
}

// Find returns the schedule with the given id, or nil.
func (t *Tree) Find(id int64) *models.Schedule {
	for _, d := range t.Dates {
		for _, s := range d.Schedules {
			if s.ID == id {
				return s
			}
		}
	}
	return nil
}

// Empty reports whether the tree holds no schedules.
func (t *Tree) Empty() bool {
	return len(t.Dates) == 0
}

// Merge replaces the tree contents with incoming while keeping the identity of
// every schedule and entry whose id is still present. Dates left without
// schedules are dropped.
func (t *Tree) Merge(incoming []*models.ScheduleDate) {
	schedules := make(map[int64]*models.Schedule)
	for _, s := range t.Schedules() {
		schedules[s.ID] = s
	}
	dates := make(map[string]*models.ScheduleDate, len(t.Dates))
	for _, d := range t.Dates {
		dates[d.Date] = d
	}

	merged := make([]*models.ScheduleDate, 0, len(incoming))
	for _, in := range incoming {
		if in == nil {
			continue
		}
		list := make([]*models.Schedule, 0, len(in.Schedules))
		for _, s := range in.Schedules {
			if s == nil {
				continue
			}
			if cur, ok := schedules[s.ID]; ok {
				mergeSchedule(cur, s)
				list = append(list, cur)
				continue
			}
			list = append(list, s)
		}
		if len(list) == 0 {
			continue
		}

		date, ok := dates[in.Date]
		if !ok {
			date = &models.ScheduleDate{Date: in.Date}
		}
		date.Schedules = list
		merged = append(merged, date)
	}
	t.Dates = merged
}

func mergeSchedule(cur, in *models.Schedule) {
	cur.StartOn = in.StartOn
	cur.EndAt = in.EndAt
	cur.ShowTitle = in.ShowTitle

	files := make(map[int64]*models.ScheduleFile, len(cur.ScheduleFiles))
	for _, sf := range cur.ScheduleFiles {
		if sf.ID != 0 {
			files[sf.ID] = sf
		}
	}

	list := make([]*models.ScheduleFile, 0, len(in.ScheduleFiles))
	for _, sf := range in.ScheduleFiles {
		if sf == nil {
			continue
		}
		existing, ok := files[sf.ID]
		if !ok || sf.ID == 0 {
			list = append(list, sf)
			continue
		}
		existing.File = sf.File
		existing.QueuedOn = sf.QueuedOn
		existing.PlayedOn = sf.PlayedOn
		existing.SkippedOn = sf.SkippedOn
		if existing.IsStatic() {
			existing.Selected = false
		}
		list = append(list, existing)
	}
	cur.ScheduleFiles = list
}

// SelectedIDs returns the ids of the selected schedules.
func (t *Tree) SelectedIDs() []int64 {
	var ids []int64
	for _, s := range t.Schedules() {
		if s.Selected {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// ExpandedIDs returns the ids of the expanded schedules.
func (t *Tree) ExpandedIDs() []int64 {
	var ids []int64
	for _, s := range t.Schedules() {
		if s.Expanded {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Restore sets the selected and expanded flags from the given id sets.
func (t *Tree) Restore(selected, expanded []int64) {
	for _, s := range t.Schedules() {
		s.Selected = slices.Contains(selected, s.ID)
		s.Expanded = slices.Contains(expanded, s.ID)
	}
}

// SelectAll selects every schedule when none is selected, otherwise clears the selection.
func (t *Tree) SelectAll() {
	noneSelected := len(t.SelectedIDs()) == 0
	for _, s := range t.Schedules() {
		s.Selected = noneSelected
	}
}

// DeselectAll clears the schedule selection.
func (t *Tree) DeselectAll() {
	for _, s := range t.Schedules() {
		s.Selected = false
	}
}

// RemoveSchedules drops the given schedules and prunes dates left empty.
func (t *Tree) RemoveSchedules(ids []int64) {
	dates := t.Dates[:0]
	for _, d := range t.Dates {
		d.Schedules = slices.DeleteFunc(d.Schedules, func(s *models.Schedule) bool {
			return slices.Contains(ids, s.ID)
		})
		if len(d.Schedules) > 0 {
			dates = append(dates, d)
		}
	}
	clear(t.Dates[len(dates):])
	t.Dates = dates
}
