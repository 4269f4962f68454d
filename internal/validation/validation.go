package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateScheduleID ConflictType = "duplicate_schedule_id"
	ConflictDuplicateEntryID    ConflictType = "duplicate_entry_id"
	ConflictStaticAfterMovable  ConflictType = "static_after_movable"
	ConflictMalformedDuration   ConflictType = "malformed_duration"
	ConflictMissingFile         ConflictType = "missing_file"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
	ConflictOverlappingSchedule ConflictType = "overlapping_schedules"
)

// Conflict represents a problem detected in a schedule payload
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string  // YYYY-MM-DD (if applicable)
	ScheduleIDs []int64 // schedules involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks schedule payloads received from the station server.
type Validator struct {
	loc *time.Location
}

func New() *Validator {
	return &Validator{loc: time.Local}
}

// ValidateDates checks every schedule of every date. It never mutates the payload.
func (v *Validator) ValidateDates(dates []*models.ScheduleDate) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	scheduleSeen := make(map[int64]string)
	entrySeen := make(map[int64]int64)

	for _, date := range dates {
		if date == nil {
			continue
		}
		for _, s := range date.Schedules {
			if s == nil {
				continue
			}
			if prev, ok := scheduleSeen[s.ID]; ok {
				result.add(Conflict{
					Type:        ConflictDuplicateScheduleID,
					Description: fmt.Sprintf("Schedule %d appears on both %s and %s", s.ID, prev, date.Date),
					Date:        date.Date,
					ScheduleIDs: []int64{s.ID},
				})
			} else {
				scheduleSeen[s.ID] = date.Date
			}
			v.validateSchedule(&result, date.Date, s, entrySeen)
		}
		v.checkOverlaps(&result, date)
	}
	return result
}

func (v *Validator) validateSchedule(result *ValidationResult, date string, s *models.Schedule, entrySeen map[int64]int64) {
	if _, ok := utils.ParseDateTimeIn(s.StartOn, v.loc); s.StartOn != "" && !ok {
		result.add(Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Schedule %d (%s) has invalid start: %s", s.ID, s.ShowTitle, s.StartOn),
			Date:        date,
			ScheduleIDs: []int64{s.ID},
		})
	}
	if _, ok := utils.ParseDateTimeIn(s.EndAt, v.loc); s.EndAt != "" && !ok {
		result.add(Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Schedule %d (%s) has invalid end: %s", s.ID, s.ShowTitle, s.EndAt),
			Date:        date,
			ScheduleIDs: []int64{s.ID},
		})
	}
	if start, end, ok := v.window(s); ok && end.Before(start) {
		result.add(Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Schedule %d (%s) ends (%s) before it starts (%s)", s.ID, s.ShowTitle, s.EndAt, s.StartOn),
			Date:        date,
			ScheduleIDs: []int64{s.ID},
		})
	}

	movableAt := -1
	for i, sf := range s.ScheduleFiles {
		if sf == nil {
			continue
		}
		if sf.ID != 0 {
			if owner, ok := entrySeen[sf.ID]; ok {
				result.add(Conflict{
					Type:        ConflictDuplicateEntryID,
					Description: fmt.Sprintf("Entry %d appears in schedules %d and %d", sf.ID, owner, s.ID),
					Date:        date,
					ScheduleIDs: []int64{owner, s.ID},
				})
			} else {
				entrySeen[sf.ID] = s.ID
			}
		}

		if sf.File == nil {
			result.add(Conflict{
				Type:        ConflictMissingFile,
				Description: fmt.Sprintf("Entry %d of schedule %d has no file", sf.ID, s.ID),
				Date:        date,
				ScheduleIDs: []int64{s.ID},
			})
		} else if utils.ToSeconds(sf.File.Duration) <= 0 {
			result.add(Conflict{
				Type:        ConflictMalformedDuration,
				Description: fmt.Sprintf("File %d (%s) in schedule %d has malformed duration %q", sf.File.ID, sf.File.Title, s.ID, sf.File.Duration),
				Date:        date,
				ScheduleIDs: []int64{s.ID},
			})
		}

		if sf.IsStatic() {
			if movableAt >= 0 {
				result.add(Conflict{
					Type:        ConflictStaticAfterMovable,
					Description: fmt.Sprintf("Schedule %d has a played or skipped entry at position %d after a movable entry at position %d", s.ID, i+1, movableAt+1),
					Date:        date,
					ScheduleIDs: []int64{s.ID},
				})
			}
		} else if movableAt < 0 {
			movableAt = i
		}
	}
}

func (v *Validator) window(s *models.Schedule) (time.Time, time.Time, bool) {
	start, ok1 := utils.ParseDateTimeIn(s.StartOn, v.loc)
	end, ok2 := utils.ParseDateTimeIn(s.EndAt, v.loc)
	return start, end, ok1 && ok2
}

// checkOverlaps flags schedules of the same date whose windows intersect.
// Touching windows (one ends when the next starts) are fine.
func (v *Validator) checkOverlaps(result *ValidationResult, date *models.ScheduleDate) {
	type span struct {
		s          *models.Schedule
		start, end time.Time
	}
	var spans []span
	for _, s := range date.Schedules {
		if s == nil {
			continue
		}
		if start, end, ok := v.window(s); ok && !end.Before(start) {
			spans = append(spans, span{s, start, end})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if !b.start.Before(a.end) {
				break
			}
			result.add(Conflict{
				Type: ConflictOverlappingSchedule,
				Description: fmt.Sprintf("Schedules %d (%s) and %d (%s) overlap on %s",
					a.s.ID, a.s.ShowTitle, b.s.ID, b.s.ShowTitle, date.Date),
				Date:        date.Date,
				ScheduleIDs: []int64{a.s.ID, b.s.ID},
			})
		}
	}
}
