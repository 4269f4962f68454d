package models

import (
	"slices"
	"strconv"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/utils"
)

// File is library metadata for one audio file. The schedule tree only references it.
type File struct {
	ID       int64  `json:"id" csv:"file_id" yaml:"id"`
	Artist   string `json:"artist" csv:"artist" yaml:"artist"`
	Title    string `json:"title" csv:"title" yaml:"title"`
	Album    string `json:"album,omitempty" csv:"album" yaml:"album,omitempty"`
	Duration string `json:"duration" csv:"duration" yaml:"duration"`
	Genre    string `json:"genre,omitempty" csv:"genre" yaml:"genre,omitempty"`
	Post     string `json:"post,omitempty" csv:"-" yaml:"post,omitempty"`
	Year     string `json:"year,omitempty" csv:"-" yaml:"year,omitempty"`

	// Selected marks the file in finder results; local only.
	Selected bool `json:"-" csv:"-" yaml:"-"`
}

// IsPromo reports whether the file's genre is one of the promotional genres.
func (f *File) IsPromo() bool {
	return f != nil && slices.Contains(constants.PromoGenres, f.Genre)
}

// ScheduleFile is one entry of a schedule.
type ScheduleFile struct {
	ID        int64   `json:"id"`
	File      *File   `json:"file"`
	QueuedOn  *string `json:"queued_on"`
	PlayedOn  *string `json:"played_on"`
	SkippedOn *string `json:"skipped_on"`

	// LocalID identifies entries created by the editor before the server assigns an id.
	LocalID  string `json:"-"`
	Selected bool   `json:"-"`
	Focused  bool   `json:"-"`
}

// IsStatic reports whether the engine has claimed the entry (queued, played or skipped).
// Static entries keep their position and are never selected, moved or removed by the editor.
func (sf *ScheduleFile) IsStatic() bool {
	return present(sf.QueuedOn) || present(sf.PlayedOn) || present(sf.SkippedOn)
}

// IsQueued reports whether the entry carries a queued timestamp.
func (sf *ScheduleFile) IsQueued() bool {
	return present(sf.QueuedOn)
}

// Color classifies the entry for display: skipped > played > queued > promo > none.
func (sf *ScheduleFile) Color() constants.ColorClass {
	switch {
	case present(sf.SkippedOn):
		return constants.ColorSkipped
	case present(sf.PlayedOn):
		return constants.ColorPlayed
	case present(sf.QueuedOn):
		return constants.ColorQueued
	case sf.File.IsPromo():
		return constants.ColorPromo
	}
	return constants.ColorNone
}

// Duration returns the referenced file's duration, or the zero duration.
func (sf *ScheduleFile) Duration() string {
	if sf.File == nil {
		return constants.ZeroDuration
	}
	return sf.File.Duration
}

// FileID returns the referenced file id, or 0 when the reference is missing.
func (sf *ScheduleFile) FileID() int64 {
	if sf.File == nil {
		return 0
	}
	return sf.File.ID
}

// Key identifies the entry: the server id when assigned, otherwise the local id.
func (sf *ScheduleFile) Key() string {
	if sf.ID != 0 {
		return "s" + strconv.FormatInt(sf.ID, 10)
	}
	return "l" + sf.LocalID
}

// ToggleSelected flips the selection of a movable entry. Static entries stay unselected.
func (sf *ScheduleFile) ToggleSelected() {
	if sf.IsStatic() {
		sf.Selected = false
		return
	}
	sf.Selected = !sf.Selected
}

// Schedule is one show's ordered list of entries.
type Schedule struct {
	ID            int64           `json:"id"`
	StartOn       string          `json:"start_on,omitempty"`
	EndAt         string          `json:"end_at,omitempty"`
	ShowTitle     string          `json:"show_title,omitempty"`
	ScheduleFiles []*ScheduleFile `json:"schedule_files"`

	Editing  bool `json:"-"`
	Selected bool `json:"-"`
	Focused  bool `json:"-"`
	Expanded bool `json:"-"`
}

// TotalDuration sums the durations of every entry.
func (s *Schedule) TotalDuration() string {
	total := 0
	for _, sf := range s.ScheduleFiles {
		total += utils.ToSeconds(sf.Duration())
	}
	return utils.FromSeconds(total)
}

// SelectedFileCount counts the selected entries.
func (s *Schedule) SelectedFileCount() int {
	count := 0
	for _, sf := range s.ScheduleFiles {
		if sf.Selected {
			count++
		}
	}
	return count
}

// SelectAllFiles selects every movable entry when none is selected, otherwise clears the selection.
func (s *Schedule) SelectAllFiles() {
	noneSelected := s.SelectedFileCount() == 0
	for _, sf := range s.ScheduleFiles {
		if sf.IsStatic() {
			continue
		}
		sf.Selected = noneSelected
	}
}

// SetEditing sets the editing flag; leaving edit mode clears the entry selection.
func (s *Schedule) SetEditing(editing bool) {
	s.Editing = editing
	if editing {
		return
	}
	for _, sf := range s.ScheduleFiles {
		sf.Selected = false
	}
}

// LastStaticIndex returns the index of the last static entry, or -1.
func (s *Schedule) LastStaticIndex() int {
	last := -1
	for i, sf := range s.ScheduleFiles {
		if sf.IsStatic() {
			last = i
		}
	}
	return last
}

// FileIDs returns the ordered file ids of the entries.
func (s *Schedule) FileIDs() []int64 {
	ids := make([]int64, 0, len(s.ScheduleFiles))
	for _, sf := range s.ScheduleFiles {
		ids = append(ids, sf.FileID())
	}
	return ids
}

// ScheduleDate is a calendar day owning its schedules in broadcast order.
type ScheduleDate struct {
	Date      string      `json:"date"`
	Schedules []*Schedule `json:"schedules"`
}

func present(ts *string) bool {
	return ts != nil && *ts != ""
}
