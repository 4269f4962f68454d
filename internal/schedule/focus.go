package schedule

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
)

// FocusSettledMsg is delivered on the loop turn after a programmatic focus.
type FocusSettledMsg struct{}

// FocusTracker picks the entry to scroll into view after a refresh and tells
// programmatic scrolls apart from operator scrolls.
type FocusTracker struct {
	focusing bool
}

// Focusing reports whether a programmatic focus is still settling.
func (f *FocusTracker) Focusing() bool {
	return f.focusing
}

// Focus marks the entry a few places before the end of the on-air schedule's
// queue. Only the first schedule of the first date is considered. It returns
// the focused entry, or nil when nothing is queued.
func (f *FocusTracker) Focus(tree *Tree) (*models.ScheduleFile, tea.Cmd) {
	if tree.Empty() || len(tree.Dates[0].Schedules) == 0 {
		return nil, nil
	}
	current := tree.Dates[0].Schedules[0]

	var queued []*models.ScheduleFile
	for _, sf := range current.ScheduleFiles {
		if sf.IsQueued() {
			queued = append(queued, sf)
		}
	}
	if len(queued) == 0 {
		return nil, nil
	}

	target := queued[max(len(queued)-constants.FocusQueueDepth, 0)]
	f.mark(tree, current, target)
	return target, f.settle()
}

// FocusSchedule marks a whole schedule, used to jump to the schedule being edited.
func (f *FocusTracker) FocusSchedule(tree *Tree, s *models.Schedule) tea.Cmd {
	if s == nil {
		return nil
	}
	f.mark(tree, s, nil)
	s.Focused = true
	return f.settle()
}

// Scrolled reports whether a scroll came from the operator. Scrolls while a
// programmatic focus is settling are not.
func (f *FocusTracker) Scrolled() bool {
	return !f.focusing
}

// Settled clears the programmatic focus guard.
func (f *FocusTracker) Settled() {
	f.focusing = false
}

func (f *FocusTracker) mark(tree *Tree, parent *models.Schedule, target *models.ScheduleFile) {
	for _, s := range tree.Schedules() {
		s.Focused = false
		for _, sf := range s.ScheduleFiles {
			sf.Focused = false
		}
	}
	parent.Expanded = true
	if target != nil {
		target.Focused = true
	}
}

func (f *FocusTracker) settle() tea.Cmd {
	f.focusing = true
	return func() tea.Msg {
		return FocusSettledMsg{}
	}
}
