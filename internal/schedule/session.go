package schedule

import (
	"context"
	"errors"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/models"
)

var (
	ErrNotEditing     = errors.New("no schedule is being edited")
	ErrCommitInFlight = errors.New("schedule save already in progress")
	ErrStaticEntry    = errors.New("entry is locked by the engine")
	ErrOutOfRange     = errors.New("entry index out of range")
)

// SaveResultMsg carries the outcome of a commit.
type SaveResultMsg struct {
	ScheduleID int64
	FileIDs    []int64
	Result     constants.SaveResult
	Err        error
}

// Session is the single active schedule edit. The zero session is idle.
type Session struct {
	coord *Coordinator

	schedule        *models.Schedule
	rollback        []*models.ScheduleFile
	prevAutoRefresh bool
	saving          bool
	message         string
}

// Active reports whether a schedule is being edited.
func (s *Session) Active() bool {
	return s.schedule != nil
}

// Schedule returns the schedule being edited, or nil.
func (s *Session) Schedule() *models.Schedule {
	return s.schedule
}

// Saving reports whether a commit is in flight.
func (s *Session) Saving() bool {
	return s.saving
}

// Message returns the operator message left by the last commit, if any.
func (s *Session) Message() string {
	return s.message
}

// ClearMessage dismisses the operator message.
func (s *Session) ClearMessage() {
	s.message = ""
}

// BeginEdit starts editing sched, cancelling any session already in progress.
// Auto-refresh is switched off for the duration of the edit.
func (s *Session) BeginEdit(sched *models.Schedule) (tea.Cmd, error) {
	if sched == nil {
		return nil, ErrNotEditing
	}
	if s.saving {
		return nil, ErrCommitInFlight
	}

	var cmds []tea.Cmd
	if s.Active() {
		cmds = append(cmds, s.end(true))
	}

	s.coord.tree.DeselectAll()
	s.prevAutoRefresh = s.coord.AutoRefresh()
	cmds = append(cmds, s.coord.SetAutoRefresh(false))

	s.rollback = slices.Clone(sched.ScheduleFiles)
	sched.Expanded = true
	sched.SetEditing(true)
	s.schedule = sched
	s.message = ""

	logger.Debug("Began schedule edit", "schedule_id", sched.ID, "entries", len(sched.ScheduleFiles))
	return tea.Batch(cmds...), nil
}

// InsertFiles wraps each file in a new entry and inserts them after the last
// selected entry, or at the end when nothing is selected. Entries are never
// placed ahead of an entry the engine has already claimed.
func (s *Session) InsertFiles(files []*models.File) error {
	if err := s.mutable(); err != nil {
		return err
	}

	list := s.schedule.ScheduleFiles
	idx := len(list)
	for i, sf := range list {
		if sf.Selected && !sf.IsStatic() {
			idx = i + 1
		}
	}
	idx = max(idx, s.schedule.LastStaticIndex()+1)

	for _, f := range files {
		if f == nil {
			continue
		}
		entry := &models.ScheduleFile{File: f, LocalID: uuid.NewString()}
		list = slices.Insert(list, idx, entry)
		idx++
	}
	s.schedule.ScheduleFiles = list
	return nil
}

// RemoveSelected removes every selected movable entry and returns how many were removed.
func (s *Session) RemoveSelected() (int, error) {
	if err := s.mutable(); err != nil {
		return 0, err
	}

	before := len(s.schedule.ScheduleFiles)
	s.schedule.ScheduleFiles = slices.DeleteFunc(slices.Clone(s.schedule.ScheduleFiles), func(sf *models.ScheduleFile) bool {
		return sf.Selected && !sf.IsStatic()
	})
	return before - len(s.schedule.ScheduleFiles), nil
}

// MoveFile moves the entry at from so that it ends up at index to. Both
// positions must lie after the last static entry.
func (s *Session) MoveFile(from, to int) error {
	if err := s.mutable(); err != nil {
		return err
	}

	list := s.schedule.ScheduleFiles
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return ErrOutOfRange
	}
	floor := s.schedule.LastStaticIndex() + 1
	if from < floor || to < floor {
		return ErrStaticEntry
	}
	if from == to {
		return nil
	}

	entry := list[from]
	list = slices.Delete(slices.Clone(list), from, from+1)
	s.schedule.ScheduleFiles = slices.Insert(list, to, entry)
	return nil
}

// ToggleFile flips the selection of the entry at index i.
func (s *Session) ToggleFile(i int) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.schedule.ScheduleFiles) {
		return ErrOutOfRange
	}
	sf := s.schedule.ScheduleFiles[i]
	if sf.IsStatic() {
		return ErrStaticEntry
	}
	sf.ToggleSelected()
	return nil
}

// SelectAllFiles toggles selection over every movable entry.
func (s *Session) SelectAllFiles() error {
	if err := s.mutable(); err != nil {
		return err
	}
	s.schedule.SelectAllFiles()
	return nil
}

// CancelEdit restores the original order and ends the session.
func (s *Session) CancelEdit() (tea.Cmd, error) {
	if !s.Active() {
		return nil, ErrNotEditing
	}
	if s.saving {
		return nil, ErrCommitInFlight
	}
	logger.Debug("Cancelled schedule edit", "schedule_id", s.schedule.ID)
	return s.end(true), nil
}

// Commit posts the edited order to the station. The session stays active until
// the SaveResultMsg is handled.
func (s *Session) Commit() (tea.Cmd, error) {
	if err := s.mutable(); err != nil {
		return nil, err
	}

	s.saving = true
	s.message = ""
	station := s.coord.station
	timeout := s.coord.timeout
	id := s.schedule.ID
	fileIDs := s.schedule.FileIDs()

	logger.Debug("Saving schedule", "schedule_id", id, "entries", len(fileIDs))
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := station.SaveSchedule(ctx, id, fileIDs)
		return SaveResultMsg{ScheduleID: id, FileIDs: fileIDs, Result: result, Err: err}
	}, nil
}

// HandleSaveResult applies a commit outcome. Tagged outcomes end the session;
// rejected saves discard the local order. A transport error keeps the session
// open so the operator can retry or cancel.
func (s *Session) HandleSaveResult(msg SaveResultMsg) tea.Cmd {
	if !s.Active() || s.schedule.ID != msg.ScheduleID {
		return nil
	}
	s.saving = false

	if msg.Err != nil {
		s.message = fmt.Sprintf("Save failed: %v", msg.Err)
		logger.Warn("Schedule save failed", "schedule_id", msg.ScheduleID, "error", msg.Err)
		return nil
	}

	var cmd tea.Cmd
	switch msg.Result {
	case constants.SaveSuccess:
		logger.Info("Schedule saved", "schedule_id", msg.ScheduleID, "entries", len(msg.FileIDs))
		cmd = s.end(false)
	case constants.SaveScheduleNotFound:
		logger.Warn("Schedule save rejected", "schedule_id", msg.ScheduleID, "result", msg.Result)
		cmd = s.end(true)
		s.message = constants.MessageScheduleMissing
	case constants.SaveScheduleOutOfSync:
		logger.Warn("Schedule save rejected", "schedule_id", msg.ScheduleID, "result", msg.Result)
		cmd = s.end(true)
		s.message = constants.MessageScheduleOutOfSync
	default:
		s.message = fmt.Sprintf("Unexpected save response %q", msg.Result)
		logger.Warn("Unexpected schedule save response", "schedule_id", msg.ScheduleID, "result", msg.Result)
		return nil
	}
	return tea.Batch(cmd, s.coord.Refresh())
}

func (s *Session) mutable() error {
	if !s.Active() {
		return ErrNotEditing
	}
	if s.saving {
		return ErrCommitInFlight
	}
	return nil
}

func (s *Session) end(rollback bool) tea.Cmd {
	if rollback {
		s.schedule.ScheduleFiles = s.rollback
	}
	s.schedule.SetEditing(false)
	s.schedule = nil
	s.rollback = nil
	s.saving = false
	return s.coord.SetAutoRefresh(s.prevAutoRefresh)
}
