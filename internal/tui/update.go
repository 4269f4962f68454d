package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/schedule"
	"github.com/julianstephens/cloudcast/internal/status"
	"github.com/julianstephens/cloudcast/internal/timer"
	"github.com/julianstephens/cloudcast/internal/tui/components/finder"
	"github.com/julianstephens/cloudcast/internal/tui/components/schedules"
	"github.com/julianstephens/cloudcast/internal/utils"
)

const mainTabs = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size)
	}

	handled, cmd := m.handleBackground(msg)
	cmds = append(cmds, cmd)

	switch m.state {
	case constants.StateSetPost, constants.StateConfirmDeactivate:
		cmds = append(cmds, m.updateForm(msg))
	default:
		if k, ok := msg.(tea.KeyMsg); ok {
			cmds = append(cmds, m.handleKey(k))
		} else if !handled && m.state == constants.StateFinder {
			m.finderModel, cmd = m.finderModel.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.sync()
	return m, tea.Batch(cmds...)
}

func (m *Model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.nowModel.SetSize(msg.Width-4, msg.Height-8)
	m.scheduleModel.SetSize(msg.Width-4, msg.Height-8)
	m.finderModel.SetSize(msg.Width-4, msg.Height-8)
}

// sync pushes poller and coordinator state into the view components.
func (m *Model) sync() {
	m.nowModel.SetSnapshot(m.poller.Snapshot(), m.poller.LastError())
	m.scheduleModel.SetTree(m.coord.Tree().Dates, m.coord.Focus().Focusing())
}

// handleBackground routes network results and clock ticks. These keep flowing
// whatever view or dialog is in front.
func (m *Model) handleBackground(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case timer.TickMsg:
		return true, tea.Batch(m.poller.Update(msg), m.coord.Update(msg))

	case status.FetchedMsg, status.FetchFailedMsg:
		return true, m.poller.Update(msg)

	case schedule.DatesFetchedMsg:
		cmd := m.coord.Update(msg)
		if !m.coord.Session().Active() {
			m.updateValidationStatus()
		}
		return true, cmd

	case schedule.DatesFetchFailedMsg, schedule.FocusSettledMsg:
		return true, m.coord.Update(msg)

	case schedule.SaveResultMsg:
		editing := m.coord.Session().Schedule()
		cmd := m.coord.Update(msg)
		if editing != nil && editing.ID == msg.ScheduleID {
			m.recordCommit(msg)
			if msg.Err == nil && msg.Result == constants.SaveSuccess {
				m.flash = "Schedule saved"
			}
		}
		return true, cmd

	case schedule.DeactivatedMsg:
		cmd := m.coord.Update(msg)
		if msg.Err != nil {
			m.flash = fmt.Sprintf("Deactivation failed: %v", msg.Err)
		} else {
			m.flash = fmt.Sprintf("Deactivated %d schedule(s)", len(msg.IDs))
			m.updateValidationStatus()
		}
		return true, cmd

	case schedule.GeneratedMsg:
		cmd := m.coord.Update(msg)
		if msg.Err != nil {
			m.flash = fmt.Sprintf("Generation failed: %v", msg.Err)
		} else {
			m.flash = "Schedules generated"
		}
		return true, cmd

	case finder.ResultsMsg:
		var cmd tea.Cmd
		m.finderModel, cmd = m.finderModel.Update(msg)
		return true, cmd

	case InputToggledMsg:
		if msg.Err != nil {
			m.flash = fmt.Sprintf("Could not switch %s input: %v", msg.Line, msg.Err)
			logger.Warn("Input toggle failed", "line", msg.Line, "error", msg.Err)
			return true, nil
		}
		return true, m.poller.Fetch()

	case PostSetMsg:
		if msg.Err != nil {
			m.flash = fmt.Sprintf("Could not set post: %v", msg.Err)
			logger.Warn("Set post failed", "file_id", msg.FileID, "error", msg.Err)
			return true, nil
		}
		m.poller.SetPost(msg.FileID, msg.Post)
		m.flash = "Post set to " + msg.Post
		return true, nil
	}
	return false, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Tab):
		return m.switchTab((int(m.state) + 1) % mainTabs)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchTab((int(m.state) - 1 + mainTabs) % mainTabs)
	}

	if m.state == constants.StateFinder {
		return m.handleFinderKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	m.flash = ""
	switch m.state {
	case constants.StateNow:
		return m.handleNowKey(msg)
	case constants.StateSchedules:
		return m.handleScheduleKey(msg)
	}
	return nil
}

func (m *Model) switchTab(next int) tea.Cmd {
	if m.state == constants.StateFinder {
		m.finderModel.Blur()
	}
	m.state = constants.SessionState(next)
	if m.state == constants.StateFinder {
		return m.finderModel.Focus()
	}
	return nil
}

func (m *Model) handleNowKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.SetPost):
		snap := m.poller.Snapshot()
		if snap == nil || snap.CurrentFileID == 0 {
			m.flash = "Nothing is playing"
			return nil
		}
		m.postFileID = snap.CurrentFileID
		m.postForm = &PostFormModel{Post: snap.CurrentFilePost}
		m.form = NewPostForm(m.postForm, snap.CurrentFileTitle, snap.CurrentFileDuration)
		m.previousState = m.state
		m.state = constants.StateSetPost
		return m.form.Init()

	case key.Matches(msg, m.keys.Input):
		n, err := strconv.Atoi(msg.String())
		if err != nil || n < 1 || n > len(constants.InputLines) {
			return nil
		}
		return m.toggleInput(constants.InputLines[n-1])
	}
	return nil
}

func (m *Model) toggleInput(line constants.InputLine) tea.Cmd {
	snap := m.poller.Snapshot()
	if snap == nil {
		m.flash = "Station status not loaded yet"
		return nil
	}
	enabled := !snap.Input(line).Enabled
	station, timeout := m.station, m.timeout
	logger.Debug("Toggling input", "line", line, "enabled", enabled)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return InputToggledMsg{Line: line, Enabled: enabled, Err: station.EnableInput(ctx, line, enabled)}
	}
}

func (m *Model) setPost(fileID int64, post string) tea.Cmd {
	station, timeout := m.station, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return PostSetMsg{FileID: fileID, Post: post, Err: station.SetPost(ctx, fileID, post)}
	}
}

func (m *Model) handleScheduleKey(msg tea.KeyMsg) tea.Cmd {
	session := m.coord.Session()
	row, hasRow := m.scheduleModel.Cursor()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.scheduleModel.MoveUp() {
			m.coord.Scrolled()
		}

	case key.Matches(msg, m.keys.Down):
		if m.scheduleModel.MoveDown() {
			m.coord.Scrolled()
		}

	case key.Matches(msg, m.keys.Enter):
		if hasRow && row.Kind == schedules.RowSchedule {
			row.Schedule.Expanded = !row.Schedule.Expanded
		}

	case key.Matches(msg, m.keys.Select):
		if !hasRow {
			return nil
		}
		switch row.Kind {
		case schedules.RowSchedule:
			if session.Active() {
				m.flash = "Finish the current edit before selecting schedules"
				return nil
			}
			row.Schedule.Selected = !row.Schedule.Selected
		case schedules.RowEntry:
			if row.Schedule != session.Schedule() {
				m.flash = "Press 'e' to edit this schedule first"
				return nil
			}
			m.report(session.ToggleFile(row.Index))
		}

	case key.Matches(msg, m.keys.SelectAll):
		if session.Active() {
			m.report(session.SelectAllFiles())
		} else {
			m.coord.Tree().SelectAll()
		}

	case key.Matches(msg, m.keys.Edit):
		if !hasRow || row.Schedule == nil {
			return nil
		}
		if row.Schedule == session.Schedule() {
			m.flash = "Already editing this schedule"
			return nil
		}
		cmd, err := session.BeginEdit(row.Schedule)
		m.report(err)
		return cmd

	case key.Matches(msg, m.keys.Save):
		cmd, err := session.Commit()
		m.report(err)
		if err == nil {
			m.flash = "Saving..."
		}
		return cmd

	case key.Matches(msg, m.keys.Cancel):
		if !session.Active() {
			return nil
		}
		cmd, err := session.CancelEdit()
		m.report(err)
		return cmd

	case key.Matches(msg, m.keys.Remove):
		n, err := session.RemoveSelected()
		m.report(err)
		if err == nil {
			m.flash = fmt.Sprintf("Removed %d entr(ies)", n)
		}

	case key.Matches(msg, m.keys.MoveUp), key.Matches(msg, m.keys.MoveDown):
		if !hasRow || row.Kind != schedules.RowEntry {
			return nil
		}
		to := row.Index + 1
		if key.Matches(msg, m.keys.MoveUp) {
			to = row.Index - 1
		}
		if err := session.MoveFile(row.Index, to); err != nil {
			m.report(err)
			return nil
		}
		m.sync()
		m.scheduleModel.SetCursorEntry(row.Schedule, to)

	case key.Matches(msg, m.keys.Finder):
		if !session.Active() {
			m.flash = "Press 'e' to edit a schedule before adding files"
			return nil
		}
		return m.switchTab(int(constants.StateFinder))

	case key.Matches(msg, m.keys.Deactivate):
		return m.openDeactivate(row, hasRow)

	case key.Matches(msg, m.keys.Generate):
		cmd := m.coord.Generate()
		if cmd == nil {
			m.flash = "Generation already in progress"
			return nil
		}
		m.flash = "Generating schedules..."
		return cmd

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.coord.Refresh()
		if cmd == nil {
			m.flash = "Refresh is paused while editing"
		}
		return cmd

	case key.Matches(msg, m.keys.AutoRefresh):
		if session.Active() {
			m.flash = "Auto-refresh is paused while editing"
			return nil
		}
		cmd := m.coord.ToggleAutoRefresh()
		m.saveSettings()
		return cmd

	case key.Matches(msg, m.keys.AutoFocus):
		m.coord.SetAutoFocus(!m.coord.AutoFocus())
		m.saveSettings()
		if m.coord.AutoFocus() {
			_, cmd := m.coord.Focus().Focus(m.coord.Tree())
			return cmd
		}

	case key.Matches(msg, m.keys.FocusEditing):
		cmd := m.coord.FocusEditing()
		if cmd == nil {
			m.flash = "No schedule is being edited"
		}
		return cmd
	}
	return nil
}

func (m *Model) handleFinderKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return m.switchTab(int(constants.StateSchedules))

	case tea.KeyEnter:
		session := m.coord.Session()
		picked := m.finderModel.Picked()
		if len(picked) == 0 {
			return nil
		}
		if err := session.InsertFiles(picked); err != nil {
			m.report(err)
			return nil
		}
		m.finderModel.ClearSelection()
		m.flash = fmt.Sprintf("Inserted %d file(s)", len(picked))
		return m.switchTab(int(constants.StateSchedules))
	}

	var cmd tea.Cmd
	m.finderModel, cmd = m.finderModel.Update(msg)
	return cmd
}

func (m *Model) openDeactivate(row schedules.Row, hasRow bool) tea.Cmd {
	ids := m.coord.Tree().SelectedIDs()
	if len(ids) == 0 && hasRow && row.Schedule != nil {
		ids = []int64{row.Schedule.ID}
	}
	if len(ids) == 0 {
		m.flash = "Select schedules to deactivate"
		return nil
	}

	var titles []string
	for _, id := range ids {
		if s := m.coord.Tree().Find(id); s != nil {
			titles = append(titles, fmt.Sprintf("%s (%s)", s.ShowTitle, utils.TrimSeconds(s.StartOn)))
		}
	}

	m.pendingDeactivate = ids
	m.confirmationForm = &ConfirmationFormModel{}
	m.form = NewDeactivateForm(m.confirmationForm, titles)
	m.previousState = m.state
	m.state = constants.StateConfirmDeactivate
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds := []tea.Cmd{cmd}

	switch m.form.State {
	case huh.StateCompleted:
		switch m.state {
		case constants.StateSetPost:
			cmds = append(cmds, m.setPost(m.postFileID, utils.Normalize(m.postForm.Post)))
		case constants.StateConfirmDeactivate:
			if m.confirmationForm.Confirmed {
				cmds = append(cmds, m.coord.Deactivate(m.pendingDeactivate))
			}
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return tea.Batch(cmds...)
}

func (m *Model) closeForm() {
	m.state = m.previousState
	m.form = nil
	m.postForm = nil
	m.confirmationForm = nil
	m.pendingDeactivate = nil
}

// report surfaces a session error to the operator.
func (m *Model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, schedule.ErrNotEditing):
		m.flash = "Press 'e' to edit a schedule first"
	case errors.Is(err, schedule.ErrCommitInFlight):
		m.flash = "Wait for the save to finish"
	case errors.Is(err, schedule.ErrStaticEntry):
		m.flash = "Played and skipped entries cannot be changed"
	default:
		m.flash = err.Error()
	}
}

// recordCommit journals a save outcome.
func (m *Model) recordCommit(msg schedule.SaveResultMsg) {
	if m.store == nil {
		return
	}
	record := models.CommitRecord{
		ID:         uuid.NewString(),
		ScheduleID: msg.ScheduleID,
		FileIDs:    msg.FileIDs,
		Result:     msg.Result,
		Message:    m.coord.Session().Message(),
		ServerURL:  m.serverURL,
		CreatedAt:  time.Now().UTC(),
	}
	if msg.Err != nil {
		record.Message = msg.Err.Error()
	}
	if err := m.store.AddCommitRecord(record); err != nil {
		logger.Warn("Failed to journal schedule save", "schedule_id", msg.ScheduleID, "error", err)
	}
}
