package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/schedule"
	"github.com/julianstephens/cloudcast/internal/status"
	"github.com/julianstephens/cloudcast/internal/storage"
	"github.com/julianstephens/cloudcast/internal/tui/components/finder"
	"github.com/julianstephens/cloudcast/internal/tui/components/nowplaying"
	"github.com/julianstephens/cloudcast/internal/tui/components/schedules"
	"github.com/julianstephens/cloudcast/internal/validation"
)

// Station is every station call the console makes.
type Station interface {
	status.Fetcher
	schedule.Station
	finder.Searcher
	EnableInput(ctx context.Context, line constants.InputLine, enabled bool) error
	SetPost(ctx context.Context, fileID int64, post string) error
}

// InputToggledMsg reports the outcome of an input toggle.
type InputToggledMsg struct {
	Line    constants.InputLine
	Enabled bool
	Err     error
}

// PostSetMsg reports the outcome of a set-post request.
type PostSetMsg struct {
	FileID int64
	Post   string
	Err    error
}

type PostFormModel struct {
	Post string
}

type ConfirmationFormModel struct {
	Confirmed bool
}

type Options struct {
	Station   Station
	Store     storage.Provider
	ServerURL string
	Timeout   time.Duration
}

type Model struct {
	station   Station
	store     storage.Provider
	serverURL string
	timeout   time.Duration

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	poller *status.Poller
	coord  *schedule.Coordinator

	nowModel      nowplaying.Model
	scheduleModel schedules.Model
	finderModel   finder.Model

	form              *huh.Form
	postForm          *PostFormModel
	confirmationForm  *ConfirmationFormModel
	postFileID        int64
	pendingDeactivate []int64

	flash               string
	validationWarning   string
	validationConflicts []validation.Conflict

	quitting bool
	width    int
	height   int
}

func NewModel(opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultRequestTimeout
	}

	settings := models.DefaultSettings()
	if opts.Store != nil {
		if s, err := opts.Store.GetSettings(); err == nil {
			settings = s
		} else {
			logger.Warn("Falling back to default settings", "error", err)
		}
	}

	return Model{
		station:   opts.Station,
		store:     opts.Store,
		serverURL: opts.ServerURL,
		timeout:   opts.Timeout,
		state:     constants.StateNow,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		poller:    status.NewPoller(opts.Station, opts.Timeout),
		coord: schedule.NewCoordinator(opts.Station, schedule.Options{
			AutoRefresh: settings.AutoRefresh,
			AutoFocus:   settings.AutoFocus,
			Timeout:     opts.Timeout,
		}),
		nowModel:      nowplaying.New(),
		scheduleModel: schedules.New(0, 0),
		finderModel:   finder.New(opts.Station, opts.Timeout),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateNow:
		keys = append(keys, m.keys.SetPost, m.keys.Input)
	case constants.StateSchedules:
		if m.coord.Session().Active() {
			keys = append(keys, m.keys.Save, m.keys.Cancel, m.keys.Finder)
		} else {
			keys = append(keys, m.keys.Edit, m.keys.Generate)
		}
	case constants.StateFinder:
		keys = []key.Binding{m.keys.Tab, m.keys.Enter}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Select, m.keys.SelectAll}

	var actions []key.Binding
	switch m.state {
	case constants.StateNow:
		actions = []key.Binding{m.keys.SetPost, m.keys.Input}
	case constants.StateSchedules:
		actions = []key.Binding{
			m.keys.Edit, m.keys.Save, m.keys.Cancel, m.keys.Remove, m.keys.MoveUp, m.keys.MoveDown,
			m.keys.Finder, m.keys.Deactivate, m.keys.Generate, m.keys.Refresh,
			m.keys.AutoRefresh, m.keys.AutoFocus, m.keys.FocusEditing,
		}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poller.Init(), m.coord.Init())
}

// Poller exposes the status poller to the command layer.
func (m Model) Poller() *status.Poller {
	return m.poller
}

// Coordinator exposes the schedule coordinator to the command layer.
func (m Model) Coordinator() *schedule.Coordinator {
	return m.coord
}

// updateValidationStatus validates the schedule tree and updates the warning banner
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateDates(m.coord.Tree().Dates)
	changed := len(result.Conflicts) != len(m.validationConflicts)
	m.validationConflicts = result.Conflicts
	if len(result.Conflicts) > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
		if changed {
			for _, c := range result.Conflicts {
				logger.Warn("Schedule payload conflict", "type", c.Type, "detail", c.Description)
			}
		}
	} else {
		m.validationWarning = ""
	}
}

// saveSettings persists the operator preferences.
func (m *Model) saveSettings() {
	if m.store == nil {
		return
	}
	settings := models.Settings{
		AutoRefresh: m.coord.AutoRefresh(),
		AutoFocus:   m.coord.AutoFocus(),
	}
	if err := m.store.SaveSettings(settings); err != nil {
		m.flash = fmt.Sprintf("Could not save settings: %v", err)
		logger.Warn("Failed to save settings", "error", err)
	}
}
