package schedule

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/timer"
)

// Station is the part of the station API the schedule view talks to.
type Station interface {
	FetchScheduleDates(ctx context.Context) ([]*models.ScheduleDate, error)
	SaveSchedule(ctx context.Context, id int64, fileIDs []int64) (constants.SaveResult, error)
	DeactivateSchedules(ctx context.Context, ids []int64) error
	GenerateSchedules(ctx context.Context) error
}

// DatesFetchedMsg carries a successful schedule fetch.
type DatesFetchedMsg struct {
	Dates []*models.ScheduleDate
}

// DatesFetchFailedMsg reports a failed schedule fetch.
type DatesFetchFailedMsg struct {
	Err error
}

// DeactivatedMsg reports the outcome of a deactivation.
type DeactivatedMsg struct {
	IDs []int64
	Err error
}

// GeneratedMsg reports the outcome of schedule generation.
type GeneratedMsg struct {
	Err error
}

// Coordinator keeps the schedule tree in sync with the station and owns the
// edit session. Refreshes are suppressed while a schedule is being edited.
type Coordinator struct {
	station Station
	timeout time.Duration

	tree    *Tree
	session *Session
	focus   *FocusTracker
	refresh *timer.Handle

	autoRefresh bool
	autoFocus   bool
	generating  bool
	lastErr     error
}

// Options are the operator preferences applied at start.
type Options struct {
	AutoRefresh bool
	AutoFocus   bool
	Timeout     time.Duration
}

// NewCoordinator creates a coordinator with an empty tree.
func NewCoordinator(station Station, opts Options) *Coordinator {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultRequestTimeout
	}
	c := &Coordinator{
		station:     station,
		timeout:     opts.Timeout,
		tree:        &Tree{},
		focus:       &FocusTracker{},
		refresh:     timer.New(constants.ScheduleRefreshInterval),
		autoRefresh: opts.AutoRefresh,
		autoFocus:   opts.AutoFocus,
	}
	c.session = &Session{coord: c}
	return c
}

// Init performs the first fetch and arms auto-refresh when enabled.
func (c *Coordinator) Init() tea.Cmd {
	return tea.Batch(c.Refresh(), c.SetAutoRefresh(c.autoRefresh))
}

// Tree returns the schedule tree.
func (c *Coordinator) Tree() *Tree { return c.tree }

// Session returns the edit session.
func (c *Coordinator) Session() *Session { return c.session }

// Focus returns the focus tracker.
func (c *Coordinator) Focus() *FocusTracker { return c.focus }

// AutoRefresh reports whether periodic refresh is on.
func (c *Coordinator) AutoRefresh() bool { return c.autoRefresh }

// AutoFocus reports whether refreshes move the focus to the on-air entry.
func (c *Coordinator) AutoFocus() bool { return c.autoFocus }

// Generating reports whether schedule generation is in flight.
func (c *Coordinator) Generating() bool { return c.generating }

// LastError returns the error of the most recent failed fetch.
func (c *Coordinator) LastError() error { return c.lastErr }

// SetAutoRefresh starts or stops the periodic refresh. The tree is kept either way.
func (c *Coordinator) SetAutoRefresh(on bool) tea.Cmd {
	c.autoRefresh = on
	if !on {
		c.refresh.Stop()
		return nil
	}
	return c.refresh.Start()
}

// ToggleAutoRefresh flips the periodic refresh.
func (c *Coordinator) ToggleAutoRefresh() tea.Cmd {
	return c.SetAutoRefresh(!c.autoRefresh)
}

// SetAutoFocus turns auto-focus on or off.
func (c *Coordinator) SetAutoFocus(on bool) {
	c.autoFocus = on
}

// Scrolled records a scroll of the schedule view. An operator scroll turns
// auto-focus off; the scroll caused by a programmatic focus does not.
func (c *Coordinator) Scrolled() {
	if c.focus.Scrolled() && c.autoFocus {
		logger.Debug("Auto-focus disabled by scroll")
		c.autoFocus = false
	}
}

// Refresh fetches the schedule dates unless a schedule is being edited.
func (c *Coordinator) Refresh() tea.Cmd {
	if c.session.Active() {
		return nil
	}
	station, timeout := c.station, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		dates, err := station.FetchScheduleDates(ctx)
		if err != nil {
			return DatesFetchFailedMsg{Err: err}
		}
		return DatesFetchedMsg{Dates: dates}
	}
}

// Apply merges fetched dates into the tree, keeping the schedule selection
// and expansion, then refocuses when auto-focus is on. A response that lands
// while a schedule is being edited is dropped.
func (c *Coordinator) Apply(dates []*models.ScheduleDate) tea.Cmd {
	if c.session.Active() {
		logger.Debug("Dropped schedule refresh during edit")
		return nil
	}
	if dates == nil {
		logger.Debug("Dropped empty schedule refresh")
		return nil
	}
	c.lastErr = nil

	selected := c.tree.SelectedIDs()
	expanded := c.tree.ExpandedIDs()
	c.tree.Merge(dates)
	c.tree.Restore(selected, expanded)

	if !c.autoFocus {
		return nil
	}
	_, cmd := c.focus.Focus(c.tree)
	return cmd
}

// FocusEditing jumps to the schedule being edited.
func (c *Coordinator) FocusEditing() tea.Cmd {
	return c.focus.FocusSchedule(c.tree, c.session.Schedule())
}

// Deactivate asks the station to deactivate the given schedules.
func (c *Coordinator) Deactivate(ids []int64) tea.Cmd {
	if len(ids) == 0 {
		return nil
	}
	station, timeout := c.station, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return DeactivatedMsg{IDs: ids, Err: station.DeactivateSchedules(ctx, ids)}
	}
}

// Generate asks the station to generate schedules. Only one request runs at a time.
func (c *Coordinator) Generate() tea.Cmd {
	if c.generating {
		return nil
	}
	c.generating = true
	station, timeout := c.station, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return GeneratedMsg{Err: station.GenerateSchedules(ctx)}
	}
}

// Update handles schedule messages and returns follow-up commands.
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DatesFetchedMsg:
		return c.Apply(msg.Dates)

	case DatesFetchFailedMsg:
		c.lastErr = msg.Err
		logger.Warn("Schedule fetch failed", "error", msg.Err)

	case SaveResultMsg:
		return c.session.HandleSaveResult(msg)

	case DeactivatedMsg:
		if msg.Err != nil {
			c.lastErr = msg.Err
			logger.Warn("Schedule deactivation failed", "ids", msg.IDs, "error", msg.Err)
			return nil
		}
		var cmd tea.Cmd
		if s := c.session.Schedule(); s != nil && !c.session.Saving() {
			for _, id := range msg.IDs {
				if id == s.ID {
					cmd = c.session.end(true)
					break
				}
			}
		}
		c.tree.RemoveSchedules(msg.IDs)
		logger.Info("Schedules deactivated", "ids", msg.IDs)
		return cmd

	case GeneratedMsg:
		c.generating = false
		if msg.Err != nil {
			c.lastErr = msg.Err
			logger.Warn("Schedule generation failed", "error", msg.Err)
			return nil
		}
		logger.Info("Schedules generated")
		return c.Refresh()

	case FocusSettledMsg:
		c.focus.Settled()

	case timer.TickMsg:
		if c.refresh.Owns(msg) {
			return tea.Batch(c.Refresh(), c.refresh.Next())
		}
	}
	return nil
}
