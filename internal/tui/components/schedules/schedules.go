package schedules

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	scheduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	editingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	focusStyle = lipgloss.NewStyle().
			Underline(true)

	colorStyles = map[constants.ColorClass]lipgloss.Style{
		constants.ColorSkipped: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		constants.ColorPlayed:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		constants.ColorQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		constants.ColorPromo:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		constants.ColorNone:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
)

type RowKind int

const (
	RowDate RowKind = iota
	RowSchedule
	RowEntry
)

// Row is one rendered line of the schedule tree.
type Row struct {
	Kind     RowKind
	Date     string
	Schedule *models.Schedule
	Index    int    // entry index within Schedule, RowEntry only
	Key      string // entry key at build time, RowEntry only
}

// Entry returns the schedule entry of an entry row, or nil.
func (r Row) Entry() *models.ScheduleFile {
	if r.Kind != RowEntry || r.Schedule == nil || r.Index >= len(r.Schedule.ScheduleFiles) {
		return nil
	}
	return r.Schedule.ScheduleFiles[r.Index]
}

// Model renders the schedule tree one row per line and tracks a cursor row.
type Model struct {
	viewport viewport.Model
	rows     []Row
	cursor   int
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height, 1)
	m.render()
}

// SetTree rebuilds the rows from dates. When focusing, the cursor jumps to the
// focused entry (or schedule); otherwise it stays on the same schedule entry
// where possible.
func (m *Model) SetTree(dates []*models.ScheduleDate, focusing bool) {
	prev, hadPrev := m.Cursor()

	m.rows = m.rows[:0]
	for _, d := range dates {
		m.rows = append(m.rows, Row{Kind: RowDate, Date: d.Date})
		for _, s := range d.Schedules {
			m.rows = append(m.rows, Row{Kind: RowSchedule, Date: d.Date, Schedule: s})
			if !s.Expanded {
				continue
			}
			for i, sf := range s.ScheduleFiles {
				m.rows = append(m.rows, Row{Kind: RowEntry, Date: d.Date, Schedule: s, Index: i, Key: sf.Key()})
			}
		}
	}

	switch {
	case focusing && m.seekFocused():
	case hadPrev:
		m.seek(prev)
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	m.render()
}

func (m *Model) seekFocused() bool {
	for i, r := range m.rows {
		if e := r.Entry(); e != nil && e.Focused {
			m.cursor = i
			return true
		}
	}
	for i, r := range m.rows {
		if r.Kind == RowSchedule && r.Schedule.Focused {
			m.cursor = i
			return true
		}
	}
	return false
}

// seek puts the cursor back on prev. Entry rows match by key since a merge
// can shift indexes; a vanished entry falls back to its schedule row.
func (m *Model) seek(prev Row) {
	fallback := -1
	for i, r := range m.rows {
		switch {
		case r.Kind != prev.Kind:
			if prev.Kind == RowEntry && r.Kind == RowSchedule && r.Schedule == prev.Schedule {
				fallback = i
			}
		case r.Kind == RowEntry:
			if r.Schedule == prev.Schedule && r.Key == prev.Key {
				m.cursor = i
				return
			}
		case r.Schedule == prev.Schedule && r.Date == prev.Date:
			m.cursor = i
			return
		}
	}
	if fallback >= 0 {
		m.cursor = fallback
	}
}

// Cursor returns the row under the cursor.
func (m Model) Cursor() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// SetCursorEntry moves the cursor to entry i of s, if that row is visible.
func (m *Model) SetCursorEntry(s *models.Schedule, i int) {
	for idx, r := range m.rows {
		if r.Kind == RowEntry && r.Schedule == s && r.Index == i {
			m.cursor = idx
			m.render()
			return
		}
	}
}

// MoveUp moves the cursor one row up and reports whether it moved.
func (m *Model) MoveUp() bool {
	if m.cursor == 0 {
		return false
	}
	m.cursor--
	m.render()
	return true
}

// MoveDown moves the cursor one row down and reports whether it moved.
func (m *Model) MoveDown() bool {
	if m.cursor >= len(m.rows)-1 {
		return false
	}
	m.cursor++
	m.render()
	return true
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "No schedules. Press 'g' to generate."
	}
	return m.viewport.View()
}

func (m *Model) render() {
	lines := make([]string, len(m.rows))
	for i, r := range m.rows {
		lines[i] = m.renderRow(i, r)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	// keep the cursor row inside the viewport
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) renderRow(i int, r Row) string {
	marker := "  "
	if i == m.cursor {
		marker = cursorStyle.Render("> ")
	}

	switch r.Kind {
	case RowDate:
		return marker + dateStyle.Render(r.Date)

	case RowSchedule:
		s := r.Schedule
		fold := "▸"
		if s.Expanded {
			fold = "▾"
		}
		line := fmt.Sprintf("%s %s %s %s",
			checkbox(s.Selected),
			fold,
			scheduleStyle.Render(orUntitled(s.ShowTitle)),
			timeStyle.Render(fmt.Sprintf("%s - %s  (%s, %d files)",
				utils.TrimSeconds(s.StartOn), utils.TrimSeconds(s.EndAt), s.TotalDuration(), len(s.ScheduleFiles))),
		)
		if s.Editing {
			line += " " + editingStyle.Render("EDITING")
		}
		if s.Focused {
			line = focusStyle.Render(line)
		}
		return marker + line

	default:
		sf := r.Entry()
		if sf == nil {
			return marker
		}
		box := "   "
		if r.Schedule.Editing && !sf.IsStatic() {
			box = checkbox(sf.Selected)
		}
		title := "(missing file)"
		if sf.File != nil {
			title = fmt.Sprintf("%s - %s", sf.File.Artist, sf.File.Title)
		}
		style, ok := colorStyles[sf.Color()]
		if !ok {
			style = colorStyles[constants.ColorNone]
		}
		line := fmt.Sprintf("    %s %2d. %s %s", box, r.Index+1, style.Render(title), timeStyle.Render(sf.Duration()))
		if sf.Focused {
			line = focusStyle.Render(line)
		}
		return marker + line
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func orUntitled(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}
