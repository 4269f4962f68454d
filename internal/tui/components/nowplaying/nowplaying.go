package nowplaying

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/status"
	"github.com/julianstephens/cloudcast/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(13)

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	onAirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("196")).
			Padding(0, 1).
			Bold(true)

	enabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

const defaultBarWidth = 40

type Model struct {
	snapshot *status.Snapshot
	lastErr  error
	fileBar  progress.Model
	showBar  progress.Model
	width    int
	height   int
}

func New() Model {
	return Model{
		fileBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth)),
		showBar: progress.New(progress.WithSolidFill("62"), progress.WithWidth(defaultBarWidth)),
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	barWidth := min(max(width-24, 10), 80)
	m.fileBar.Width = barWidth
	m.showBar.Width = barWidth
}

// SetSnapshot replaces the rendered status. err is the latest fetch error, if any.
func (m *Model) SetSnapshot(snap *status.Snapshot, err error) {
	m.snapshot = snap
	m.lastErr = err
}

func (m Model) View() string {
	if m.snapshot == nil {
		msg := "Waiting for the station..."
		if m.lastErr != nil {
			msg = errorStyle.Render(fmt.Sprintf("Station unreachable: %v", m.lastErr))
		}
		return titleStyle.Render(msg)
	}

	st, d := m.snapshot.Status, m.snapshot.Derived

	var b strings.Builder
	b.WriteString(titleStyle.Render("On air") + "  " + timeStyle.Render("updated "+d.UpdatedOnTime) + "\n\n")

	b.WriteString(row("Playing", trackStyle.Render(track(st.CurrentFileArtist, st.CurrentFileTitle))))
	b.WriteString(row("", m.fileBar.ViewAs(fraction(d.CurrentFilePercentage))))
	b.WriteString(row("", timeStyle.Render(fmt.Sprintf("%s elapsed  %s remaining  of %s",
		d.CurrentFileElapsed, d.CurrentFileRemaining, utils.Normalize(st.CurrentFileDuration)))))
	if st.CurrentFilePost != "" {
		b.WriteString(row("", timeStyle.Render(fmt.Sprintf("post %s (%.0f%%)", st.CurrentFilePost, d.CurrentFilePostPercentage))))
	}
	b.WriteString(row("Next", track(st.NextFileArtist, st.NextFileTitle)+timeStyle.Render("  "+utils.Normalize(st.NextFileDuration))))
	b.WriteString("\n")

	b.WriteString(row("Show", trackStyle.Render(orDash(st.CurrentShowTitle))))
	b.WriteString(row("", m.showBar.ViewAs(fraction(d.CurrentShowPercentage))))
	b.WriteString(row("", timeStyle.Render(fmt.Sprintf("%s elapsed  %s remaining", d.CurrentShowElapsed, d.CurrentShowRemaining))))
	b.WriteString(row("Next show", orDash(st.NextShowTitle)))
	if st.HostUsername != "" {
		b.WriteString(row("Host", st.HostUsername))
	}
	b.WriteString("\n")

	for i, line := range constants.InputLines {
		in := st.Input(line)
		state := disabledStyle.Render("disabled")
		if in.Enabled {
			state = enabledStyle.Render("enabled")
		}
		if in.Active {
			state += " " + onAirStyle.Render("ON AIR")
		}
		if in.Username != "" {
			state += timeStyle.Render(" " + in.Username)
		}
		b.WriteString(row(fmt.Sprintf("[%d] %s", i+1, line), state))
	}

	if m.lastErr != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Last fetch failed: %v", m.lastErr)))
	}

	return panelStyle.Render(b.String())
}

func row(label, value string) string {
	return labelStyle.Render(label) + " " + value + "\n"
}

func track(artist, title string) string {
	switch {
	case artist == "" && title == "":
		return "-"
	case artist == "":
		return title
	case title == "":
		return artist
	}
	return artist + " - " + title
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// fraction converts a percentage to the 0..1 range the progress bar draws.
func fraction(pct float64) float64 {
	return min(max(pct/100, 0), 1)
}
