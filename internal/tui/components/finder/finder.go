package finder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cloudcast/internal/client"
	"github.com/julianstephens/cloudcast/internal/models"
)

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	promoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// Searcher runs a library search on the station.
type Searcher interface {
	SearchFiles(ctx context.Context, q client.SearchQuery) ([]*models.File, error)
}

// ResultsMsg carries the files found for search number Seq.
type ResultsMsg struct {
	Seq   int
	Query string
	Files []*models.File
	Err   error
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Randomize key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:      key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Toggle:    key.NewBinding(key.WithKeys("ctrl+t")),
	Randomize: key.NewBinding(key.WithKeys("ctrl+r")),
}

// Model is the file finder: a query line over a selectable result list.
// Every query change starts a new search; only the newest result is kept.
type Model struct {
	searcher  Searcher
	timeout   time.Duration
	input     textinput.Model
	results   []*models.File
	cursor    int
	randomize bool
	seq       int
	searching bool
	err       error
	width     int
	height    int
}

func New(searcher Searcher, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "Search artist, title, album..."
	ti.CharLimit = 128
	ti.Prompt = "/ "

	return Model{
		searcher: searcher,
		timeout:  timeout,
		input:    ti,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 10)
}

// Focus activates the query line.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.input.Blur()
}

func (m Model) Query() string {
	return strings.TrimSpace(m.input.Value())
}

func (m Model) Results() []*models.File {
	return m.results
}

func (m Model) Searching() bool {
	return m.searching
}

// Search starts a search for the current query.
func (m *Model) Search() tea.Cmd {
	m.seq++
	m.searching = true
	seq := m.seq
	q := client.SearchQuery{Query: m.Query(), Randomize: m.randomize}
	searcher, timeout := m.searcher, m.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		files, err := searcher.SearchFiles(ctx, q)
		return ResultsMsg{Seq: seq, Query: q.Query, Files: files, Err: err}
	}
}

// Picked returns copies of the selected files, or of the file under the
// cursor when none is selected.
func (m Model) Picked() []*models.File {
	var picked []*models.File
	for _, f := range m.results {
		if f.Selected {
			picked = append(picked, unselected(f))
		}
	}
	if len(picked) == 0 && m.cursor < len(m.results) {
		picked = append(picked, unselected(m.results[m.cursor]))
	}
	return picked
}

func unselected(f *models.File) *models.File {
	cp := *f
	cp.Selected = false
	return &cp
}

// ClearSelection deselects every result.
func (m *Model) ClearSelection() {
	for _, f := range m.results {
		f.Selected = false
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultsMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.searching = false
		m.err = msg.Err
		if msg.Err == nil {
			m.results = msg.Files
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, keys.Toggle):
			if m.cursor < len(m.results) {
				m.results[m.cursor].Selected = !m.results[m.cursor].Selected
			}
			return m, nil
		case key.Matches(msg, keys.Randomize):
			m.randomize = !m.randomize
			return m, m.Search()
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.Search())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View() + "\n")

	status := fmt.Sprintf("%d results", len(m.results))
	if m.randomize {
		status += ", random order"
	}
	if m.searching {
		status += ", searching..."
	}
	b.WriteString(metaStyle.Render(status) + "\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Search failed: %v", m.err)) + "\n")
	}

	visible := max(m.height-4, 1)
	start := max(0, m.cursor-visible+1)
	end := min(len(m.results), start+visible)
	for i := start; i < end; i++ {
		f := m.results[i]
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if f.Selected {
			box = "[x]"
		}
		style := fileStyle
		if f.IsPromo() {
			style = promoStyle
		}
		line := fmt.Sprintf("%s%s %s %s", marker, box,
			style.Render(fmt.Sprintf("%s - %s", f.Artist, f.Title)),
			metaStyle.Render(strings.TrimSpace(f.Duration+"  "+f.Album)))
		b.WriteString(line + "\n")
	}
	return b.String()
}
