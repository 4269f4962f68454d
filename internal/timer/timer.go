// Package timer provides cancellable periodic ticks for the bubbletea event loop.
//
// A Handle owns a stream of TickMsg values. Every Start or Stop bumps the
// handle's tag, so ticks already in flight from an earlier arming are
// recognised as stale and dropped by Owns. Restarting a handle therefore never
// leaves two live tick chains behind.
package timer

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is delivered each time a handle's interval elapses.
type TickMsg struct {
	ID   int
	Tag  int
	Time time.Time
}

// Handle is a cancellable periodic timer.
type Handle struct {
	id       int
	tag      int
	interval time.Duration
	running  bool
}

// New creates a stopped handle with the given interval.
func New(interval time.Duration) *Handle {
	return &Handle{id: nextID(), interval: interval}
}

// ID returns the handle's unique id.
func (h *Handle) ID() int { return h.id }

// Tag returns the current arming generation.
func (h *Handle) Tag() int { return h.tag }

// Interval returns the tick interval.
func (h *Handle) Interval() time.Duration { return h.interval }

// Running reports whether the handle is armed.
func (h *Handle) Running() bool { return h.running }

// Start cancels any pending tick and arms the handle again.
func (h *Handle) Start() tea.Cmd {
	h.tag++
	h.running = true
	return h.tick()
}

// Stop cancels the pending tick. It is a no-op on a stopped handle.
func (h *Handle) Stop() {
	if !h.running {
		return
	}
	h.tag++
	h.running = false
}

// Owns reports whether msg is a live tick from this handle's current arming.
func (h *Handle) Owns(msg TickMsg) bool {
	return h.running && msg.ID == h.id && msg.Tag == h.tag
}

// Next schedules the following tick of the current arming.
func (h *Handle) Next() tea.Cmd {
	if !h.running {
		return nil
	}
	return h.tick()
}

func (h *Handle) tick() tea.Cmd {
	id, tag := h.id, h.tag
	return tea.Tick(h.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Tag: tag, Time: t}
	})
}
