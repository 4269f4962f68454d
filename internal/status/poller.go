// Package status keeps the now-playing display in step with the station.
//
// The Poller fetches the authoritative status every few seconds and, between
// fetches, advances the derived elapsed/remaining/percentage fields once per
// second from the last payload's generation time.
package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/timer"
)

// Fetcher retrieves the engine status.
type Fetcher interface {
	FetchStatus(ctx context.Context) (*models.Status, error)
}

// FetchedMsg carries a successful status fetch.
type FetchedMsg struct {
	Status *models.Status
}

// FetchFailedMsg reports a failed status fetch.
type FetchFailedMsg struct {
	Err error
}

// Poller owns the outer fetch clock and the inner extrapolation clock.
type Poller struct {
	fetcher  Fetcher
	timeout  time.Duration
	snapshot *Snapshot
	ticks    int
	lastErr  error

	outer *timer.Handle
	inner *timer.Handle
}

// NewPoller creates a stopped poller.
func NewPoller(fetcher Fetcher, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Poller{
		fetcher: fetcher,
		timeout: timeout,
		outer:   timer.New(constants.StatusPollInterval),
		inner:   timer.New(constants.StatusTickInterval),
	}
}

// Init fetches immediately and starts the outer clock.
func (p *Poller) Init() tea.Cmd {
	return tea.Batch(p.Fetch(), p.outer.Start())
}

// Stop cancels both clocks. In-flight fetches still deliver their message.
func (p *Poller) Stop() {
	p.outer.Stop()
	p.inner.Stop()
}

// Snapshot returns the current snapshot, or nil before the first successful fetch.
func (p *Poller) Snapshot() *Snapshot {
	return p.snapshot
}

// Ticks returns the number of inner ticks since the last successful fetch.
func (p *Poller) Ticks() int {
	return p.ticks
}

// LastError returns the error of the most recent failed fetch, cleared by the next success.
func (p *Poller) LastError() error {
	return p.lastErr
}

// Fetch returns a command that requests the status once.
func (p *Poller) Fetch() tea.Cmd {
	fetcher, timeout := p.fetcher, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		st, err := fetcher.FetchStatus(ctx)
		if err != nil {
			return FetchFailedMsg{Err: err}
		}
		return FetchedMsg{Status: st}
	}
}

// Update handles poller messages and returns follow-up commands.
func (p *Poller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FetchedMsg:
		p.apply(msg.Status)
		return p.inner.Start()

	case FetchFailedMsg:
		p.lastErr = msg.Err
		logger.Warn("Status fetch failed", "error", msg.Err)
		return nil

	case timer.TickMsg:
		switch {
		case p.outer.Owns(msg):
			return tea.Batch(p.Fetch(), p.outer.Next())
		case p.inner.Owns(msg):
			p.ticks++
			p.recompute()
			return p.inner.Next()
		}
	}
	return nil
}

// SetPost records a post mark acknowledged by the server ahead of the next fetch.
func (p *Poller) SetPost(fileID int64, post string) {
	if p.snapshot == nil || p.snapshot.CurrentFileID != fileID {
		return
	}
	p.snapshot.CurrentFilePost = post
	p.recompute()
}

func (p *Poller) apply(st *models.Status) {
	if st == nil {
		return
	}
	if p.snapshot == nil {
		p.snapshot = &Snapshot{}
	}
	p.snapshot.Status = *st
	p.ticks = 0
	p.lastErr = nil
	p.recompute()
}

func (p *Poller) recompute() {
	if p.snapshot == nil {
		return
	}
	p.snapshot.Derived = Extrapolate(p.snapshot.Status, p.ticks)
}
