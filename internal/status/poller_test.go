package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/timer"
)

type fakeFetcher struct {
	status *models.Status
	err    error
	calls  int
}

func (f *fakeFetcher) FetchStatus(ctx context.Context) (*models.Status, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	st := *f.status
	return &st, nil
}

// innerTick builds the tick the poller's inner clock would deliver next.
func innerTick(p *Poller) timer.TickMsg {
	return timer.TickMsg{ID: p.inner.ID(), Tag: p.inner.Tag(), Time: time.Now()}
}

func TestPoller_FetchThenTicks(t *testing.T) {
	st := baseStatus()
	f := &fakeFetcher{status: &st}
	p := NewPoller(f, time.Second)

	if p.Snapshot() != nil {
		t.Fatal("snapshot should be nil before the first fetch")
	}

	if cmd := p.Update(p.Fetch()()); cmd == nil {
		t.Fatal("successful fetch should arm the inner clock")
	}
	if !p.inner.Running() {
		t.Fatal("inner clock should be running after a fetch")
	}

	for i := 0; i < 90; i++ {
		p.Update(innerTick(p))
	}

	snap := p.Snapshot()
	if snap == nil {
		t.Fatal("snapshot should exist after a fetch")
	}
	if p.Ticks() != 90 {
		t.Errorf("Ticks() = %d, want 90", p.Ticks())
	}
	if snap.Derived.CurrentFileElapsed != "00:01:30" {
		t.Errorf("CurrentFileElapsed = %q, want 00:01:30", snap.Derived.CurrentFileElapsed)
	}
	if snap.Derived.CurrentFilePercentage != 50 {
		t.Errorf("CurrentFilePercentage = %v, want 50", snap.Derived.CurrentFilePercentage)
	}
}

func TestPoller_SecondFetchResetsCounter(t *testing.T) {
	st := baseStatus()
	f := &fakeFetcher{status: &st}
	p := NewPoller(f, time.Second)

	p.Update(p.Fetch()())
	for i := 0; i < 5; i++ {
		p.Update(innerTick(p))
	}
	stale := innerTick(p)

	st.GeneratedOn = "2024-05-01 12:00:05"
	p.Update(p.Fetch()())
	if p.Ticks() != 0 {
		t.Fatalf("Ticks() = %d after refetch, want 0", p.Ticks())
	}
	if got := p.Snapshot().Derived.UpdatedOnTime; got != "12:00:05" {
		t.Errorf("UpdatedOnTime = %q, want 12:00:05", got)
	}

	// the tick armed before the refetch belongs to a cancelled chain
	p.Update(stale)
	if p.Ticks() != 0 {
		t.Errorf("stale tick advanced the counter to %d", p.Ticks())
	}

	p.Update(innerTick(p))
	if got := p.Snapshot().Derived.UpdatedOnTime; got != "12:00:06" {
		t.Errorf("UpdatedOnTime = %q, want 12:00:06", got)
	}
}

func TestPoller_FailedFetchKeepsState(t *testing.T) {
	st := baseStatus()
	f := &fakeFetcher{status: &st}
	p := NewPoller(f, time.Second)

	p.Update(p.Fetch()())
	p.Update(innerTick(p))
	p.Update(innerTick(p))
	before := *p.Snapshot()
	tag := p.inner.Tag()

	f.err = errors.New("connection refused")
	if cmd := p.Update(p.Fetch()()); cmd != nil {
		t.Error("failed fetch should not schedule anything")
	}
	if p.LastError() == nil {
		t.Error("LastError() should report the failure")
	}
	if *p.Snapshot() != before {
		t.Error("failed fetch must not modify the snapshot")
	}
	if p.inner.Tag() != tag || p.Ticks() != 2 {
		t.Error("failed fetch must not touch the inner clock")
	}
}

func TestPoller_OuterTickRefetches(t *testing.T) {
	st := baseStatus()
	f := &fakeFetcher{status: &st}
	p := NewPoller(f, time.Second)

	if p.Init() == nil {
		t.Fatal("Init() should return commands")
	}
	outer := timer.TickMsg{ID: p.outer.ID(), Tag: p.outer.Tag()}
	if p.Update(outer) == nil {
		t.Error("outer tick should schedule a fetch and the next tick")
	}

	p.Stop()
	if p.Update(outer) != nil {
		t.Error("stopped poller should ignore its ticks")
	}
}

func TestPoller_SetPost(t *testing.T) {
	st := baseStatus()
	f := &fakeFetcher{status: &st}
	p := NewPoller(f, time.Second)
	p.Update(p.Fetch()())

	p.SetPost(99, "00:00:30")
	if p.Snapshot().CurrentFilePost != "" {
		t.Error("post for another file must be ignored")
	}

	p.SetPost(42, "00:01:30")
	if p.Snapshot().CurrentFilePost != "00:01:30" {
		t.Errorf("CurrentFilePost = %q", p.Snapshot().CurrentFilePost)
	}
	if p.Snapshot().Derived.CurrentFilePostPercentage != 50 {
		t.Errorf("CurrentFilePostPercentage = %v, want 50", p.Snapshot().Derived.CurrentFilePostPercentage)
	}
}
