package schedule

import (
	"errors"
	"testing"

	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/timer"
)

func TestCoordinator_MergeKeepsSelectionAndExpansion(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, true)
	c.Tree().Find(1).Expanded = true
	c.Tree().Find(2).Selected = true

	c.Update(DatesFetchedMsg{Dates: payload()})

	if !c.Tree().Find(1).Expanded {
		t.Error("expanded flag lost on refresh")
	}
	if !c.Tree().Find(2).Selected {
		t.Error("selected flag lost on refresh")
	}
}

func TestCoordinator_AutoRefreshToggle(t *testing.T) {
	station := &fakeStation{}
	c := newTestCoordinator(station, false)

	if cmd := c.ToggleAutoRefresh(); cmd == nil || !c.AutoRefresh() {
		t.Fatal("toggling on should arm the refresh timer")
	}
	tick := timer.TickMsg{ID: c.refresh.ID(), Tag: c.refresh.Tag()}
	if c.Update(tick) == nil {
		t.Error("owned tick should refresh and rearm")
	}

	c.ToggleAutoRefresh()
	if c.AutoRefresh() {
		t.Fatal("toggling off should stop auto-refresh")
	}
	if c.Update(tick) != nil {
		t.Error("tick after stop should be ignored")
	}
	if c.Tree().Find(1) == nil {
		t.Error("stopping auto-refresh must keep the fetched tree")
	}
}

func TestCoordinator_FetchFailureKeepsTree(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)
	before := c.Tree().Find(1)

	c.Update(DatesFetchFailedMsg{Err: errors.New("timeout")})
	if c.LastError() == nil {
		t.Error("LastError() should report the failure")
	}
	if c.Tree().Find(1) != before {
		t.Error("failed fetch must not change the tree")
	}
}

func TestCoordinator_NilDatesKeepsTree(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)
	c.Tree().Find(1).Expanded = true
	c.Tree().Find(2).Selected = true

	c.Update(DatesFetchedMsg{Dates: nil})

	if c.Tree().Find(1) == nil || c.Tree().Find(2) == nil {
		t.Fatal("nil payload must not clear the tree")
	}
	if !c.Tree().Find(1).Expanded || !c.Tree().Find(2).Selected {
		t.Error("nil payload must keep expanded and selected flags")
	}

	c.Update(DatesFetchedMsg{Dates: payload()})
	if !c.Tree().Find(1).Expanded || !c.Tree().Find(2).Selected {
		t.Error("flags lost on the refresh after a nil payload")
	}
}

func TestCoordinator_EmptyDatesClearsTree(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)

	c.Update(DatesFetchedMsg{Dates: []*models.ScheduleDate{}})

	if len(c.Tree().Dates) != 0 {
		t.Errorf("tree has %d dates, want 0 for an empty schedule", len(c.Tree().Dates))
	}
}

func TestCoordinator_Deactivate(t *testing.T) {
	station := &fakeStation{}
	c := newTestCoordinator(station, true)
	c.Session().BeginEdit(c.Tree().Find(2))

	cmd := c.Deactivate([]int64{2})
	c.Update(cmd())

	if !equalIDs(station.deactivated, []int64{2}) {
		t.Errorf("deactivated = %v", station.deactivated)
	}
	if c.Tree().Find(2) != nil {
		t.Error("deactivated schedule should be removed locally")
	}
	if c.Session().Active() {
		t.Error("deactivating the edited schedule should end the session")
	}
	if !c.AutoRefresh() {
		t.Error("auto-refresh should be restored")
	}
	if c.Deactivate(nil) != nil {
		t.Error("Deactivate(nil) should be a no-op")
	}
}

func TestCoordinator_GenerateGuard(t *testing.T) {
	station := &fakeStation{}
	c := newTestCoordinator(station, false)

	cmd := c.Generate()
	if cmd == nil || !c.Generating() {
		t.Fatal("Generate() should start a request")
	}
	if c.Generate() != nil {
		t.Error("second Generate() while in flight should be a no-op")
	}

	if c.Update(cmd()) == nil {
		t.Error("completed generation should trigger a refresh")
	}
	if c.Generating() || station.generated != 1 {
		t.Errorf("generating = %v, calls = %d", c.Generating(), station.generated)
	}
}

func TestCoordinator_FocusEditing(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)
	if c.FocusEditing() != nil {
		t.Error("FocusEditing() without a session should be a no-op")
	}

	sched := c.Tree().Find(2)
	c.Session().BeginEdit(sched)
	if c.FocusEditing() == nil || !sched.Focused {
		t.Error("FocusEditing() should focus the edited schedule")
	}
}
