package timer

import (
	"testing"
	"time"
)

func TestHandle_StartArmsAndOwns(t *testing.T) {
	h := New(time.Second)
	if h.Running() {
		t.Fatal("new handle should be stopped")
	}

	if cmd := h.Start(); cmd == nil {
		t.Fatal("Start() should return a tick command")
	}
	if !h.Running() {
		t.Fatal("handle should be running after Start()")
	}

	msg := TickMsg{ID: h.ID(), Tag: h.Tag()}
	if !h.Owns(msg) {
		t.Error("handle should own a tick from its current arming")
	}
	if h.Next() == nil {
		t.Error("Next() on a running handle should return a command")
	}
}

func TestHandle_RestartDropsStaleTicks(t *testing.T) {
	h := New(time.Second)
	h.Start()
	stale := TickMsg{ID: h.ID(), Tag: h.Tag()}

	h.Start()
	if h.Owns(stale) {
		t.Error("tick from an earlier arming must be dropped after restart")
	}
	if !h.Owns(TickMsg{ID: h.ID(), Tag: h.Tag()}) {
		t.Error("tick from the current arming should be owned")
	}
}

func TestHandle_Stop(t *testing.T) {
	h := New(time.Second)
	h.Start()
	live := TickMsg{ID: h.ID(), Tag: h.Tag()}

	h.Stop()
	if h.Running() {
		t.Error("handle should be stopped")
	}
	if h.Owns(live) {
		t.Error("a stopped handle must not own any tick")
	}
	if h.Next() != nil {
		t.Error("Next() on a stopped handle should return nil")
	}

	tag := h.Tag()
	h.Stop()
	if h.Tag() != tag {
		t.Error("Stop() on a stopped handle should not change the tag")
	}
}

func TestHandle_DistinctIDs(t *testing.T) {
	a := New(time.Second)
	b := New(time.Second)
	if a.ID() == b.ID() {
		t.Fatal("handles must have distinct ids")
	}

	a.Start()
	b.Start()
	if b.Owns(TickMsg{ID: a.ID(), Tag: a.Tag()}) {
		t.Error("handle must not own another handle's tick")
	}
}
