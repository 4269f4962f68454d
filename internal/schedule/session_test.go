package schedule

import (
	"errors"
	"testing"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
)

func TestSession_BeginCancelRestores(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, true)
	sched := c.Tree().Find(1)
	original := sched.FileIDs()
	c.Tree().Find(2).Selected = true

	if _, err := c.Session().BeginEdit(sched); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	if c.AutoRefresh() {
		t.Error("auto-refresh should be forced off while editing")
	}
	if !sched.Editing || !sched.Expanded {
		t.Error("edited schedule should be editing and expanded")
	}
	if len(c.Tree().SelectedIDs()) != 0 {
		t.Error("BeginEdit() should deselect every schedule")
	}

	if err := c.Session().InsertFiles([]*models.File{{ID: 900}}); err != nil {
		t.Fatalf("InsertFiles() error = %v", err)
	}
	if err := c.Session().MoveFile(4, 2); err != nil {
		t.Fatalf("MoveFile() error = %v", err)
	}

	if _, err := c.Session().CancelEdit(); err != nil {
		t.Fatalf("CancelEdit() error = %v", err)
	}
	if !equalIDs(sched.FileIDs(), original) {
		t.Errorf("order after cancel = %v, want %v", sched.FileIDs(), original)
	}
	if sched.Editing || c.Session().Active() {
		t.Error("session should be idle after cancel")
	}
	if !c.AutoRefresh() {
		t.Error("auto-refresh should be restored after cancel")
	}
}

func TestSession_BeginEditReentryCancelsPrevious(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, true)
	first := c.Tree().Find(1)
	second := c.Tree().Find(2)
	original := first.FileIDs()

	c.Session().BeginEdit(first)
	c.Session().ToggleFile(3)
	c.Session().RemoveSelected()

	c.Session().BeginEdit(second)
	if first.Editing {
		t.Error("previous schedule should no longer be editing")
	}
	if !equalIDs(first.FileIDs(), original) {
		t.Errorf("previous schedule order = %v, want %v", first.FileIDs(), original)
	}
	if c.Session().Schedule() != second {
		t.Error("session should now edit the second schedule")
	}

	c.Session().CancelEdit()
	if !c.AutoRefresh() {
		t.Error("auto-refresh from before the first edit should be restored")
	}
}

func TestSession_StaticEntriesAreAnchors(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)
	sched := c.Tree().Find(1)
	c.Session().BeginEdit(sched)

	if err := c.Session().ToggleFile(0); !errors.Is(err, ErrStaticEntry) {
		t.Errorf("ToggleFile(static) error = %v, want ErrStaticEntry", err)
	}
	if err := c.Session().MoveFile(3, 1); !errors.Is(err, ErrStaticEntry) {
		t.Errorf("MoveFile(into static region) error = %v, want ErrStaticEntry", err)
	}
	if err := c.Session().MoveFile(0, 4); !errors.Is(err, ErrStaticEntry) {
		t.Errorf("MoveFile(static) error = %v, want ErrStaticEntry", err)
	}

	c.Session().SelectAllFiles()
	// a static entry flagged by hand is still never removed
	sched.ScheduleFiles[0].Selected = true
	removed, err := c.Session().RemoveSelected()
	if err != nil {
		t.Fatalf("RemoveSelected() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("RemoveSelected() removed %d, want 3", removed)
	}
	if !equalIDs(sched.FileIDs(), []int64{101, 102}) {
		t.Errorf("remaining entries = %v, want the two static ones", sched.FileIDs())
	}
}

func TestSession_InsertFilesPosition(t *testing.T) {
	tests := []struct {
		name     string
		selected []int
		want     []int64
	}{
		{
			name: "no selection appends",
			want: []int64{101, 102, 103, 104, 105, 900, 901},
		},
		{
			name:     "after last selected entry",
			selected: []int{2, 3},
			want:     []int64{101, 102, 103, 104, 900, 901, 105},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCoordinator(&fakeStation{}, false)
			sched := c.Tree().Find(1)
			c.Session().BeginEdit(sched)
			for _, i := range tt.selected {
				c.Session().ToggleFile(i)
			}

			files := []*models.File{{ID: 900}, {ID: 901}}
			if err := c.Session().InsertFiles(files); err != nil {
				t.Fatalf("InsertFiles() error = %v", err)
			}
			if !equalIDs(sched.FileIDs(), tt.want) {
				t.Errorf("order = %v, want %v", sched.FileIDs(), tt.want)
			}
			for _, sf := range sched.ScheduleFiles {
				if sf.ID == 0 && sf.LocalID == "" {
					t.Error("inserted entry is missing a local id")
				}
			}
		})
	}
}

func TestSession_InsertNeverBeforeStatic(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)
	sched := c.Tree().Find(2)
	c.Session().BeginEdit(sched)
	c.Session().ToggleFile(0)

	// the engine claims both entries after the operator selected the first one
	sched.ScheduleFiles[0].QueuedOn = stamp("2024-05-01 13:00:00")
	sched.ScheduleFiles[1].QueuedOn = stamp("2024-05-01 13:03:00")

	c.Session().InsertFiles([]*models.File{{ID: 900}})
	if !equalIDs(sched.FileIDs(), []int64{201, 202, 900}) {
		t.Errorf("order = %v, want the new entry after the static ones", sched.FileIDs())
	}
}

func TestSession_MoveFile(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)
	sched := c.Tree().Find(1)
	c.Session().BeginEdit(sched)

	if err := c.Session().MoveFile(4, 2); err != nil {
		t.Fatalf("MoveFile() error = %v", err)
	}
	if !equalIDs(sched.FileIDs(), []int64{101, 102, 105, 103, 104}) {
		t.Errorf("order = %v", sched.FileIDs())
	}
	if err := c.Session().MoveFile(2, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("MoveFile(out of range) error = %v", err)
	}
}

func TestSession_MutationsRequireEditing(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)

	if err := c.Session().InsertFiles(nil); !errors.Is(err, ErrNotEditing) {
		t.Errorf("InsertFiles() error = %v, want ErrNotEditing", err)
	}
	if _, err := c.Session().Commit(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("Commit() error = %v, want ErrNotEditing", err)
	}
	if _, err := c.Session().CancelEdit(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("CancelEdit() error = %v, want ErrNotEditing", err)
	}
}

func TestSession_RefreshDuringEditChangesNothing(t *testing.T) {
	station := &fakeStation{}
	c := newTestCoordinator(station, true)
	sched := c.Tree().Find(1)
	c.Session().BeginEdit(sched)
	c.Session().MoveFile(4, 2)
	edited := sched.FileIDs()

	if cmd := c.Refresh(); cmd != nil {
		t.Error("Refresh() should be a no-op while editing")
	}

	// a response requested before the edit began lands now
	next := payload()
	next[0].Schedules[0].ScheduleFiles[2].PlayedOn = stamp("2024-05-01 12:06:00")
	c.Update(DatesFetchedMsg{Dates: next})

	if !equalIDs(sched.FileIDs(), edited) {
		t.Errorf("order = %v, want %v", sched.FileIDs(), edited)
	}
	if sched.ScheduleFiles[3].IsStatic() {
		t.Error("late refresh must not touch entries of the edited schedule")
	}
}

func TestSession_CommitOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		result      constants.SaveResult
		saveErr     error
		wantActive  bool
		wantMessage string
		wantOrder   []int64
	}{
		{
			name:      "success keeps the edited order",
			result:    constants.SaveSuccess,
			wantOrder: []int64{101, 102, 105, 103, 104},
		},
		{
			name:        "out of sync discards the edit",
			result:      constants.SaveScheduleOutOfSync,
			wantMessage: constants.MessageScheduleOutOfSync,
			wantOrder:   []int64{101, 102, 103, 104, 105},
		},
		{
			name:        "not found discards the edit",
			result:      constants.SaveScheduleNotFound,
			wantMessage: constants.MessageScheduleMissing,
			wantOrder:   []int64{101, 102, 103, 104, 105},
		},
		{
			name:        "transport error keeps editing",
			saveErr:     errors.New("connection reset"),
			wantActive:  true,
			wantMessage: "Save failed: connection reset",
			wantOrder:   []int64{101, 102, 105, 103, 104},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			station := &fakeStation{result: tt.result, saveErr: tt.saveErr}
			c := newTestCoordinator(station, true)
			sched := c.Tree().Find(1)
			c.Session().BeginEdit(sched)
			c.Session().MoveFile(4, 2)

			cmd, err := c.Session().Commit()
			if err != nil {
				t.Fatalf("Commit() error = %v", err)
			}
			if !c.Session().Saving() {
				t.Fatal("session should be saving")
			}
			if err := c.Session().ToggleFile(2); !errors.Is(err, ErrCommitInFlight) {
				t.Errorf("mutation during save error = %v, want ErrCommitInFlight", err)
			}
			if _, err := c.Session().CancelEdit(); !errors.Is(err, ErrCommitInFlight) {
				t.Errorf("cancel during save error = %v, want ErrCommitInFlight", err)
			}

			c.Update(cmd())

			if !equalIDs(station.saved, []int64{101, 102, 105, 103, 104}) {
				t.Errorf("posted order = %v", station.saved)
			}
			if c.Session().Active() != tt.wantActive {
				t.Errorf("Active() = %v, want %v", c.Session().Active(), tt.wantActive)
			}
			if c.Session().Saving() {
				t.Error("saving flag should be cleared")
			}
			if c.Session().Message() != tt.wantMessage {
				t.Errorf("Message() = %q, want %q", c.Session().Message(), tt.wantMessage)
			}
			if !equalIDs(sched.FileIDs(), tt.wantOrder) {
				t.Errorf("order = %v, want %v", sched.FileIDs(), tt.wantOrder)
			}
			if c.AutoRefresh() == tt.wantActive {
				t.Errorf("AutoRefresh() = %v after outcome", c.AutoRefresh())
			}
		})
	}
}

func TestSession_StaleSaveResultIgnored(t *testing.T) {
	c := newTestCoordinator(&fakeStation{}, false)
	c.Session().BeginEdit(c.Tree().Find(1))

	if cmd := c.Session().HandleSaveResult(SaveResultMsg{ScheduleID: 2, Result: constants.SaveSuccess}); cmd != nil {
		t.Error("result for another schedule should be ignored")
	}
	if !c.Session().Active() {
		t.Error("session should still be active")
	}
}
