package schedule

import (
	"testing"

	"github.com/julianstephens/cloudcast/internal/models"
)

func TestTree_MergePreservesIdentity(t *testing.T) {
	tree := &Tree{}
	tree.Merge(payload())

	sched := tree.Find(1)
	entry := sched.ScheduleFiles[2]

	next := payload()
	next[0].Schedules[0].ScheduleFiles[2].QueuedOn = stamp("2024-05-01 12:06:00")
	tree.Merge(next)

	if tree.Find(1) != sched {
		t.Fatal("schedule identity was not preserved")
	}
	if tree.Find(1).ScheduleFiles[2] != entry {
		t.Fatal("entry identity was not preserved")
	}
	if !entry.IsQueued() {
		t.Error("merged entry should carry the new queued timestamp")
	}
}

func TestTree_MergeClearsSelectionOnStaticEntries(t *testing.T) {
	tree := &Tree{}
	tree.Merge(payload())
	entry := tree.Find(1).ScheduleFiles[2]
	entry.Selected = true

	next := payload()
	next[0].Schedules[0].ScheduleFiles[2].PlayedOn = stamp("2024-05-01 12:06:00")
	tree.Merge(next)

	if entry.Selected {
		t.Error("entry claimed by the engine must be deselected")
	}
}

func TestTree_MergeDropsMissingAndPrunesDates(t *testing.T) {
	tree := &Tree{}
	tree.Merge(payload())

	next := payload()
	next[0].Schedules = next[0].Schedules[:1]
	next = append(next, &models.ScheduleDate{Date: "2024-05-02"})
	tree.Merge(next)

	if tree.Find(2) != nil {
		t.Error("schedule absent from the payload should be dropped")
	}
	if len(tree.Dates) != 1 {
		t.Errorf("expected empty date to be pruned, got %d dates", len(tree.Dates))
	}
}

func TestTree_SelectAll(t *testing.T) {
	tree := &Tree{}
	tree.Merge(payload())

	tree.SelectAll()
	if got := len(tree.SelectedIDs()); got != 2 {
		t.Fatalf("SelectAll() with nothing selected selected %d, want 2", got)
	}

	tree.SelectAll()
	if got := len(tree.SelectedIDs()); got != 0 {
		t.Fatalf("SelectAll() with everything selected left %d selected", got)
	}

	tree.Find(2).Selected = true
	tree.SelectAll()
	if got := len(tree.SelectedIDs()); got != 0 {
		t.Errorf("SelectAll() with a partial selection left %d selected", got)
	}
}

func TestTree_RemoveSchedules(t *testing.T) {
	tree := &Tree{}
	tree.Merge(payload())

	tree.RemoveSchedules([]int64{2})
	if tree.Find(2) != nil || tree.Find(1) == nil {
		t.Fatal("RemoveSchedules() removed the wrong schedules")
	}

	tree.RemoveSchedules([]int64{1})
	if !tree.Empty() {
		t.Errorf("expected the empty date to be pruned, got %d dates", len(tree.Dates))
	}
}

func TestTree_Restore(t *testing.T) {
	tree := &Tree{}
	tree.Merge(payload())

	tree.Restore([]int64{2}, []int64{1})
	if tree.Find(1).Selected || !tree.Find(2).Selected {
		t.Error("selection not restored by id")
	}
	if !tree.Find(1).Expanded || tree.Find(2).Expanded {
		t.Error("expansion not restored by id")
	}
}
