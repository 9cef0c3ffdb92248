package board

import (
	"context"
	"path/filepath"
	"testing"

	"kanbot/diff"
)

func strPtr(s string) *string { return &s }

func TestApplyDiffAdds(t *testing.T) {
	store := NewMemoryStore()

	err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Added: []diff.TaskDraft{
			{Title: "Ship release", Status: "To Do", Priority: "High"},
			{Title: "Write notes"},
		},
	})
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}

	tasks := store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	if tasks[0].ID == "" || tasks[1].ID == "" {
		t.Error("expected store to mint ids")
	}
	if tasks[0].ID == tasks[1].ID {
		t.Error("expected unique ids")
	}
	if tasks[0].Title != "Ship release" || tasks[0].Status != "To Do" {
		t.Errorf("unexpected task: %+v", tasks[0])
	}
}

func TestApplyDiffPatchesOnlyPresentFields(t *testing.T) {
	store := NewMemoryStore()
	if err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Added: []diff.TaskDraft{{Title: "original", Status: "To Do", Priority: "Low"}},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id := store.Tasks()[0].ID

	err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Updated: []diff.TaskPatch{{ID: id, Status: strPtr("Done")}},
	})
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}

	got := store.Tasks()[0]
	if got.Status != "Done" {
		t.Errorf("status = %q, want Done", got.Status)
	}
	if got.Title != "original" || got.Priority != "Low" {
		t.Errorf("absent patch fields must not change the task: %+v", got)
	}
}

func TestApplyDiffIgnoresUnknownIDs(t *testing.T) {
	store := NewMemoryStore()
	if err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Added: []diff.TaskDraft{{Title: "keeper"}},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Updated:    []diff.TaskPatch{{ID: "no-such-task", Status: strPtr("Done")}},
		DeletedIDs: []string{"also-missing"},
	})
	if err != nil {
		t.Fatalf("unknown ids must not fail the batch: %v", err)
	}
	if len(store.Tasks()) != 1 {
		t.Errorf("tasks = %d, want 1", len(store.Tasks()))
	}
}

func TestApplyDiffDeletes(t *testing.T) {
	store := NewMemoryStore()
	if err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Added: []diff.TaskDraft{{Title: "a"}, {Title: "b"}, {Title: "c"}},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tasks := store.Tasks()
	err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		DeletedIDs: []string{tasks[0].ID, tasks[2].ID},
	})
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}

	remaining := store.Tasks()
	if len(remaining) != 1 || remaining[0].Title != "b" {
		t.Errorf("remaining = %+v, want only b", remaining)
	}
}

func TestSnapshotExcludesInternalFields(t *testing.T) {
	store := NewMemoryStore()
	if err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Added: []diff.TaskDraft{{Title: "t", Subtasks: []string{"sub"}, GoalID: "g1"}},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snap := store.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot = %d, want 1", len(snap))
	}
	if snap[0].ID == "" || snap[0].Title != "t" {
		t.Errorf("unexpected summary: %+v", snap[0])
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")

	store, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	if err := store.ApplyDiff(context.Background(), diff.TaskDiff{
		Added: []diff.TaskDraft{{Title: "persisted", Tags: []string{"x"}}},
	}); err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	tasks := reopened.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "persisted" {
		t.Errorf("reloaded tasks = %+v", tasks)
	}
}
