package board

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"kanbot/diff"
)

// MemoryStore is the reference Store implementation: an ordered,
// mutex-guarded task list with optional JSON file persistence. When a
// path is set the file is rewritten after every successful apply.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks []Task
	path  string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// OpenFileStore loads a store backed by a JSON file, starting empty if
// the file does not exist yet.
func OpenFileStore(path string) (*MemoryStore, error) {
	s := &MemoryStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	if err := json.Unmarshal(data, &s.tasks); err != nil {
		return nil, fmt.Errorf("failed to parse board file: %w", err)
	}

	return s, nil
}

// Snapshot implements Store.Snapshot.
func (s *MemoryStore) Snapshot() []TaskSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]TaskSummary, len(s.tasks))
	for i, t := range s.tasks {
		summaries[i] = Summarize(t)
	}
	return summaries
}

// Tasks returns a copy of the full task list, in creation order.
func (s *MemoryStore) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// ApplyDiff implements Store.ApplyDiff. The whole diff is applied
// under one lock; unknown update and delete ids are skipped.
func (s *MemoryStore) ApplyDiff(ctx context.Context, d diff.TaskDiff) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	for _, draft := range d.Added {
		s.tasks = append(s.tasks, Task{
			ID:           uuid.New().String(),
			Title:        draft.Title,
			Description:  draft.Description,
			Status:       draft.Status,
			Priority:     draft.Priority,
			DueDate:      draft.DueDate,
			Tags:         draft.Tags,
			TimeEstimate: draft.TimeEstimate,
			GoalID:       draft.GoalID,
			Subtasks:     draft.Subtasks,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	for _, patch := range d.Updated {
		idx := s.indexOf(patch.ID)
		if idx < 0 {
			log.Debug("skipping update for unknown task", "id", patch.ID)
			continue
		}
		applyPatch(&s.tasks[idx], patch, now)
	}

	for _, id := range d.DeletedIDs {
		idx := s.indexOf(id)
		if idx < 0 {
			log.Debug("skipping delete for unknown task", "id", id)
			continue
		}
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	}

	if s.path != "" {
		if err := s.save(); err != nil {
			return fmt.Errorf("failed to persist board: %w", err)
		}
	}

	return nil
}

// indexOf must be called with the lock held.
func (s *MemoryStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// applyPatch copies only the fields the patch actually carries.
func applyPatch(t *Task, p diff.TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.TimeEstimate != nil {
		t.TimeEstimate = *p.TimeEstimate
	}
	if p.GoalID != nil {
		t.GoalID = *p.GoalID
	}
	t.UpdatedAt = now
}

// save must be called with the lock held.
func (s *MemoryStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create board directory: %w", err)
	}

	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}
