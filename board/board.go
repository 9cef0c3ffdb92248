// Package board owns the live task state. The conversation core never
// holds a reference into it: it reads a snapshot for prompt context
// and hands back a sanitized diff for atomic application.
package board

import (
	"context"
	"time"

	"kanbot/diff"
)

// Task is the full internal task record.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	DueDate      string    `json:"dueDate,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	TimeEstimate string    `json:"timeEstimate,omitempty"`
	GoalID       string    `json:"goalId,omitempty"`
	Subtasks     []string  `json:"subtasks,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TaskSummary is the reduced view of a task sent to the model for
// reference. It deliberately excludes internal bookkeeping fields to
// bound prompt size.
type TaskSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Status       string   `json:"status,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	DueDate      string   `json:"dueDate,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	TimeEstimate string   `json:"timeEstimate,omitempty"`
}

// Store is the contract the conversation core depends on. ApplyDiff
// must succeed or fail as a whole; partial-application semantics are
// the store's own concern. Unknown update or delete ids are ignored,
// never fatal for the batch.
type Store interface {
	// Snapshot returns a point-in-time reduced view of all tasks.
	Snapshot() []TaskSummary

	// ApplyDiff applies a sanitized diff: creates added entries
	// (minting their ids), patches updated entries by id, and removes
	// deleted ids.
	ApplyDiff(ctx context.Context, d diff.TaskDiff) error
}

// Summarize reduces a full task to its model-facing view.
func Summarize(t Task) TaskSummary {
	return TaskSummary{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		Tags:         t.Tags,
		TimeEstimate: t.TimeEstimate,
	}
}
