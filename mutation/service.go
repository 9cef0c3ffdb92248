// Package mutation turns a natural-language command into a sanitized
// TaskDiff by prompting the model and running its untrusted response
// through the extraction and sanitization pipeline.
package mutation

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"kanbot/board"
	"kanbot/diff"
	"kanbot/extract"
	"kanbot/llm"
)

// Service orchestrates one mutation request: prompt assembly, model
// invocation, extraction, sanitization. It holds no board state; the
// caller passes the snapshot so the prompt reflects exactly what the
// user saw when they issued the command.
type Service struct {
	adapter llm.Adapter
	now     func() time.Time
}

// NewService creates a mutation request service on top of an adapter.
func NewService(adapter llm.Adapter) *Service {
	return &Service{
		adapter: adapter,
		now:     time.Now,
	}
}

// RequestMutation sends the command and snapshot to the model and
// returns the sanitized diff. The only error it can return is a
// transport/model failure; malformed model output never fails the
// call, it degrades to a conversational diff.
func (s *Service) RequestMutation(ctx context.Context, command string, snapshot []board.TaskSummary) (diff.TaskDiff, error) {
	userContent, err := BuildUserMessage(s.now(), command, snapshot)
	if err != nil {
		return diff.TaskDiff{}, err
	}

	messages := []llm.Message{
		{Role: "system", Content: BuildSystemMessage(), Timestamp: s.now()},
		{Role: "user", Content: userContent, Timestamp: s.now()},
	}

	log.Debug("sending mutation request", "model", s.adapter.GetModelName(), "tasks", len(snapshot))

	resp, err := s.adapter.Send(ctx, messages)
	if err != nil {
		return diff.TaskDiff{}, fmt.Errorf("mutation request failed: %w", err)
	}

	res := extract.Extract(resp.Content)
	d := diff.Sanitize(res.JSON, res.Remainder)

	log.Debug("sanitized mutation response",
		"added", len(d.Added), "updated", len(d.Updated), "deleted", len(d.DeletedIDs))

	return d, nil
}
