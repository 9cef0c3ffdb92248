package mutation

import (
	"encoding/json"
	"fmt"
	"time"

	"kanbot/board"
)

// systemPrompt declares the assistant's role and the response schema.
// The schema is advisory only: the model may ignore it entirely, which
// is why every response still runs through extraction and
// sanitization before anything touches the board.
const systemPrompt = `You are Kanbot, an assistant that manages a personal kanban task board through structured mutations.

Respond with a single JSON object using this shape:
{
  "added": [{"title": "...", "description": "...", "status": "...", "priority": "...", "dueDate": "...", "tags": ["..."], "timeEstimate": "...", "goalId": "...", "subtasks": ["..."]}],
  "updated": [{"id": "...", "status": "...", "...": "only fields to change"}],
  "deletedIds": ["..."],
  "summary": "short markdown description of what you did or the answer to the user's question"
}

Rules:
- "added" entries require a "title". All other fields are optional.
- "updated" entries require the "id" of an existing task from the snapshot. Include only the fields to change.
- "deletedIds" holds ids of existing tasks to remove.
- "summary" is always required, even when no mutation is needed.
- If the user is only asking a question, answer it in "summary" and leave the other fields empty.
- Never invent task ids that are not in the snapshot.`

// userPromptFormat carries the current time, the literal command, and
// the reduced task snapshot the model may reference.
const userPromptFormat = `Current time: %s

Current tasks:
%s

User command: %s`

// BuildSystemMessage returns the instruction message for a mutation request.
func BuildSystemMessage() string {
	return systemPrompt
}

// BuildUserMessage assembles the user-turn prompt. The snapshot is
// serialized as JSON so the model can reference tasks by id.
func BuildUserMessage(now time.Time, command string, snapshot []board.TaskSummary) (string, error) {
	if snapshot == nil {
		snapshot = []board.TaskSummary{}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize task snapshot: %w", err)
	}

	return fmt.Sprintf(userPromptFormat, now.Format(time.RFC3339), string(data), command), nil
}
