// Package diff defines the structured set of board mutations proposed
// by a single model turn, plus the sanitizer that derives it from the
// untrusted payload the extractor recovered.
package diff

// TaskDraft describes a task the model proposes to create. Only Title
// is required; everything else is optional.
type TaskDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Status       string   `json:"status,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	DueDate      string   `json:"dueDate,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	TimeEstimate string   `json:"timeEstimate,omitempty"`
	GoalID       string   `json:"goalId,omitempty"`
	Subtasks     []string `json:"subtasks,omitempty"`
}

// TaskPatch describes a partial update to an existing task. ID is
// required; only fields the model actually sent are applied, so
// optional fields are pointers to distinguish absent from empty.
type TaskPatch struct {
	ID           string    `json:"id"`
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	DueDate      *string   `json:"dueDate,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	TimeEstimate *string   `json:"timeEstimate,omitempty"`
	GoalID       *string   `json:"goalId,omitempty"`
}

// TaskDiff is the unit of proposed mutation. A diff with no added,
// updated, or deleted entries is a pure conversational answer and must
// never reach the board's apply step.
type TaskDiff struct {
	Added      []TaskDraft `json:"added"`
	Updated    []TaskPatch `json:"updated"`
	DeletedIDs []string    `json:"deletedIds"`
	Summary    string      `json:"summary"`
}

// HasActions reports whether the diff carries any actual mutation.
// This is the gate between "render a proposal" and "render plain text".
func (d TaskDiff) HasActions() bool {
	return len(d.Added) > 0 || len(d.Updated) > 0 || len(d.DeletedIDs) > 0
}

// ActionCount returns the total number of mutations in the diff.
func (d TaskDiff) ActionCount() int {
	return len(d.Added) + len(d.Updated) + len(d.DeletedIDs)
}

// Clone returns a deep copy of the diff. A proposal freezes its diff
// at creation; cloning keeps later mutations of the source slices from
// rewriting what the user already previewed.
func (d TaskDiff) Clone() TaskDiff {
	out := TaskDiff{Summary: d.Summary}

	if d.Added != nil {
		out.Added = make([]TaskDraft, len(d.Added))
		for i, a := range d.Added {
			out.Added[i] = a
			out.Added[i].Tags = cloneStrings(a.Tags)
			out.Added[i].Subtasks = cloneStrings(a.Subtasks)
		}
	}

	if d.Updated != nil {
		out.Updated = make([]TaskPatch, len(d.Updated))
		for i, p := range d.Updated {
			out.Updated[i] = TaskPatch{
				ID:           p.ID,
				Title:        cloneStringPtr(p.Title),
				Description:  cloneStringPtr(p.Description),
				Status:       cloneStringPtr(p.Status),
				Priority:     cloneStringPtr(p.Priority),
				DueDate:      cloneStringPtr(p.DueDate),
				TimeEstimate: cloneStringPtr(p.TimeEstimate),
				GoalID:       cloneStringPtr(p.GoalID),
			}
			if p.Tags != nil {
				tags := cloneStrings(*p.Tags)
				out.Updated[i].Tags = &tags
			}
		}
	}

	if d.DeletedIDs != nil {
		out.DeletedIDs = cloneStrings(d.DeletedIDs)
	}

	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
