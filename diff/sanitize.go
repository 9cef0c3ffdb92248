package diff

import "strings"

// fallbackSummary is used when the model supplied neither a summary
// field nor any surrounding prose.
const fallbackSummary = "Done. Anything else?"

// Sanitize turns the loosely-typed payload from the extractor into a
// strict TaskDiff. It never fails: malformed entries are model noise
// and are dropped per-entry, so one bad update cannot sink a diff that
// also carries valid additions. A nil or non-object payload degrades
// to a pure conversational diff built from the remainder prose.
func Sanitize(raw interface{}, remainder string) TaskDiff {
	d := TaskDiff{
		Added:      []TaskDraft{},
		Updated:    []TaskPatch{},
		DeletedIDs: []string{},
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		d.Summary = pickSummary("", remainder)
		return d
	}

	if entries, ok := obj["added"].([]interface{}); ok {
		for _, e := range entries {
			if draft, ok := sanitizeDraft(e); ok {
				d.Added = append(d.Added, draft)
			}
		}
	}

	if entries, ok := obj["updated"].([]interface{}); ok {
		for _, e := range entries {
			if patch, ok := sanitizePatch(e); ok {
				d.Updated = append(d.Updated, patch)
			}
		}
	}

	if entries, ok := obj["deletedIds"].([]interface{}); ok {
		seen := make(map[string]bool)
		for _, e := range entries {
			id, ok := e.(string)
			if !ok {
				continue
			}
			id = strings.TrimSpace(id)
			// Duplicates are collapsed; the first occurrence wins.
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			d.DeletedIDs = append(d.DeletedIDs, id)
		}
	}

	summary, _ := obj["summary"].(string)
	d.Summary = pickSummary(summary, remainder)

	return d
}

// sanitizeDraft validates one added entry. A draft without a
// non-empty title is dropped.
func sanitizeDraft(e interface{}) (TaskDraft, bool) {
	entry, ok := e.(map[string]interface{})
	if !ok {
		return TaskDraft{}, false
	}

	title := strings.TrimSpace(stringField(entry, "title"))
	if title == "" {
		return TaskDraft{}, false
	}

	return TaskDraft{
		Title:        title,
		Description:  stringField(entry, "description"),
		Status:       stringField(entry, "status"),
		Priority:     stringField(entry, "priority"),
		DueDate:      stringField(entry, "dueDate"),
		Tags:         stringSliceField(entry, "tags"),
		TimeEstimate: stringField(entry, "timeEstimate"),
		GoalID:       stringField(entry, "goalId"),
		Subtasks:     stringSliceField(entry, "subtasks"),
	}, true
}

// sanitizePatch validates one updated entry. A patch without a
// non-empty id references nothing and is dropped; of the remaining
// fields only those actually present in the payload are kept.
func sanitizePatch(e interface{}) (TaskPatch, bool) {
	entry, ok := e.(map[string]interface{})
	if !ok {
		return TaskPatch{}, false
	}

	id := strings.TrimSpace(stringField(entry, "id"))
	if id == "" {
		return TaskPatch{}, false
	}

	patch := TaskPatch{ID: id}
	patch.Title = optStringField(entry, "title")
	patch.Description = optStringField(entry, "description")
	patch.Status = optStringField(entry, "status")
	patch.Priority = optStringField(entry, "priority")
	patch.DueDate = optStringField(entry, "dueDate")
	patch.TimeEstimate = optStringField(entry, "timeEstimate")
	patch.GoalID = optStringField(entry, "goalId")
	if _, present := entry["tags"]; present {
		tags := stringSliceField(entry, "tags")
		patch.Tags = &tags
	}

	return patch, true
}

// pickSummary applies the summary fallback chain: the model's own
// summary, then the leftover prose, then a generic acknowledgement.
func pickSummary(summary, remainder string) string {
	if s := strings.TrimSpace(summary); s != "" {
		return s
	}
	if r := strings.TrimSpace(remainder); r != "" {
		return r
	}
	return fallbackSummary
}

func stringField(entry map[string]interface{}, key string) string {
	s, _ := entry[key].(string)
	return s
}

func optStringField(entry map[string]interface{}, key string) *string {
	if s, ok := entry[key].(string); ok {
		return &s
	}
	return nil
}

func stringSliceField(entry map[string]interface{}, key string) []string {
	raw, ok := entry[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
