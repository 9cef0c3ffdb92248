package diff

import (
	"encoding/json"
	"reflect"
	"testing"
)

// decode is a test helper turning a JSON literal into the loosely
// typed structure the extractor hands to the sanitizer.
func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return v
}

func TestSanitizeNilPayload(t *testing.T) {
	d := Sanitize(nil, "You currently have 4 tasks, 1 overdue.")

	if d.HasActions() {
		t.Error("expected no actions for nil payload")
	}
	if d.Summary != "You currently have 4 tasks, 1 overdue." {
		t.Errorf("summary = %q", d.Summary)
	}
}

func TestSanitizeNonObjectPayload(t *testing.T) {
	d := Sanitize(decode(t, `["not","an","object"]`), "prose")

	if d.HasActions() {
		t.Error("expected no actions for array payload")
	}
	if d.Summary != "prose" {
		t.Errorf("summary = %q", d.Summary)
	}
}

func TestSanitizeValidAdded(t *testing.T) {
	raw := decode(t, `{
		"added": [{"title": "Ship release", "status": "To Do", "priority": "High", "tags": ["work"]}],
		"summary": "Added one task."
	}`)

	d := Sanitize(raw, "")
	if len(d.Added) != 1 {
		t.Fatalf("added = %d, want 1", len(d.Added))
	}
	got := d.Added[0]
	if got.Title != "Ship release" || got.Status != "To Do" || got.Priority != "High" {
		t.Errorf("unexpected draft: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"work"}) {
		t.Errorf("tags = %v", got.Tags)
	}
	if d.Summary != "Added one task." {
		t.Errorf("summary = %q", d.Summary)
	}
}

func TestSanitizeDropsOnlyMalformedAdded(t *testing.T) {
	// Exactly one of three entries is missing a title; the other two
	// must survive.
	raw := decode(t, `{
		"added": [
			{"title": "keep one"},
			{"status": "Done"},
			{"title": "keep two"}
		]
	}`)

	d := Sanitize(raw, "")
	if len(d.Added) != 2 {
		t.Fatalf("added = %d, want 2", len(d.Added))
	}
	if d.Added[0].Title != "keep one" || d.Added[1].Title != "keep two" {
		t.Errorf("wrong survivors: %+v", d.Added)
	}
}

func TestSanitizeWhitespaceTitleDropped(t *testing.T) {
	raw := decode(t, `{"added": [{"title": "   "}]}`)

	d := Sanitize(raw, "")
	if len(d.Added) != 0 {
		t.Errorf("added = %d, want 0", len(d.Added))
	}
}

func TestSanitizeUpdatedRequiresID(t *testing.T) {
	// Scenario: an update without an id is unactionable even though
	// the summary is present.
	raw := decode(t, `{"updated": [{"status": "Done"}], "summary": "Done."}`)

	d := Sanitize(raw, "")
	if len(d.Updated) != 0 {
		t.Fatalf("updated = %d, want 0", len(d.Updated))
	}
	if d.HasActions() {
		t.Error("expected no actions")
	}
	if d.Summary != "Done." {
		t.Errorf("summary = %q", d.Summary)
	}
}

func TestSanitizePatchKeepsOnlyPresentFields(t *testing.T) {
	raw := decode(t, `{"updated": [{"id": "t1", "status": "Done"}]}`)

	d := Sanitize(raw, "")
	if len(d.Updated) != 1 {
		t.Fatalf("updated = %d, want 1", len(d.Updated))
	}
	p := d.Updated[0]
	if p.Status == nil || *p.Status != "Done" {
		t.Errorf("status = %v", p.Status)
	}
	if p.Title != nil || p.Priority != nil || p.DueDate != nil || p.Tags != nil {
		t.Errorf("absent fields should stay nil: %+v", p)
	}
}

func TestSanitizeDeletedIDs(t *testing.T) {
	raw := decode(t, `{"deletedIds": ["t1", "", "t1", "t2", 7], "summary": "Cleaned up."}`)

	d := Sanitize(raw, "")
	want := []string{"t1", "t2"}
	if !reflect.DeepEqual(d.DeletedIDs, want) {
		t.Errorf("deletedIds = %v, want %v", d.DeletedIDs, want)
	}
}

func TestSanitizeMixedValidAndMalformedFields(t *testing.T) {
	// A malformed updated list must not take the valid added list
	// down with it.
	raw := decode(t, `{
		"added": [{"title": "survives"}],
		"updated": "totally wrong shape",
		"deletedIds": {"also": "wrong"}
	}`)

	d := Sanitize(raw, "")
	if len(d.Added) != 1 {
		t.Errorf("added = %d, want 1", len(d.Added))
	}
	if len(d.Updated) != 0 || len(d.DeletedIDs) != 0 {
		t.Errorf("expected malformed fields to sanitize empty: %+v", d)
	}
}

func TestSanitizeSummaryFallbackChain(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		remainder string
		want      string
	}{
		{"model summary wins", `{"summary": "from model"}`, "prose", "from model"},
		{"whitespace summary falls through", `{"summary": "  "}`, "prose", "prose"},
		{"remainder fallback", `{}`, "leftover prose", "leftover prose"},
		{"generic fallback", `{}`, "   ", fallbackSummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Sanitize(decode(t, tt.payload), tt.remainder)
			if d.Summary != tt.want {
				t.Errorf("summary = %q, want %q", d.Summary, tt.want)
			}
		})
	}
}

func TestHasActions(t *testing.T) {
	var d TaskDiff
	if d.HasActions() {
		t.Error("zero diff should have no actions")
	}

	d.DeletedIDs = []string{"t1"}
	if !d.HasActions() {
		t.Error("diff with a deletion should have actions")
	}
}
