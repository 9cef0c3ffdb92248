package convo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"kanbot/board"
	"kanbot/diff"
)

// ProposalState tags the lifecycle position of a proposal. Pending is
// the only non-terminal state; once confirmed or cancelled a proposal
// never transitions again.
type ProposalState string

const (
	ProposalPending   ProposalState = "pending"
	ProposalConfirmed ProposalState = "confirmed"
	ProposalCancelled ProposalState = "cancelled"
)

// Proposal pairs a frozen TaskDiff with its lifecycle state. The diff
// is fixed at creation: what the user previews is exactly what Confirm
// hands to the board, regardless of what happened to the board in the
// meantime. All transitions go through Confirm and Cancel, which
// refuse to leave a terminal state.
type Proposal struct {
	mu       sync.Mutex
	applying bool

	Diff  diff.TaskDiff `json:"diff"`
	State ProposalState `json:"state"`
}

// NewProposal wraps a diff in a pending proposal. The diff is deep
// copied so the preview stays frozen even if the source is mutated.
func NewProposal(d diff.TaskDiff) *Proposal {
	return &Proposal{Diff: d.Clone(), State: ProposalPending}
}

// CurrentState returns the proposal's lifecycle state.
func (p *Proposal) CurrentState() ProposalState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State
}

// Confirm applies the frozen diff through the store. Confirming a
// terminal or already-applying proposal is a no-op; the returned bool
// reports whether this call performed the transition, so a caller that
// lost the race cannot mistake the refusal for a fresh apply. On apply
// failure the proposal stays pending so the user can retry or cancel.
func (p *Proposal) Confirm(ctx context.Context, store board.Store) (bool, error) {
	p.mu.Lock()
	if p.State != ProposalPending || p.applying {
		p.mu.Unlock()
		return false, nil
	}
	p.applying = true
	frozen := p.Diff
	p.mu.Unlock()

	err := store.ApplyDiff(ctx, frozen)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.applying = false

	if err != nil {
		return false, fmt.Errorf("failed to apply proposal: %w", err)
	}

	p.State = ProposalConfirmed
	return true, nil
}

// Cancel marks a pending proposal cancelled. It is synchronous, always
// succeeds, and is a no-op on terminal or currently-applying proposals.
// It reports whether the state actually changed.
func (p *Proposal) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State != ProposalPending || p.applying {
		return false
	}
	p.State = ProposalCancelled
	return true
}

// Preview renders the diff as a short plain-text listing of the
// mutations awaiting confirmation.
func (p *Proposal) Preview() string {
	p.mu.Lock()
	d := p.Diff
	p.mu.Unlock()

	var b strings.Builder

	for _, draft := range d.Added {
		b.WriteString(fmt.Sprintf("  + %s", draft.Title))
		if draft.Status != "" {
			b.WriteString(fmt.Sprintf(" [%s]", draft.Status))
		}
		if draft.Priority != "" {
			b.WriteString(fmt.Sprintf(" (%s)", draft.Priority))
		}
		b.WriteString("\n")
	}

	for _, patch := range d.Updated {
		b.WriteString(fmt.Sprintf("  ~ %s:%s\n", patch.ID, describePatch(patch)))
	}

	for _, id := range d.DeletedIDs {
		b.WriteString(fmt.Sprintf("  - %s\n", id))
	}

	return strings.TrimRight(b.String(), "\n")
}

func describePatch(p diff.TaskPatch) string {
	var parts []string
	if p.Title != nil {
		parts = append(parts, fmt.Sprintf(" title=%q", *p.Title))
	}
	if p.Status != nil {
		parts = append(parts, fmt.Sprintf(" status=%q", *p.Status))
	}
	if p.Priority != nil {
		parts = append(parts, fmt.Sprintf(" priority=%q", *p.Priority))
	}
	if p.DueDate != nil {
		parts = append(parts, fmt.Sprintf(" due=%q", *p.DueDate))
	}
	if p.Description != nil {
		parts = append(parts, " description")
	}
	if p.Tags != nil {
		parts = append(parts, fmt.Sprintf(" tags=%v", *p.Tags))
	}
	if p.TimeEstimate != nil {
		parts = append(parts, fmt.Sprintf(" estimate=%q", *p.TimeEstimate))
	}
	if p.GoalID != nil {
		parts = append(parts, fmt.Sprintf(" goal=%q", *p.GoalID))
	}
	if len(parts) == 0 {
		return " (no changes)"
	}
	return strings.Join(parts, ",")
}
