package convo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"kanbot/board"
	"kanbot/diff"
	"kanbot/events"
)

// ErrBusy is returned when a command is submitted while a mutation
// request is still in flight. The single-flight rule lives here, in
// the core, so the invariant holds even if a UI race slips a second
// submit through.
var ErrBusy = errors.New("a request is already in flight")

// ErrNoProposal is returned when confirm or cancel targets a message
// that does not carry a proposal.
var ErrNoProposal = errors.New("message has no proposal")

// Requester produces a sanitized diff for a user command. Satisfied by
// mutation.Service.
type Requester interface {
	RequestMutation(ctx context.Context, command string, snapshot []board.TaskSummary) (diff.TaskDiff, error)
}

// Conversation owns the ordered message log and orchestrates the
// command -> proposal -> confirm/cancel flow. Exactly one user message
// and exactly one ai (or system error) message are appended per
// submitted command.
type Conversation struct {
	mu          sync.Mutex
	messages    []*Message
	nextID      int64
	inFlight    bool
	maxMessages int

	service Requester
	store   board.Store
	history *History
	bus     *events.Bus
}

// New creates a conversation over a mutation service and a board store.
func New(service Requester, store board.Store) *Conversation {
	return &Conversation{
		service: service,
		store:   store,
		nextID:  1,
	}
}

// SetHistory attaches a JSONL history writer. Replayed messages from a
// previous session are loaded into the log.
func (c *Conversation) SetHistory(h *History) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	restored, err := h.Load()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	for _, msg := range restored {
		m := msg
		c.messages = append(c.messages, &m)
		if m.ID >= c.nextID {
			c.nextID = m.ID + 1
		}
	}
	c.trimLocked()

	c.history = h
	return nil
}

// SetMaxMessages bounds the in-memory log to the given number of
// messages; the oldest are dropped first. Zero or negative means
// unbounded. The history file keeps everything regardless.
func (c *Conversation) SetMaxMessages(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxMessages = n
	c.trimLocked()
}

// SetBus attaches an event bus for UI notifications.
func (c *Conversation) SetBus(bus *events.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bus = bus
}

// Messages returns a copy of the message log in creation order.
func (c *Conversation) Messages() []*Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Busy reports whether a mutation request is currently outstanding.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Submit runs one user command through the full pipeline. While the
// request is outstanding further submits fail with ErrBusy. A
// transport failure is not returned as an error: it becomes a
// system-role message so the conversation stays usable. The returned
// message is the ai (or system) response.
func (c *Conversation) Submit(ctx context.Context, command string) (*Message, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.inFlight = true

	c.appendLocked(RoleUser, TypeText, command, nil)

	// A new command supersedes any proposal still awaiting a decision;
	// its preview was frozen against a snapshot the user is now moving
	// past, so it must not stay appliable.
	superseded := c.cancelPendingLocked()
	c.mu.Unlock()

	for range superseded {
		c.emit(events.ProposalCancelled, nil)
	}
	c.emit(events.RequestStarted, command)

	snapshot := c.store.Snapshot()
	d, err := c.service.RequestMutation(ctx, command, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		log.Warn("mutation request failed", "err", err)
		msg := c.appendLocked(RoleSystem, TypeText, fmt.Sprintf("Request failed: %v", err), nil)
		c.emitLocked(events.RequestFailed, msg)
		return msg, nil
	}

	if !d.HasActions() {
		// Pure conversational answer: no proposal, plain text.
		msg := c.appendLocked(RoleAI, TypeText, d.Summary, nil)
		c.emitLocked(events.MessageAppended, msg)
		return msg, nil
	}

	msg := c.appendLocked(RoleAI, TypeProposal, d.Summary, NewProposal(d))
	c.emitLocked(events.ProposalCreated, msg)
	return msg, nil
}

// Confirm applies the proposal carried by the given message. The diff
// applied is exactly the one previewed. On apply failure the proposal
// stays pending and the error is returned so the user may retry.
func (c *Conversation) Confirm(ctx context.Context, messageID int64) error {
	msg, err := c.proposalMessage(messageID)
	if err != nil {
		return err
	}

	applied, err := msg.Proposal.Confirm(ctx, c.store)
	if err != nil {
		c.emit(events.ProposalFailed, msg)
		return err
	}
	if !applied {
		return nil
	}

	d := msg.Proposal.Diff
	summary := fmt.Sprintf("Applied %d change(s) to the board.", d.ActionCount())

	c.mu.Lock()
	c.recordStateLocked(msg)
	ack := c.appendLocked(RoleSystem, TypeSummary, summary, nil)
	c.mu.Unlock()

	c.emit(events.ProposalConfirmed, msg)
	c.emit(events.BoardChanged, nil)
	c.emit(events.MessageAppended, ack)
	return nil
}

// Cancel marks the proposal cancelled and appends an acknowledgement.
// Cancelling a terminal proposal is a no-op.
func (c *Conversation) Cancel(messageID int64) error {
	msg, err := c.proposalMessage(messageID)
	if err != nil {
		return err
	}

	if !msg.Proposal.Cancel() {
		return nil
	}

	c.mu.Lock()
	c.recordStateLocked(msg)
	ack := c.appendLocked(RoleSystem, TypeText, "Proposal cancelled. No changes were made.", nil)
	c.mu.Unlock()

	c.emit(events.ProposalCancelled, msg)
	c.emit(events.MessageAppended, ack)
	return nil
}

// PendingProposal returns the most recent message whose proposal is
// still awaiting a decision, or nil.
func (c *Conversation) PendingProposal() *Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if m.Proposal != nil && m.Proposal.CurrentState() == ProposalPending {
			return m
		}
	}
	return nil
}

// appendLocked creates and stores the next message. Caller holds c.mu.
func (c *Conversation) appendLocked(role Role, msgType MessageType, content string, proposal *Proposal) *Message {
	msg := &Message{
		ID:        c.nextID,
		Role:      role,
		Type:      msgType,
		Content:   content,
		Proposal:  proposal,
		Timestamp: time.Now(),
	}
	c.nextID++
	c.messages = append(c.messages, msg)
	c.trimLocked()

	if c.history != nil {
		if err := c.history.Append(msg); err != nil {
			log.Warn("failed to persist message", "err", err)
		}
	}

	return msg
}

// trimLocked drops the oldest messages beyond the configured cap. A
// message carrying a still-pending proposal stops the trim: forgetting
// it would strand a decision the user has not made yet. Caller holds
// c.mu.
func (c *Conversation) trimLocked() {
	if c.maxMessages <= 0 {
		return
	}
	for len(c.messages) > c.maxMessages {
		head := c.messages[0]
		if head.Proposal != nil && head.Proposal.CurrentState() == ProposalPending {
			return
		}
		c.messages = c.messages[1:]
	}
}

// cancelPendingLocked cancels every still-pending proposal and returns
// the affected messages. Caller holds c.mu.
func (c *Conversation) cancelPendingLocked() []*Message {
	var cancelled []*Message
	for _, m := range c.messages {
		if m.Proposal != nil && m.Proposal.Cancel() {
			cancelled = append(cancelled, m)
			c.recordStateLocked(m)
			c.appendLocked(RoleSystem, TypeText,
				fmt.Sprintf("Proposal #%d was superseded by a new command and has been cancelled.", m.ID), nil)
		}
	}
	return cancelled
}

// recordStateLocked persists a proposal's terminal state. Caller holds c.mu.
func (c *Conversation) recordStateLocked(m *Message) {
	if c.history == nil || m.Proposal == nil {
		return
	}
	if err := c.history.RecordState(m.ID, m.Proposal.CurrentState()); err != nil {
		log.Warn("failed to persist proposal state", "err", err)
	}
}

func (c *Conversation) proposalMessage(messageID int64) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, m := range c.messages {
		if m.ID == messageID {
			if m.Proposal == nil {
				return nil, ErrNoProposal
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("message %d not found", messageID)
}

func (c *Conversation) emit(t events.Type, data interface{}) {
	c.mu.Lock()
	bus := c.bus
	c.mu.Unlock()
	if bus != nil {
		bus.Emit(t, data)
	}
}

// emitLocked emits while the caller already holds c.mu.
func (c *Conversation) emitLocked(t events.Type, data interface{}) {
	if c.bus != nil {
		c.bus.Emit(t, data)
	}
}
