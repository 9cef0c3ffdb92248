// Package events provides event-driven decoupling between the
// conversation core and the presentation layer.
package events

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Type defines the types of events that can be emitted
type Type string

const (
	// Conversation events
	MessageAppended Type = "convo:message_appended"
	RequestStarted  Type = "convo:request_started"
	RequestFailed   Type = "convo:request_failed"

	// Proposal events
	ProposalCreated   Type = "proposal:created"
	ProposalConfirmed Type = "proposal:confirmed"
	ProposalCancelled Type = "proposal:cancelled"
	ProposalFailed    Type = "proposal:apply_failed"

	// Board events
	BoardChanged Type = "board:changed"
)

// Event represents an event in the system
type Event struct {
	Type      Type        `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Handler is a function that handles events
type Handler func(event Event)

// Bus provides publish/subscribe communication between components
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds an event handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Unsubscribe removes all handlers for a specific event type
func (b *Bus) Unsubscribe(eventType Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, eventType)
}

// Emit publishes an event to all registered handlers. Handlers run in
// goroutines so a slow subscriber cannot block the conversation flow.
func (b *Bus) Emit(eventType Type, data interface{}) {
	b.mu.RLock()
	handlers := b.handlers[eventType]
	b.mu.RUnlock()

	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("event handler panic", "type", eventType, "panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
