// Package convo holds the conversation log and the proposal lifecycle:
// the state machine that shows a frozen diff to the user and only lets
// it reach the board after an explicit confirmation.
package convo

import (
	"time"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// MessageType distinguishes plain text, a mutation proposal awaiting
// confirmation, and an apply summary.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeProposal MessageType = "proposal"
	TypeSummary  MessageType = "summary"
)

// Message is one turn in the conversation. Messages are append-only;
// the only mutation ever made after creation is the owning proposal's
// single terminal transition.
type Message struct {
	ID        int64       `json:"id"`
	Role      Role        `json:"role"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Proposal  *Proposal   `json:"proposal,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
