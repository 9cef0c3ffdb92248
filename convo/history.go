package convo

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// History persists the conversation as an append-only JSONL file under
// <baseDir>/history/. Messages are written once at creation; a
// proposal's terminal transition is recorded as a separate audit line
// so a reloaded session shows the proposal in its final state instead
// of resurrecting it as pending.
type History struct {
	file string
}

// stateAudit records a proposal's terminal transition.
type stateAudit struct {
	MessageID int64         `json:"messageId"`
	State     ProposalState `json:"state"`
	Timestamp time.Time     `json:"timestamp"`
}

// historyLine is the union of the two line kinds in the JSONL file.
type historyLine struct {
	Audit *stateAudit `json:"audit,omitempty"`
	Message
}

// NewHistory starts a fresh session file named by the current timestamp.
func NewHistory(baseDir string) *History {
	timestamp := time.Now().Format("2006-01-02-1504")
	return &History{
		file: filepath.Join(baseDir, "history", fmt.Sprintf("%s.jsonl", timestamp)),
	}
}

// LoadLatestHistory opens the most recent session file, or starts a
// new session when none exists.
func LoadLatestHistory(baseDir string) (*History, error) {
	historyDir := filepath.Join(baseDir, "history")

	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	files, err := os.ReadDir(historyDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var latest string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".jsonl") {
			if latest == "" || file.Name() > latest {
				latest = file.Name()
			}
		}
	}

	if latest == "" {
		return NewHistory(baseDir), nil
	}

	return &History{file: filepath.Join(historyDir, latest)}, nil
}

// ListSessions returns available session IDs, newest first.
func ListSessions(baseDir string) ([]string, error) {
	historyDir := filepath.Join(baseDir, "history")

	files, err := os.ReadDir(historyDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var sessions []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".jsonl") {
			sessions = append(sessions, strings.TrimSuffix(file.Name(), ".jsonl"))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(sessions)))
	return sessions, nil
}

// Append writes one message to the session file.
func (h *History) Append(msg *Message) error {
	return h.writeLine(historyLine{Message: *msg})
}

// RecordState appends an audit line for a proposal's terminal transition.
func (h *History) RecordState(messageID int64, state ProposalState) error {
	return h.writeLine(historyLine{
		Audit: &stateAudit{MessageID: messageID, State: state, Timestamp: time.Now()},
	})
}

// Load replays the session file into an ordered message list with
// proposal states reconciled. Invalid lines are skipped.
func (h *History) Load() ([]Message, error) {
	file, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var messages []Message
	byID := make(map[int64]int)

	scanner := bufio.NewScanner(file)
	// A single long model summary can exceed bufio's default 64KB line
	// limit and would fail the whole load.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry historyLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		if entry.Audit != nil {
			if idx, ok := byID[entry.Audit.MessageID]; ok {
				if p := messages[idx].Proposal; p != nil && p.State == ProposalPending {
					p.State = entry.Audit.State
				}
			}
			continue
		}

		if entry.ID == 0 || entry.Role == "" {
			continue
		}

		byID[entry.ID] = len(messages)
		messages = append(messages, entry.Message)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	return messages, nil
}

func (h *History) writeLine(entry historyLine) error {
	dir := filepath.Dir(h.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	file, err := os.OpenFile(h.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	_, err = file.Write(append(data, '\n'))
	return err
}
