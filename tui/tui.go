package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kanbot/board"
	"kanbot/config"
	"kanbot/convo"
	"kanbot/events"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2F6FED")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	messageStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	proposalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#F2A541")).
			Padding(1, 2)

	boardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#A550DF")).
			Padding(1, 2)
)

type viewMode int

const (
	viewChat viewMode = iota
	viewBoard
)

// responseMsg carries the conversation's reply to a submitted command.
type responseMsg struct {
	message *convo.Message
}

// resolvedMsg reports the outcome of a confirm or cancel action.
type resolvedMsg struct {
	err error
}

// refreshMsg asks the view to redraw after a background event.
type refreshMsg struct{}

// TaskLister is the read surface the board view needs; the TUI never
// mutates the board directly.
type TaskLister interface {
	Tasks() []board.Task
}

type model struct {
	conversation *convo.Conversation
	store        TaskLister
	cfg          *config.Config

	input       string
	busy        bool
	status      string
	currentView viewMode
	width       int
	height      int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case responseMsg:
		m.busy = false
		m.status = ""
		return m, nil

	case resolvedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}
		return m, nil

	case refreshMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.currentView == viewChat {
			m.currentView = viewBoard
		} else {
			m.currentView = viewChat
		}
		return m, nil
	}

	if m.currentView != viewChat {
		return m, nil
	}

	// Input is disabled while a request is in flight.
	if m.busy {
		return m, nil
	}

	// A pending proposal grabs y/n before normal input.
	if pending := m.conversation.PendingProposal(); pending != nil && m.input == "" {
		switch msg.String() {
		case "y":
			m.busy = true
			m.status = "Applying..."
			return m, confirmCmd(m.conversation, pending.ID)
		case "n":
			m.busy = true
			return m, cancelCmd(m.conversation, pending.ID)
		}
	}

	switch msg.String() {
	case "enter":
		command := strings.TrimSpace(m.input)
		if command == "" {
			return m, nil
		}
		m.input = ""
		m.busy = true
		m.status = "Thinking..."
		return m, submitCmd(m.conversation, command)
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case "esc":
		m.input = ""
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.input += " "
		}
	}

	return m, nil
}

func (m model) View() string {
	title := titleStyle.Render("Kanbot - AI Task Board Assistant")
	info := infoStyle.Render(fmt.Sprintf("Model: %s | Tasks: %d", m.cfg.Model, len(m.store.Tasks())))

	var mainContent string
	if m.currentView == viewChat {
		mainContent = m.renderChat()
	} else {
		mainContent = boardStyle.Render(m.renderBoard())
	}

	helpText := "Tab to switch view | Ctrl+C to quit"
	if m.currentView == viewChat {
		if m.busy {
			helpText = "Waiting for response... | Ctrl+C to quit"
		} else if m.conversation.PendingProposal() != nil {
			helpText = "y to confirm, n to cancel | Tab to switch view | Ctrl+C to quit"
		}
	}
	help := infoStyle.Render(helpText)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		info,
		"",
		mainContent,
		"",
		help,
	)
}

func (m model) renderChat() string {
	var lines []string
	for _, msg := range m.conversation.Messages() {
		lines = append(lines, renderMessage(msg))
	}

	chatText := strings.Join(lines, "\n")
	if chatText == "" {
		chatText = "Tell me what to do with your board.\nTry: \"add a task to ship the release, high priority\""
	}

	parts := []string{messageStyle.Render(chatText)}

	if pending := m.conversation.PendingProposal(); pending != nil {
		preview := fmt.Sprintf("Proposed changes:\n%s\n\nApply? (y/n)", pending.Proposal.Preview())
		parts = append(parts, proposalStyle.Render(preview))
	}

	inputLine := m.input
	if m.busy {
		inputLine = m.status
	}
	parts = append(parts, inputStyle.Render(fmt.Sprintf("> %s", inputLine)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderMessage(msg *convo.Message) string {
	switch msg.Role {
	case convo.RoleUser:
		return fmt.Sprintf("You: %s", msg.Content)
	case convo.RoleAI:
		label := "Kanbot"
		if msg.Type == convo.TypeProposal {
			state := msg.Proposal.CurrentState()
			return fmt.Sprintf("%s [%s]: %s", label, state, msg.Content)
		}
		return fmt.Sprintf("%s: %s", label, msg.Content)
	default:
		return fmt.Sprintf("* %s", msg.Content)
	}
}

func (m model) renderBoard() string {
	tasks := m.store.Tasks()
	if len(tasks) == 0 {
		return "The board is empty."
	}

	// Group by status, preserving creation order within each group.
	groups := make(map[string][]board.Task)
	var order []string
	for _, t := range tasks {
		status := t.Status
		if status == "" {
			status = "No Status"
		}
		if _, seen := groups[status]; !seen {
			order = append(order, status)
		}
		groups[status] = append(groups[status], t)
	}

	var lines []string
	for _, status := range order {
		lines = append(lines, fmt.Sprintf("%s:", status))
		for _, t := range groups[status] {
			line := fmt.Sprintf("  • %s", t.Title)
			if t.Priority != "" {
				line += fmt.Sprintf(" (%s)", t.Priority)
			}
			if t.DueDate != "" {
				line += fmt.Sprintf(" due %s", t.DueDate)
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func submitCmd(c *convo.Conversation, command string) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.Submit(context.Background(), command)
		if err != nil {
			// ErrBusy cannot happen here because the UI disables input,
			// but the core guard holds regardless.
			return resolvedMsg{err: err}
		}
		return responseMsg{message: msg}
	}
}

func confirmCmd(c *convo.Conversation, messageID int64) tea.Cmd {
	return func() tea.Msg {
		return resolvedMsg{err: c.Confirm(context.Background(), messageID)}
	}
}

func cancelCmd(c *convo.Conversation, messageID int64) tea.Cmd {
	return func() tea.Msg {
		return resolvedMsg{err: c.Cancel(messageID)}
	}
}

// StartTUI initializes and starts the terminal interface.
func StartTUI(conversation *convo.Conversation, store TaskLister, cfg *config.Config, bus *events.Bus) error {
	m := model{
		conversation: conversation,
		store:        store,
		cfg:          cfg,
		currentView:  viewChat,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if bus != nil {
		redraw := func(events.Event) { p.Send(refreshMsg{}) }
		bus.Subscribe(events.BoardChanged, redraw)
		bus.Subscribe(events.ProposalConfirmed, redraw)
		bus.Subscribe(events.ProposalCancelled, redraw)
	}

	_, err := p.Run()
	return err
}
