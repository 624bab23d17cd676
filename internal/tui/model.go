// Package tui implements the interactive chat terminal client.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// ChatPort is the TUI-facing subset of the question-answering pipeline.
type ChatPort interface {
	Ask(ctx context.Context, q domain.Query) (domain.TurnResult, error)
}

// answerMsg carries the result of an asynchronous question.
type answerMsg struct {
	result domain.TurnResult
	err    error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	service   ChatPort
	sessionID string
	indexName string
	input     textinput.Model
	viewport  viewport.Model
	turns     []domain.Turn
	status    string
	waiting   bool
	ready     bool
}

// New creates a chat model bound to one session and one index.
func New(service ChatPort, sessionID, indexName string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:   service,
		sessionID: sessionID,
		indexName: indexName,
		input:     ti,
		viewport:  vp,
		status:    fmt.Sprintf("Chatting against index %q. Ctrl+C to quit.", indexName),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.input.Reset()
			m.turns = append(m.turns, domain.Turn{Role: domain.RoleUser, Content: q})
			m.waiting = true
			m.status = "Thinking..."
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.ask(q)
		}
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.turns = append(m.turns, domain.Turn{Role: domain.RoleAssistant, Content: msg.result.Answer})
		if msg.result.PersistErr != nil {
			m.status = "Answered, but saving the conversation failed: " + msg.result.PersistErr.Error()
		} else {
			m.status = fmt.Sprintf("Understood as %q", msg.result.RewrittenQuery)
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs one pipeline turn off the UI goroutine.
func (m Model) ask(query string) tea.Cmd {
	svc, id, index := m.service, m.sessionID, m.indexName
	return func() tea.Msg {
		res, err := svc.Ask(context.Background(), domain.Query{
			SessionID: id,
			Text:      query,
			IndexName: index,
		})
		return answerMsg{result: res, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No messages yet. Ask something about the document."
	}
	lines := make([]string, 0, len(m.turns))
	for _, t := range m.turns {
		switch t.Role {
		case domain.RoleUser:
			lines = append(lines, userStyle.Render("You: ")+t.Content)
		default:
			lines = append(lines, assistantStyle.Render("Bot: ")+t.Content)
		}
	}
	return strings.Join(lines, "\n\n")
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
