package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// interactive chat screen backed by the streaming webSocket endpoint
type ChatModel struct {
	input           textinput.Model
	viewport        viewport.Model
	spinner         spinner.Model
	glamourRenderer *glamour.TermRenderer

	width  int
	height int
	ready  bool

	api *APIClient
	ws  *WSClient

	sessionID   string
	suggestions []string
	history     []ChatMessage

	streaming bool
	phase     string
	pending   strings.Builder
}

// returns a new chat screen
func NewChatModel(api *APIClient, ws *WSClient) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "ask about your resume or a job posting..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorGray)

	renderer, _ := glamour.NewTermRenderer( //nolint:errcheck
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	return &ChatModel{
		input:   ti,
		spinner: sp,

		glamourRenderer: renderer,
		api:             api,
		ws:              ws,
		history:         []ChatMessage{},
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return tea.Batch(
		m.api.StartSessionCmd(),
		m.api.SuggestionsCmd(),
		m.spinner.Tick,
	)
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.streaming || !m.ws.IsConnected() {
				return m, nil
			}

			m.input.SetValue("")
			m.history = append(m.history, ChatMessage{Role: "user", Content: question})
			m.streaming = true
			m.phase = "sending"
			m.pending.Reset()
			m.refreshViewport()

			if err := m.ws.Ask(question); err != nil {
				m.streaming = false
				m.appendError(err)
				return m, nil
			}
			return m, nil

		case "esc":
			if m.streaming {
				m.ws.Cancel() //nolint:errcheck
			}
			return m, nil

		case "ctrl+l":
			m.history = []ChatMessage{}
			m.pending.Reset()
			m.refreshViewport()
			return m, nil
		}

	case SessionCreatedMsg:
		m.sessionID = msg.sessionID
		return m, m.ws.ConnectCmd(msg.sessionID)

	case SuggestionsMsg:
		m.suggestions = msg.suggestions
		m.refreshViewport()
		return m, nil

	case WSConnectedMsg:
		return m, m.ws.WaitForEvent()

	case WSConnectErrorMsg:
		m.appendError(msg.err)
		return m, nil

	case StreamStateMsg:
		m.phase = msg.state
		return m, m.ws.WaitForEvent()

	case StreamTokenMsg:
		m.pending.WriteString(msg.token)
		m.refreshViewport()
		return m, m.ws.WaitForEvent()

	case StreamResultMsg:
		m.streaming = false
		m.phase = ""
		m.pending.Reset()
		m.history = append(m.history, ChatMessage{
			Role:     "assistant",
			Content:  msg.answer,
			Metadata: formatTurnMetadata(msg),
		})
		m.refreshViewport()
		m.input.Focus()
		return m, m.ws.WaitForEvent()

	case StreamErrorMsg:
		m.streaming = false
		m.phase = ""
		m.pending.Reset()
		m.appendError(msg.err)
		m.input.Focus()
		return m, m.ws.WaitForEvent()

	case WSClosedMsg:
		m.streaming = false
		m.phase = ""
		m.appendError(fmt.Errorf("connection closed"))
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10

		viewportHeight := max(msg.Height-8, 5)
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.refreshViewport()
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("CHAT")

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Send] [Esc: Cancel] [Ctrl+L: Clear] [Ctrl+C: Back]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-len("CHAT")-len(help)-2)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	statusText := ""
	switch {
	case m.streaming:
		statusText = infoStyle.Render(fmt.Sprintf("%s %s...", m.spinner.View(), m.phase))
	case !m.ws.IsConnected() && m.sessionID != "":
		statusText = infoStyle.Render("connecting...")
	}
	b.WriteString(statusText)

	return b.String()
}

// rebuilds the conversation viewport content
func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder

	if len(m.history) == 0 && m.pending.Len() == 0 {
		b.WriteString(infoStyle.Render("ready! ask a question below to get started."))
		b.WriteString("\n")

		if len(m.suggestions) > 0 {
			b.WriteString("\n")
			b.WriteString(metadataStyle.Render("try one of these:"))
			b.WriteString("\n")
			for _, s := range m.suggestions {
				b.WriteString(metadataStyle.Render("  • " + s))
				b.WriteString("\n")
			}
		}
	}

	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			b.WriteString(userStyle.Render("you: " + msg.Content))
			b.WriteString("\n\n")

		default:
			b.WriteString(assistantStyle.Render(m.renderMarkdown(msg.Content)))
			if msg.Metadata != "" {
				b.WriteString(metadataStyle.Render(msg.Metadata))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if m.pending.Len() > 0 {
		b.WriteString(assistantStyle.Render(m.pending.String()))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// renders assistant markdown, falling back to plain text
func (m *ChatModel) renderMarkdown(content string) string {
	if m.glamourRenderer == nil {
		return content
	}

	rendered, err := m.glamourRenderer.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n") + "\n"
}

func (m *ChatModel) appendError(err error) {
	m.history = append(m.history, ChatMessage{
		Role:    "assistant",
		Content: fmt.Sprintf("Error: %v", err),
	})
	m.refreshViewport()
}

func formatTurnMetadata(msg StreamResultMsg) string {
	parts := []string{fmt.Sprintf("chunks: %d", msg.chunks)}

	for _, c := range msg.citations {
		if c.RefNumber > 0 {
			parts = append(parts, fmt.Sprintf("Job #%d (%s)", c.RefNumber, c.Filename))
		} else {
			parts = append(parts, c.Filename)
		}
	}

	if msg.degraded {
		parts = append(parts, "degraded")
	}

	return "sources: " + strings.Join(parts, " | ")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
