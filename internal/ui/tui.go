package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tabbybot/tabby/internal/bot"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	botStyle   = lipgloss.NewStyle()
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// RunTUI starts the chat window. It needs a terminal on stdout.
func RunTUI(ctx context.Context, b *bot.Bot, opts ...Option) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newChatModel(newSession(b, opts))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type speaker int

const (
	fromBot speaker = iota
	fromUser
	fromError
)

type line struct {
	who  speaker
	text string
}

type chatModel struct {
	session *session
	input   textinput.Model
	history []line
	width   int
	height  int
	done    bool
}

func newChatModel(s *session) *chatModel {
	ti := textinput.New()
	ti.Placeholder = "todo, deadline, event, list, find, mark, unmark, delete, reminder, bye"
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = "> "
	ti.Focus()

	return &chatModel{
		session: s,
		input:   ti,
		history: []line{{who: fromBot, text: s.bot.Greeting()}},
	}
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 10 {
			m.input.Width = msg.Width - 4
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input line to the bot. Blank input is ignored.
func (m *chatModel) submit() tea.Cmd {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m.input.Reset()
	m.history = append(m.history, line{who: fromUser, text: text})

	r := m.session.exchange(text)
	who := fromBot
	if r.Err != nil {
		who = fromError
	}
	m.history = append(m.history, line{who: who, text: r.Text})
	if r.Bye {
		m.done = true
		return tea.Quit
	}
	return nil
}

func (m *chatModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tabby") + "\n\n")

	rendered := m.renderHistory()
	if m.height > 0 {
		// Title, blank line, input and footer take four rows.
		if room := m.height - 4; room > 0 && len(rendered) > room {
			rendered = rendered[len(rendered)-room:]
		}
	}
	for _, l := range rendered {
		b.WriteString(l + "\n")
	}

	if m.done {
		return b.String()
	}
	b.WriteString(m.input.View() + "\n")
	b.WriteString(hintStyle.Render("enter to send | esc or ctrl+c to quit"))
	return b.String()
}

// renderHistory returns the styled transcript, one terminal row per entry.
func (m *chatModel) renderHistory() []string {
	var rows []string
	for _, l := range m.history {
		style := botStyle
		prefix := ""
		switch l.who {
		case fromUser:
			style = userStyle
			prefix = "> "
		case fromError:
			style = errStyle
		}
		for _, row := range strings.Split(l.text, "\n") {
			rows = append(rows, style.Render(prefix+row))
		}
		if l.who != fromUser {
			rows = append(rows, "")
		}
	}
	return rows
}
