package repl

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#8B5CF6") // Violet
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorError   = lipgloss.Color("#EF4444") // Red

	titleStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	echoStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	helpStyle   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

const headerHeight = 2

// Model is the bubbletea model of the interactive session.
type Model struct {
	ctx     context.Context
	session *Session

	input    textinput.Model
	viewport viewport.Model
	history  []string

	width  int
	height int
	ready  bool
	err    error
}

// NewModel creates a model evaluating lines with sess.
func NewModel(ctx context.Context, sess *Session) Model {
	ti := textinput.New()
	ti.Prompt = Prompt
	ti.PromptStyle = promptStyle
	ti.Placeholder = "let x = 1;"
	ti.CharLimit = 4096
	ti.Focus()

	return Model{
		ctx:     ctx,
		session: sess,
		input:   ti,
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit

		case tea.KeyCtrlL:
			m.history = nil
			m.refresh()
			return m, nil

		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			if IsExit(line) {
				return m, tea.Quit
			}
			m.eval(line)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - headerHeight - 2
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - len(Prompt) - 1
		m.refresh()
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) eval(line string) {
	m.history = append(m.history, echoStyle.Render(Prompt+line))

	out, err := m.session.Eval(m.ctx, line)
	if err != nil {
		m.err = err
		m.history = append(m.history, errorStyle.Render(err.Error()))
	} else if out = strings.TrimRight(out, "\n"); out != "" {
		m.history = append(m.history, out)
	}
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

// History returns everything shown so far, one entry per echoed line or
// result.
func (m Model) History() []string {
	return m.history
}

// Err returns the last evaluation error, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("CPL"))
	s.WriteString(" ")
	s.WriteString(helpStyle.Render("type exit or press esc to quit, ctrl+l clears"))
	s.WriteString("\n\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	return s.String()
}

// Run starts the terminal UI on in and out and blocks until the user quits.
func Run(ctx context.Context, in io.Reader, out io.Writer, sess *Session) error {
	p := tea.NewProgram(
		NewModel(ctx, sess),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
