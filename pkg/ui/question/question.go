// Package question asks the user for one line of free text in the terminal.
package question

import (
	"context"
	"fmt"
	"io"

	"openai_helper/pkg/ui/styles"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const (
	defaultWidth = 60
	maxWidth     = 100
)

// Model is a single-line input box. Enter submits, Esc or Ctrl+C dismisses.
type Model struct {
	prompt    string
	input     textinput.Model
	width     int
	submitted bool
	dismissed bool
}

// New creates a focused input box labelled with prompt.
func New(prompt string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type a question and press enter"
	s := ti.Styles()
	s.Focused.Placeholder = styles.PlaceholderStyle
	s.Blurred.Placeholder = styles.PlaceholderStyle
	ti.SetStyles(s)
	ti.Focus()

	m := Model{prompt: prompt, input: ti}
	m.setWidth(defaultWidth)
	return m
}

func (m *Model) setWidth(w int) {
	if w > maxWidth {
		w = maxWidth
	}
	m.width = w
	// border, padding and prompt
	m.input.SetWidth(max(w-8, 10))
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWidth(msg.Width)
		return m, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			m.submitted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.dismissed = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.submitted || m.dismissed {
		return tea.NewView("")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(m.prompt),
		m.input.View(),
		styles.FooterStyle.Render("enter submit | esc cancel"),
	)
	return tea.NewView(styles.BoxStyle.Width(m.width).Render(body) + "\n")
}

// Answer returns the typed text and whether it was submitted.
func (m Model) Answer() (string, bool) {
	if !m.submitted {
		return "", false
	}
	return m.input.Value(), true
}

// Run shows the input box on out, reading keys from in. ok is false when
// the user dismissed the box.
func Run(ctx context.Context, prompt string, in io.Reader, out io.Writer) (answer string, ok bool, err error) {
	p := tea.NewProgram(New(prompt),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("question input: %w", err)
	}

	m, isModel := final.(Model)
	if !isModel {
		return "", false, fmt.Errorf("question input: unexpected model %T", final)
	}
	answer, ok = m.Answer()
	return answer, ok, nil
}
