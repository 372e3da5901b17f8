package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/ducky/parameter"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	promptHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// promptModel is the chatbot surface revealed after the agent redirects
type promptModel struct {
	input     textinput.Model
	message   string
	submitted bool
	cancelled bool
}

func newPromptModel() promptModel {
	ti := textinput.New()
	ti.Placeholder = parameter.PromptPlaceholder
	ti.CharLimit = parameter.PromptCharLimit
	ti.Width = parameter.PromptWidth
	ti.Prompt = "> "
	ti.Focus()
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.message = text
			m.submitted = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.input.Width = max(min(msg.Width-4, parameter.PromptWidth), 10)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	return promptTitleStyle.Render("ducky brought you to the chatbot") + "\n\n" +
		m.input.View() + "\n\n" +
		promptHintStyle.Render("enter to send | esc to leave") + "\n"
}

// runPrompt collects the opening message; ok is false when the user left without sending
func runPrompt(in io.Reader, out io.Writer) (message string, ok bool, err error) {
	program := tea.NewProgram(newPromptModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return "", false, err
	}
	m, _ := final.(promptModel)
	return m.message, m.submitted, nil
}
