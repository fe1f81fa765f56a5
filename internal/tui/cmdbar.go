package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cmdBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// CmdBarModel manages the textual command input.
type CmdBarModel struct {
	input       textinput.Model
	focused     bool
	suggestions *Suggestions
}

// NewCmdBarModel creates a new command bar
func NewCmdBarModel() *CmdBarModel {
	ti := textinput.New()
	ti.Placeholder = "PLACE_ROBOT 1,1,NORTH"
	ti.CharLimit = 256
	return &CmdBarModel{
		input:       ti,
		suggestions: NewSuggestions(),
	}
}

// Focused reports whether the bar has the keyboard.
func (m *CmdBarModel) Focused() bool {
	return m.focused
}

// Focus focuses the command bar
func (m *CmdBarModel) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur unfocuses the command bar
func (m *CmdBarModel) Blur() {
	m.focused = false
	m.input.Blur()
	m.input.SetValue("")
	m.suggestions.Update("")
}

// Submit returns the current input and blurs
func (m *CmdBarModel) Submit() string {
	val := m.input.Value()
	m.Blur()
	return val
}

// Update handles keys while focused. Enter is left to the caller.
func (m *CmdBarModel) Update(msg tea.Msg) (*CmdBarModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.Blur()
			return m, nil
		case "tab":
			if text, ok := m.suggestions.Completion(); ok {
				m.input.SetValue(text)
				m.input.CursorEnd()
				m.suggestions.Update(text)
			}
			return m, nil
		case "up":
			m.suggestions.Prev()
			return m, nil
		case "down":
			m.suggestions.Next()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestions.Update(m.input.Value())
	return m, cmd
}

// View renders the command bar
func (m *CmdBarModel) View(width int) string {
	if !m.focused {
		return cmdBarStyle.Render("Press : to type a command")
	}
	bar := cmdBarStyle.Render(promptStyle.Render(": ") + m.input.View())
	if dropdown := m.suggestions.Render(width); dropdown != "" {
		return lipgloss.JoinVertical(lipgloss.Left, dropdown, bar)
	}
	return bar
}
