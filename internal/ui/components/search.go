package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Prompt is a bordered single-line input used for bin search and marker
// labels
type Prompt struct {
	Input      textinput.Model
	Width      int
	Style      lipgloss.Style
	FocusStyle lipgloss.Style
}

// NewPrompt creates a prompt with a placeholder and prompt glyph
func NewPrompt(width int, prompt, placeholder string) Prompt {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = width - 6

	return Prompt{
		Input: ti,
		Width: width,
		Style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		FocusStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1),
	}
}

// Focus sets focus on the input
func (p *Prompt) Focus() tea.Cmd {
	return p.Input.Focus()
}

// Blur removes focus from the input
func (p *Prompt) Blur() {
	p.Input.Blur()
}

// Focused reports whether the input takes keys
func (p Prompt) Focused() bool {
	return p.Input.Focused()
}

// Value returns the typed text
func (p Prompt) Value() string {
	return p.Input.Value()
}

// Clear clears the input
func (p *Prompt) Clear() {
	p.Input.Reset()
}

// Update handles messages for the prompt
func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return p, cmd
}

// View renders the prompt
func (p Prompt) View() string {
	if p.Input.Focused() {
		return p.FocusStyle.Width(p.Width).Render(p.Input.View())
	}
	return p.Style.Width(p.Width).Render(p.Input.View())
}
