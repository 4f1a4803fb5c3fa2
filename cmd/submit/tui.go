package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e056fd"))

// confirmModel is a one-keystroke y/N prompt.
type confirmModel struct {
	prompt string
	yes    bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.yes = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.yes = false
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	return promptStyle.Render(m.prompt) + " [y/N]: "
}

func confirmSubmit(contest string, problem string, filename string) (bool, error) {
	prompt := fmt.Sprintf("Submit %s to problem %s?", filename, problem)
	if contest != "" {
		prompt = fmt.Sprintf("Submit %s to problem %s of %s?", filename, problem, contest)
	}
	res, err := tea.NewProgram(confirmModel{prompt: prompt}).Run()
	if err != nil {
		return false, err
	}
	return res.(confirmModel).yes, nil
}

// problemInputModel asks for a problem code when it cannot be inferred.
type problemInputModel struct {
	input   textinput.Model
	aborted bool
}

func newProblemInputModel(initial string) problemInputModel {
	ti := textinput.New()
	ti.Placeholder = "A"
	ti.SetValue(initial)
	ti.Focus()
	ti.CharLimit = 16
	ti.Width = 20
	return problemInputModel{input: ti}
}

func (m problemInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m problemInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m problemInputModel) View() string {
	return promptStyle.Render("Problem code:") + " " + m.input.View()
}

func promptProblemCode(initial string) (string, error) {
	res, err := tea.NewProgram(newProblemInputModel(initial)).Run()
	if err != nil {
		return "", err
	}
	m := res.(problemInputModel)
	if m.aborted {
		return "", fmt.Errorf("aborted by user")
	}
	code := strings.TrimSpace(m.input.Value())
	if code == "" {
		return "", fmt.Errorf("problem code must not be empty")
	}
	return strings.ToUpper(code), nil
}
