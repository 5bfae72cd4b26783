// Package tui provides terminal user interface components for sfcc.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thomd/sfcc-cli-tools/internal/client"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action  Action
	Sandbox *client.Sandbox
}

// sandboxItem implements list.Item for sandbox display
type sandboxItem struct {
	sandbox client.Sandbox
	active  bool
}

func (i sandboxItem) Title() string {
	if i.active {
		return i.sandbox.Alias() + " (active)"
	}
	return i.sandbox.Alias()
}

func (i sandboxItem) Description() string {
	state := i.sandbox.State
	if state == "" {
		state = "unknown"
	}
	return fmt.Sprintf("%s | created by %s", state, i.sandbox.CreatedBy)
}

func (i sandboxItem) FilterValue() string {
	return i.sandbox.Alias()
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the sandbox picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new sandbox picker over the remote sandbox list.
// activeAlias marks the currently selected sandbox.
func NewPicker(sandboxes []client.Sandbox, activeAlias string) Model {
	items := make([]list.Item, len(sandboxes))
	for i, sb := range sandboxes {
		items[i] = sandboxItem{
			sandbox: sb,
			active:  sb.Alias() == activeAlias,
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "sfcc - Select Sandbox"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(sandboxItem); ok {
				sb := item.sandbox
				m.result = PickerResult{
					Action:  ActionSelect,
					Sandbox: &sb,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive sandbox picker
func RunPicker(sandboxes []client.Sandbox, activeAlias string) (PickerResult, error) {
	if len(sandboxes) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(sandboxes, activeAlias)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// ListSandboxes renders a non-interactive sandbox listing.
func ListSandboxes(sandboxes []client.Sandbox, activeAlias string) string {
	var sb strings.Builder

	sb.WriteString("sfcc - Sandboxes\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(sandboxes) == 0 {
		sb.WriteString("No sandboxes found.\n")
		sb.WriteString("Create one with: sfcc sandbox create\n")
		return sb.String()
	}

	for i, sandbox := range sandboxes {
		marker := " "
		if sandbox.Alias() == activeAlias {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s (created by %s)\n",
			i+1, marker, sandbox.Alias(), sandbox.CreatedBy))
	}

	return sb.String()
}
