package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type resultMsg struct {
	text string
	err  error
}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	run     func() (string, error)
	result  *resultMsg
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := m.run()
		return resultMsg{text: text, err: err}
	})
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.result = &msg
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.result != nil {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.label)
}

// WithSpinner runs fn while drawing a spinner on out.
// Interrupting the spinner returns context.Canceled; fn keeps running in the background.
func WithSpinner(out io.Writer, label string, fn func() (string, error)) (string, error) {
	m := spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		label:   label,
		run:     fn,
	}
	final, err := tea.NewProgram(m, tea.WithOutput(out), tea.WithInput(nil)).Run()
	if err != nil {
		return "", fmt.Errorf("run spinner: %w", err)
	}
	sm, ok := final.(spinnerModel)
	if !ok || sm.result == nil {
		return "", context.Canceled
	}
	return sm.result.text, sm.result.err
}
