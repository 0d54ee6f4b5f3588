package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/pdfannotations/internal/fetch"
)

var (
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

type fetchDoneMsg struct {
	handle fetch.Handle
	err    error
}

// progressModel shows a spinner until a fetch task finishes.
type progressModel struct {
	spinner spinner.Model
	task    *fetch.Task
	url     string
	handle  fetch.Handle
	err     error
	done    bool
}

func newProgressModel(task *fetch.Task, url string) progressModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = progressStyle
	return progressModel{spinner: spin, task: task, url: url}
}

func waitTask(task *fetch.Task) tea.Cmd {
	return func() tea.Msg {
		h, err := task.Wait()
		return fetchDoneMsg{handle: h, err: err}
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitTask(m.task))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		m.handle, m.err, m.done = msg.handle, msg.err, true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			// The task reports context.Canceled through fetchDoneMsg.
			m.task.Cancel()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Downloading %s\n", m.spinner.View(), dimStyle.Render(m.url))
}

func runProgress(task *fetch.Task, url string) (fetch.Handle, error) {
	p := tea.NewProgram(newProgressModel(task, url), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		task.Cancel()
		return task.Wait()
	}
	m := final.(progressModel)
	return m.handle, m.err
}
