// Package tui implements the interactive confirmation flow for `costforge
// init`: a spinner while the inspector runs, the profile summary, an
// environment picker, and a final y/n gate.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/costforge/costforge/pkg/inspector"
)

type phase int

const (
	phaseInspecting phase = iota
	phasePicking
	phaseConfirming
	phaseDone
)

// Result is what the init command gets back from the flow.
type Result struct {
	Profile     *inspector.Profile
	Environment string
	Accepted    bool
}

type inspectDoneMsg struct {
	profile *inspector.Profile
	err     error
}

type confirmModel struct {
	spinner  spinner.Model
	inspect  func() (*inspector.Profile, error)
	phase    phase
	profile  *inspector.Profile
	err      error
	envs     []string
	cursor   int
	accepted bool
}

func newConfirmModel(envs []string, defaultEnv string, inspect func() (*inspector.Profile, error)) confirmModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	cursor := 0
	for i, env := range envs {
		if env == defaultEnv {
			cursor = i
		}
	}
	return confirmModel{
		spinner: s,
		inspect: inspect,
		envs:    envs,
		cursor:  cursor,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			p, err := m.inspect()
			return inspectDoneMsg{profile: p, err: err}
		},
	)
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inspectDoneMsg:
		m.profile = msg.profile
		m.err = msg.err
		if m.err != nil {
			m.phase = phaseDone
			return m, tea.Quit
		}
		m.phase = phasePicking
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.phase = phaseDone
			return m, tea.Quit
		}
		switch m.phase {
		case phasePicking:
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.envs)-1 {
					m.cursor++
				}
			case "enter":
				m.phase = phaseConfirming
			}
		case phaseConfirming:
			switch msg.String() {
			case "y", "Y", "enter":
				m.accepted = true
				m.phase = phaseDone
				return m, tea.Quit
			case "n", "N":
				m.phase = phaseDone
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	switch m.phase {
	case phaseInspecting:
		return fmt.Sprintf("\n %s Inspecting project...\n", m.spinner.View())

	case phasePicking:
		var b strings.Builder
		b.WriteString(m.summary())
		b.WriteString("\n")
		b.WriteString(questionStyle.Render("? Which environment is this bundle for?"))
		b.WriteString("\n\n")
		for i, env := range m.envs {
			cursor := " "
			if m.cursor == i {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s\n", cursor, env))
		}
		b.WriteString(subtleStyle.Render("\n(Use arrows, [enter] to confirm)\n"))
		return b.String()

	case phaseConfirming:
		var b strings.Builder
		b.WriteString(m.summary())
		b.WriteString("\n")
		b.WriteString(questionStyle.Render(fmt.Sprintf("? Write the %s bundle? [y/n]", m.envs[m.cursor])))
		b.WriteString("\n")
		return b.String()

	default:
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("inspection failed: %v", m.err)) + "\n"
		}
		return ""
	}
}

func (m confirmModel) summary() string {
	p := m.profile
	rows := []string{
		fmt.Sprintf("Project         %s", accentStyle.Render(p.ProjectName)),
		fmt.Sprintf("Type            %s", p.ProjectType),
		fmt.Sprintf("Infrastructure  %s", p.PatternDisplay()),
		fmt.Sprintf("Budget estimate $%d/month", p.BudgetEstimateUSD),
		fmt.Sprintf("Alert email     %s", p.AlertEmail),
	}
	return summaryStyle.Render(strings.Join(rows, "\n")) + "\n"
}

// Confirm runs the interactive flow. inspect is executed once, off the
// UI loop. The returned Result carries the inspected profile, the picked
// environment, and whether the user accepted the write.
func Confirm(envs []string, defaultEnv string, inspect func() (*inspector.Profile, error)) (Result, error) {
	p := tea.NewProgram(newConfirmModel(envs, defaultEnv, inspect))
	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	m, ok := final.(confirmModel)
	if !ok {
		return Result{}, fmt.Errorf("unexpected model type %T", final)
	}
	if m.err != nil {
		return Result{}, m.err
	}
	return Result{
		Profile:     m.profile,
		Environment: m.envs[m.cursor],
		Accepted:    m.accepted,
	}, nil
}
