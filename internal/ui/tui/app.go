package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

type screen int

const (
	screenRuns screen = iota
	screenDetail
)

type runItem struct {
	run domain.PipelineRun
}

func (r runItem) Title() string {
	return r.run.ID
}

func (r runItem) Description() string {
	fails := r.run.Failures()
	verdict := "ok"
	if fails > 0 {
		verdict = fmt.Sprintf("%d failed", fails)
	} else if !r.run.GatePassed() {
		verdict = "gate failed"
	}
	return fmt.Sprintf("%s • %d stage(s) • %s",
		r.run.StartedAt.Format(time.RFC3339), len(r.run.Stages), verdict)
}

func (r runItem) FilterValue() string { return r.run.ID }

type model struct {
	theme Theme
	deps  Deps

	scr  screen
	runs list.Model

	selected domain.PipelineRun

	workspaceFound bool
	workspaceRoot  string

	loadErr error
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "ctpipe runs"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme: DefaultTheme(),
		deps:  deps,
		scr:   screenRuns,
		runs:  l,
	}
}

func (m model) Init() tea.Cmd {
	return cmdRefreshWorkspace(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.runs.SetSize(w-4, h-10)
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		if msg.found {
			return m, cmdLoadRuns(m.deps, msg.root)
		}
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err == nil {
			m.workspaceFound = true
			m.workspaceRoot = msg.root
			return m, cmdLoadRuns(m.deps, msg.root)
		}
		m.loadErr = msg.err
		return m, nil

	case runsLoadedMsg:
		m.loadErr = msg.err
		items := make([]list.Item, 0, len(msg.runs))
		for _, r := range msg.runs {
			items = append(items, runItem{run: r})
		}
		m.runs.SetItems(items)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.scr == screenRuns && !m.runs.SettingFilter() {
				return m, tea.Quit
			}

		case "r":
			if m.scr == screenRuns && !m.runs.SettingFilter() && m.workspaceFound {
				return m, cmdLoadRuns(m.deps, m.workspaceRoot)
			}

		case "enter":
			if m.scr == screenRuns {
				if it, ok := m.runs.SelectedItem().(runItem); ok {
					m.scr = screenDetail
					m.selected = it.run
				}
				return m, nil
			}

		case "esc", "b":
			if m.scr == screenDetail {
				m.scr = screenRuns
				return m, nil
			}
		}
	}

	if m.scr == screenRuns {
		var cmd tea.Cmd
		m.runs, cmd = m.runs.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("ctpipe") + "\n" +
		m.theme.Subtitle.Render("pipeline reproductions and their verdicts") + "\n"

	var banner string
	switch {
	case m.workspaceFound:
		banner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	default:
		banner = m.theme.Card.Render(
			"⚠ No workspace found.\n\nRun `ctpipe init` to scaffold one here.",
		)
	}

	if m.loadErr != nil {
		banner += "\n" + m.theme.Fail.Render(userMessage(m.loadErr))
	}

	switch m.scr {
	case screenRuns:
		help := m.theme.Help.Render("↑/↓ navigate • enter details • r reload • / search • q quit")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(m.runs.View()) + "\n" + help)

	case screenDetail:
		card := m.theme.Card.Render(renderRunDetails(m.theme, m.selected))
		help := m.theme.Help.Render("esc/b back • q quit")
		return wrap.Render(header + "\n" + banner + "\n\n" + card + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
