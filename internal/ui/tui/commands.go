package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/runstore"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/workspacefinder"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, true)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadRuns(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		store := deps.Store
		if store == nil {
			cfg, err := workspacefinder.LoadConfig(root)
			if err != nil {
				return runsLoadedMsg{err: err}
			}
			store = runstore.NewJSONStore(root, cfg)
		}

		runs, err := store.ListRuns()
		return runsLoadedMsg{runs: runs, err: err}
	}
}
