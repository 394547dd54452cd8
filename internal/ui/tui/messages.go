package tui

import "github.com/suraj-yadav-aiml/ctpipe/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type runsLoadedMsg struct {
	runs []domain.PipelineRun
	err  error
}
