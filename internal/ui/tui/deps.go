package tui

import (
	"log/slog"

	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
)

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer
	Store                ports.ArtifactStore

	Logger *slog.Logger
	Debug  bool
}
