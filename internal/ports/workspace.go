package ports

import "github.com/suraj-yadav-aiml/ctpipe/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
