package ports

import (
	"context"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// StageRunner executes a resolved cmd stage. extraEnv is appended to the
// process environment (params, stage paths).
type StageRunner interface {
	RunStage(ctx context.Context, stage domain.StageSpec, extraEnv []string) error
}
