package execrunner

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
)

// Runner executes cmd stages through the shell, inheriting the process
// environment plus the stage's extra variables.
type Runner struct {
	dir    string
	stdout *os.File
	stderr *os.File
}

type Option func(*Runner)

// WithDir sets the working directory for stage commands (the workspace root).
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.StageRunner = (*Runner)(nil)

func (r *Runner) RunStage(ctx context.Context, stage domain.StageSpec, extraEnv []string) error {
	if stage.Cmd == "" {
		return &domain.OpError{
			Op:   "execrunner.run",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("stage has no command"),
		}
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", stage.Cmd)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Env = append(cmd.Env, "CTPIPE_STAGE="+stage.Name)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		return &domain.OpError{
			Op:   "execrunner.run",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	return nil
}
