package execrunner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

func TestRunStage_RunsCommandWithEnv(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "out.txt")

	r := NewRunner(WithDir(tmp))
	stage := domain.StageSpec{
		Name: "training",
		Kind: domain.StageCmd,
		Cmd:  `printf '%s' "$CTPIPE_PARAM_EPOCHS-$CTPIPE_STAGE" > out.txt`,
	}

	err := r.RunStage(context.Background(), stage, []string{"CTPIPE_PARAM_EPOCHS=10"})
	if err != nil {
		t.Fatalf("RunStage error: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(b) != "10-training" {
		t.Fatalf("unexpected output %q", string(b))
	}
}

func TestRunStage_FailedCommand(t *testing.T) {
	r := NewRunner(WithDir(t.TempDir()))

	err := r.RunStage(context.Background(), domain.StageSpec{Name: "x", Cmd: "exit 3"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected KindExecution, got %v", err)
	}

	re := domain.NewRunError(err)
	if re.Kind != domain.RunErrorExit {
		t.Fatalf("expected exit kind, got %q", re.Kind)
	}
	if !strings.Contains(re.Message, "3") {
		t.Fatalf("expected exit code in message, got %q", re.Message)
	}
}

func TestRunStage_EmptyCommand(t *testing.T) {
	err := NewRunner().RunStage(context.Background(), domain.StageSpec{Name: "x"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
