package usecase

import (
	"testing"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

func TestPipelineStatus_ReportsInTopologicalOrder(t *testing.T) {
	p := domain.Pipeline{Stages: []domain.StageSpec{
		{Name: "evaluation", Kind: domain.StageCmd, Cmd: "eval", Deps: []string{"{{trained_model_path}}"}},
		{Name: "training", Kind: domain.StageCmd, Cmd: "train", Outs: []string{"{{trained_model_path}}"}},
	}}

	stater := &memStater{fresh: map[string]string{"training": ""}}
	uc := NewPipelineStatus(
		fakePipelineLoader{pipeline: p},
		fakeConfigLoader{project: testProject(), params: domain.Params{}},
		stater,
	)

	out, err := uc.Execute("pipeline.yaml", "config.yaml", "params.yaml")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].Name != "training" || out[1].Name != "evaluation" {
		t.Fatalf("unexpected order: %v", []string{out[0].Name, out[1].Name})
	}
	if !out[0].Fresh {
		t.Fatalf("expected training fresh")
	}
	if out[1].Fresh || out[1].Reason != "never run" {
		t.Fatalf("expected evaluation stale with reason, got %+v", out[1])
	}
}

func TestPipelineStatus_PropagatesLoadError(t *testing.T) {
	uc := NewPipelineStatus(
		fakePipelineLoader{err: &domain.OpError{Op: "yamlpipeline.load", Kind: domain.KindNotFound, Err: domain.ErrNotFound}},
		fakeConfigLoader{},
		&memStater{},
	)

	if _, err := uc.Execute("missing.yaml", "config.yaml", "params.yaml"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
