package usecase

import (
	"testing"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

func stageNames(stages []domain.StageSpec) []string {
	out := make([]string, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Name)
	}
	return out
}

func TestBuildGraph_OrdersByOutDepOverlap(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "evaluation", Kind: domain.StageCmd, Cmd: "eval", Deps: []string{"model.h5"}},
		{Name: "training", Kind: domain.StageCmd, Cmd: "train", Deps: []string{"data"}, Outs: []string{"model.h5"}},
		{Name: "ingest", Kind: domain.StageDataIngestion, Outs: []string{"data"}},
	}

	g, err := buildGraph(stages)
	if err != nil {
		t.Fatalf("buildGraph error: %v", err)
	}

	got := stageNames(g.order)
	want := []string{"ingest", "training", "evaluation"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestBuildGraph_AfterEdge(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "report", Kind: domain.StageCmd, Cmd: "report", After: []string{"training"}},
		{Name: "training", Kind: domain.StageCmd, Cmd: "train"},
	}

	g, err := buildGraph(stages)
	if err != nil {
		t.Fatalf("buildGraph error: %v", err)
	}
	if g.order[0].Name != "training" || g.order[1].Name != "report" {
		t.Fatalf("after edge not honored: %v", stageNames(g.order))
	}
}

func TestBuildGraph_PreservesDeclarationOrderForIndependents(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "b", Kind: domain.StageCmd, Cmd: "b"},
		{Name: "a", Kind: domain.StageCmd, Cmd: "a"},
		{Name: "c", Kind: domain.StageCmd, Cmd: "c"},
	}

	g, err := buildGraph(stages)
	if err != nil {
		t.Fatalf("buildGraph error: %v", err)
	}
	got := stageNames(g.order)
	if got[0] != "b" || got[1] != "a" || got[2] != "c" {
		t.Fatalf("expected declaration order, got %v", got)
	}
}

func TestBuildGraph_CycleRejected(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "a", Kind: domain.StageCmd, Cmd: "a", After: []string{"b"}},
		{Name: "b", Kind: domain.StageCmd, Cmd: "b", After: []string{"a"}},
	}

	_, err := buildGraph(stages)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestBuildGraph_SelfSufficientOutDepCycle(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "a", Kind: domain.StageCmd, Cmd: "a", Deps: []string{"y"}, Outs: []string{"x"}},
		{Name: "b", Kind: domain.StageCmd, Cmd: "b", Deps: []string{"x"}, Outs: []string{"y"}},
	}

	if _, err := buildGraph(stages); err == nil {
		t.Fatalf("expected cycle error for mutual out/dep edges")
	}
}

func TestBuildGraph_UnknownAfterTargetRejected(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "report", Kind: domain.StageCmd, Cmd: "report", After: []string{"trainning"}},
	}

	_, err := buildGraph(stages)
	if err == nil {
		t.Fatalf("expected unknown after-target error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestBuildGraph_DuplicateStageNameRejected(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "training", Kind: domain.StageCmd, Cmd: "train"},
		{Name: "training", Kind: domain.StageCmd, Cmd: "train --resume"},
	}

	if _, err := buildGraph(stages); err == nil {
		t.Fatalf("expected duplicate stage name error")
	}
}

func TestBuildGraph_DuplicateOutRejected(t *testing.T) {
	stages := []domain.StageSpec{
		{Name: "a", Kind: domain.StageCmd, Cmd: "a", Outs: []string{"model.h5"}},
		{Name: "b", Kind: domain.StageCmd, Cmd: "b", Outs: []string{"model.h5"}},
	}

	_, err := buildGraph(stages)
	if err == nil {
		t.Fatalf("expected duplicate out error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
