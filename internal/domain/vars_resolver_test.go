package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// --- helpers ---

func testRuntime(t *testing.T, vars Vars, now func() time.Time, idFn func() (string, error)) *RuntimeResolver {
	t.Helper()
	if now == nil {
		now = func() time.Time { return time.Unix(1700000000, 0) }
	}
	if idFn == nil {
		idFn = func() (string, error) { return "deadbeefcafe0000", nil }
	}
	vr := NewVarResolver(WithNow(now), WithRunID(idFn))
	rt, err := vr.NewRuntime(vars)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	return rt
}

// --- ResolveString ---

func TestResolveString_NoPlaceholders(t *testing.T) {
	rt := testRuntime(t, Vars{}, nil, nil)
	got, err := rt.ResolveString("python src/train.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "python src/train.py" {
		t.Fatalf("expected %q, got %q", "python src/train.py", got)
	}
}

func TestResolveString_SimpleVar(t *testing.T) {
	rt := testRuntime(t, Vars{"artifacts_root": "artifacts"}, nil, nil)
	got, err := rt.ResolveString("{{artifacts_root}}/data_ingestion")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "artifacts/data_ingestion"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveString_MissingVar(t *testing.T) {
	rt := testRuntime(t, Vars{"artifacts_root": "artifacts"}, nil, nil)

	_, err := rt.ResolveString("{{scores_file}}")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindMissingVar) {
		t.Fatalf("expected KindMissingVar, got: %v", err)
	}
	if !strings.Contains(err.Error(), "missing variable: scores_file") {
		t.Fatalf("expected message to contain 'missing variable: scores_file', got: %v", err)
	}
}

func TestResolveString_MultipleVars(t *testing.T) {
	rt := testRuntime(t, Vars{"training_root": "artifacts/training", "model_path": "model.h5"}, nil, nil)
	got, err := rt.ResolveString("{{training_root}}/{{model_path}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "artifacts/training/model.h5"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveString_Builtins(t *testing.T) {
	r := NewVarResolver(
		WithNow(func() time.Time { return time.Unix(1700000000, 0) }),
		WithRunID(func() (string, error) { return "1111111111111111", nil }),
	)

	rt, err := r.NewRuntime(Vars{})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	got, err := rt.ResolveString("ts={{$timestamp}} run={{$runid}}")
	if err != nil {
		t.Fatalf("ResolveString: %v", err)
	}
	want := "ts=1700000000 run=1111111111111111"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if rt.RunID() != "1111111111111111" {
		t.Fatalf("expected RunID to expose the builtin, got %q", rt.RunID())
	}
}

func TestResolveString_UnclosedPlaceholder(t *testing.T) {
	rt := testRuntime(t, Vars{"x": "y"}, nil, nil)

	_, err := rt.ResolveString("{{x")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
	var oe *OpError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OpError")
	}
}

func TestResolveString_EmptyPlaceholder(t *testing.T) {
	rt := testRuntime(t, Vars{}, nil, nil)
	_, err := rt.ResolveString("{{  }}")
	if err == nil {
		t.Fatalf("expected error for empty placeholder")
	}
	if !IsKind(err, KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

// --- ResolveStage ---

func TestResolveStage_Success(t *testing.T) {
	rt := testRuntime(t, Vars{
		"artifacts_root": "artifacts",
		"unzip_dir":      "artifacts/data_ingestion/data",
		"scores_file":    "scores.json",
	}, nil, nil)

	stage := StageSpec{
		Name: "evaluation",
		Kind: StageCmd,
		Cmd:  "python src/evaluate.py --out {{scores_file}}",
		Deps: []string{"{{unzip_dir}}", "src/evaluate.py"},
		Outs: []string{"{{artifacts_root}}/{{scores_file}}"},
	}

	got, err := rt.ResolveStage(stage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmd != "python src/evaluate.py --out scores.json" {
		t.Fatalf("unexpected cmd: %q", got.Cmd)
	}
	if got.Deps[0] != "artifacts/data_ingestion/data" {
		t.Fatalf("unexpected dep: %q", got.Deps[0])
	}
	if got.Outs[0] != "artifacts/scores.json" {
		t.Fatalf("unexpected out: %q", got.Outs[0])
	}
	// input must not be mutated
	if stage.Cmd != "python src/evaluate.py --out {{scores_file}}" {
		t.Fatalf("input stage mutated: %q", stage.Cmd)
	}
}

func TestResolveStage_MissingVarNamesField(t *testing.T) {
	rt := testRuntime(t, Vars{}, nil, nil)

	_, err := rt.ResolveStage(StageSpec{Name: "training", Cmd: "run", Deps: []string{"{{nope}}"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindMissingVar) {
		t.Fatalf("expected KindMissingVar, got %v", err)
	}
	if !strings.Contains(err.Error(), "stage.deps") {
		t.Fatalf("expected field context in error, got %v", err)
	}
}
