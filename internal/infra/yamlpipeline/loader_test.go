package yamlpipeline

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"gopkg.in/yaml.v3"
)

// stagesNode parses a stages mapping snippet into a yamlPipeline for the
// validation table tests.
func stagesNode(t *testing.T, stagesYAML string) yamlPipeline {
	t.Helper()
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(stagesYAML), &n); err != nil {
		t.Fatalf("parse snippet: %v", err)
	}
	if len(n.Content) == 0 {
		t.Fatalf("empty snippet")
	}
	return yamlPipeline{Stages: *n.Content[0]}
}

func TestLoadPipeline(t *testing.T) {
	path := filepath.Join("testdata", "pipeline.yaml")
	pl, err := NewLoader().LoadPipeline(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pl.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(pl.Stages))
	}
	// file order preserved
	if pl.Stages[0].Name != "data_ingestion" || pl.Stages[1].Name != "training" || pl.Stages[2].Name != "evaluation" {
		t.Fatalf("unexpected stage order: %v", []string{pl.Stages[0].Name, pl.Stages[1].Name, pl.Stages[2].Name})
	}

	if pl.Stages[0].Kind != domain.StageDataIngestion {
		t.Fatalf("expected builtin ingestion stage, got %q", pl.Stages[0].Kind)
	}
	if pl.Stages[1].Kind != domain.StageCmd || pl.Stages[1].Cmd != "python src/train.py" {
		t.Fatalf("unexpected training stage: %+v", pl.Stages[1])
	}
	if len(pl.Stages[1].Params) != 2 {
		t.Fatalf("expected 2 tracked params, got %v", pl.Stages[1].Params)
	}
	if len(pl.Stages[2].After) != 1 || pl.Stages[2].After[0] != "training" {
		t.Fatalf("expected after=training, got %v", pl.Stages[2].After)
	}

	if len(pl.Gate) != 2 {
		t.Fatalf("expected 2 gate rules, got %d", len(pl.Gate))
	}
	if pl.Gate[0].Op != domain.GateGte || pl.Gate[0].Value != 0.85 {
		t.Fatalf("unexpected gate rule: %+v", pl.Gate[0])
	}
}

func TestLoadPipeline_Invalid(t *testing.T) {
	path := filepath.Join("testdata", "pipeline_invalid.yaml")
	_, err := NewLoader().LoadPipeline(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "stages.training") {
		t.Fatalf("expected field in error, got %v", err)
	}
}

func TestLoadPipeline_Missing(t *testing.T) {
	_, err := NewLoader().LoadPipeline(filepath.Join("testdata", "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestMapAndValidate_Rules(t *testing.T) {
	cases := []struct {
		name string
		yaml yamlPipeline
		want string
	}{
		{
			name: "unknown after",
			yaml: stagesNode(t, "a:\n  cmd: run\n  after: [b]\n"),
			want: "unknown stage",
		},
		{
			name: "cmd and builtin",
			yaml: stagesNode(t, "a:\n  cmd: run\n  builtin: data_ingestion\n"),
			want: "mutually exclusive",
		},
		{
			name: "unknown builtin",
			yaml: stagesNode(t, "a:\n  builtin: feature_store\n"),
			want: "unsupported builtin",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mapAndValidate("pipeline.yaml", tc.yaml)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestMapGateRule_RequiresSingleOp(t *testing.T) {
	g1 := 0.5
	g2 := 0.9

	_, err := mapGateRule("pipeline.yaml", "gate[0]", yamlGateRule{Name: "acc", Path: "$.acc"})
	if err == nil {
		t.Fatalf("expected error for missing op")
	}

	_, err = mapGateRule("pipeline.yaml", "gate[0]", yamlGateRule{Name: "acc", Path: "$.acc", Gte: &g1, Lte: &g2})
	if err == nil {
		t.Fatalf("expected error for two ops")
	}
}
