package yamlpipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.PipelineLoader = (*Loader)(nil)

func (l *Loader) LoadPipeline(path string) (domain.Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Pipeline{}, &domain.OpError{
			Op:   "yamlpipeline.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yp yamlPipeline
	if err := yaml.Unmarshal(b, &yp); err != nil {
		return domain.Pipeline{}, &domain.OpError{
			Op:   "yamlpipeline.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yp)
}

type yamlPipeline struct {
	// Stages keeps file order, which a plain map would lose.
	Stages yaml.Node      `yaml:"stages"`
	Gate   []yamlGateRule `yaml:"gate"`
}

type yamlStage struct {
	Cmd     string   `yaml:"cmd"`
	Builtin string   `yaml:"builtin"`
	After   []string `yaml:"after"`
	Deps    []string `yaml:"deps"`
	Outs    []string `yaml:"outs"`
	Params  []string `yaml:"params"`
}

type yamlGateRule struct {
	Name string   `yaml:"name"`
	Path string   `yaml:"path"`
	Gte  *float64 `yaml:"gte"`
	Lte  *float64 `yaml:"lte"`
	Eq   *float64 `yaml:"eq"`
}

func mapAndValidate(path string, yp yamlPipeline) (domain.Pipeline, error) {
	if yp.Stages.Kind == 0 || len(yp.Stages.Content) == 0 {
		return domain.Pipeline{}, invalidField(path, "stages", "at least one stage is required")
	}
	if yp.Stages.Kind != yaml.MappingNode {
		return domain.Pipeline{}, invalidField(path, "stages", "stages must be a mapping of name to stage")
	}

	pl := domain.Pipeline{
		Stages: make([]domain.StageSpec, 0, len(yp.Stages.Content)/2),
	}

	seen := map[string]bool{}
	for i := 0; i+1 < len(yp.Stages.Content); i += 2 {
		name := strings.TrimSpace(yp.Stages.Content[i].Value)
		fieldPrefix := fmt.Sprintf("stages.%s", name)

		if name == "" {
			return domain.Pipeline{}, invalidField(path, "stages", "stage name is required")
		}
		if seen[name] {
			return domain.Pipeline{}, invalidField(path, fieldPrefix, "duplicate stage name")
		}
		seen[name] = true

		var ys yamlStage
		if err := yp.Stages.Content[i+1].Decode(&ys); err != nil {
			return domain.Pipeline{}, invalidField(path, fieldPrefix, err.Error())
		}

		stage, err := mapStage(path, fieldPrefix, name, ys)
		if err != nil {
			return domain.Pipeline{}, err
		}
		pl.Stages = append(pl.Stages, stage)
	}

	// After targets must exist.
	for _, s := range pl.Stages {
		for _, a := range s.After {
			if !seen[a] {
				return domain.Pipeline{}, invalidField(path, fmt.Sprintf("stages.%s.after", s.Name), fmt.Sprintf("unknown stage %q", a))
			}
		}
	}

	for i, g := range yp.Gate {
		rule, err := mapGateRule(path, fmt.Sprintf("gate[%d]", i), g)
		if err != nil {
			return domain.Pipeline{}, err
		}
		pl.Gate = append(pl.Gate, rule)
	}

	return pl, nil
}

func mapStage(path, fieldPrefix, name string, ys yamlStage) (domain.StageSpec, error) {
	cmd := strings.TrimSpace(ys.Cmd)
	builtin := strings.TrimSpace(ys.Builtin)

	stage := domain.StageSpec{
		Name:   name,
		After:  cloneTrimmed(ys.After),
		Deps:   cloneTrimmed(ys.Deps),
		Outs:   cloneTrimmed(ys.Outs),
		Params: cloneTrimmed(ys.Params),
	}

	switch {
	case builtin != "" && cmd != "":
		return domain.StageSpec{}, invalidField(path, fieldPrefix, "cmd and builtin are mutually exclusive")
	case builtin != "":
		if domain.StageKind(builtin) != domain.StageDataIngestion {
			return domain.StageSpec{}, invalidField(path, fieldPrefix+".builtin", fmt.Sprintf("unsupported builtin %q", builtin))
		}
		stage.Kind = domain.StageDataIngestion
	case cmd != "":
		stage.Kind = domain.StageCmd
		stage.Cmd = cmd
	default:
		return domain.StageSpec{}, invalidField(path, fieldPrefix, "either cmd or builtin is required")
	}

	return stage, nil
}

func mapGateRule(path, fieldPrefix string, g yamlGateRule) (domain.GateRule, error) {
	if strings.TrimSpace(g.Name) == "" {
		return domain.GateRule{}, invalidField(path, fieldPrefix+".name", "gate rule name is required")
	}
	if strings.TrimSpace(g.Path) == "" {
		return domain.GateRule{}, invalidField(path, fieldPrefix+".path", "gate rule path is required")
	}

	type op struct {
		op  domain.GateOp
		val *float64
	}
	var set []op
	for _, o := range []op{{domain.GateGte, g.Gte}, {domain.GateLte, g.Lte}, {domain.GateEq, g.Eq}} {
		if o.val != nil {
			set = append(set, o)
		}
	}
	if len(set) != 1 {
		return domain.GateRule{}, invalidField(path, fieldPrefix, "exactly one of gte/lte/eq is required")
	}

	return domain.GateRule{
		Name:  strings.TrimSpace(g.Name),
		Path:  strings.TrimSpace(g.Path),
		Op:    set[0].op,
		Value: *set[0].val,
	}, nil
}

func cloneTrimmed(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlpipeline.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
