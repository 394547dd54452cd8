package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Vars is a flat map of configuration variables usable in {{placeholders}}.
type Vars map[string]string

// Env renders the vars as CTPIPE_<KEY>=<value> pairs, sorted by key, so
// stage processes can read configured paths without parsing YAML.
func (v Vars) Env() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, "CTPIPE_"+envKey(k)+"="+v[k])
	}
	return out
}

// ProjectConfig is the typed view of config.yaml: the per-stage sections the
// built-in components need. Stage commands that run user code only see these
// values through resolved placeholders and environment variables.
type ProjectConfig struct {
	ArtifactsRoot string

	DataIngestion DataIngestionConfig
	Training      TrainingConfig
	Evaluation    EvaluationConfig
}

// DataIngestionConfig drives the built-in dataset download/extract stage.
type DataIngestionConfig struct {
	RootDir       string
	SourceURL     string
	LocalDataFile string
	UnzipDir      string
}

// TrainingConfig locates the training stage's inputs and outputs. The tool
// never interprets them; they exist so pipeline files can reference
// {{training_data_dir}} and friends instead of hardcoding paths.
type TrainingConfig struct {
	RootDir          string
	TrainedModelPath string
	TrainingDataDir  string
}

// EvaluationConfig locates the model under evaluation and the metrics file
// the evaluation stage writes.
type EvaluationConfig struct {
	ModelPath  string
	ScoresFile string
}

// Vars flattens the project config into placeholder variables for stage
// command/dep/out resolution.
func (p ProjectConfig) Vars() Vars {
	return Vars{
		"artifacts_root":     p.ArtifactsRoot,
		"ingestion_root":     p.DataIngestion.RootDir,
		"source_url":         p.DataIngestion.SourceURL,
		"local_data_file":    p.DataIngestion.LocalDataFile,
		"unzip_dir":          p.DataIngestion.UnzipDir,
		"training_root":      p.Training.RootDir,
		"trained_model_path": p.Training.TrainedModelPath,
		"training_data_dir":  p.Training.TrainingDataDir,
		"model_path":         p.Evaluation.ModelPath,
		"scores_file":        p.Evaluation.ScoresFile,
	}
}

// Params holds the hyperparameters from params.yaml. The engine treats them
// as opaque: they are fingerprinted for staleness tracking and exported to
// stage processes, never interpreted.
type Params map[string]any

// Env renders params as environment variable assignments in the form
// CTPIPE_PARAM_<KEY>=<value>. Nested structures are JSON-encoded. Output is
// sorted so stage processes and fingerprints see a stable view.
func (p Params) Env() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, "CTPIPE_PARAM_"+envKey(k)+"="+paramString(p[k]))
	}
	return out
}

// Subset returns only the named params. Unknown names map to an explicit
// "<unset>" marker so adding a param to a stage's tracking list makes the
// stage stale even before the param exists.
func (p Params) Subset(names []string) Params {
	out := Params{}
	for _, n := range names {
		if v, ok := p[n]; ok {
			out[n] = v
		} else {
			out[n] = "<unset>"
		}
	}
	return out
}

func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64, int, int64, bool:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func envKey(k string) string {
	k = strings.ToUpper(k)
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range k {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
