package domain

// StageKind distinguishes built-in stage implementations from shell commands.
type StageKind string

const (
	// StageCmd runs the stage's Cmd through the shell runner.
	StageCmd StageKind = "cmd"
	// StageDataIngestion is the built-in dataset download/extract component.
	StageDataIngestion StageKind = "data_ingestion"
)

// StageSpec describes a single pipeline stage and its tracked inputs/outputs.
type StageSpec struct {
	Name string
	Kind StageKind

	// Cmd is the shell command for StageCmd stages. Empty for built-ins.
	Cmd string

	// After lists stage names that must run first, independent of any
	// dep/out overlap.
	After []string

	// Deps are files (or directories) whose content makes this stage stale.
	Deps []string

	// Outs are files this stage produces. A stage whose out is another
	// stage's dep runs first.
	Outs []string

	// Params are params.yaml keys tracked for this stage's staleness.
	Params []string
}

// GateOp is the comparison a gate rule applies to an extracted metric.
type GateOp string

const (
	GateGte GateOp = "gte"
	GateLte GateOp = "lte"
	GateEq  GateOp = "eq"
)

// GateRule checks one metric in the evaluation scores file.
type GateRule struct {
	Name  string
	Path  string // JSONPath into the scores document
	Op    GateOp
	Value float64
}

// Pipeline is the data-version-control spec: the stage graph plus the
// evaluation gate.
type Pipeline struct {
	Stages []StageSpec
	Gate   []GateRule
}

// StageByName returns the stage with the given name, if present.
func (p Pipeline) StageByName(name string) (StageSpec, bool) {
	for _, s := range p.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageSpec{}, false
}

// PipelineRef is a lightweight reference to a pipeline file on disk.
type PipelineRef struct {
	Name string
	Path string
}
