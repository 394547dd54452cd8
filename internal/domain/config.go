package domain

// Config represents the minimal ctpipe workspace configuration loaded from ctpipe.yaml.
type Config struct {
	Paths PathsConfig
	Index IndexConfig
}

type PathsConfig struct {
	ConfigFile   string
	ParamsFile   string
	PipelineFile string
	ArtifactsDir string
	RunsDir      string
}

// IndexConfig controls where run index records go. The local JSONL index is
// always available; the DynamoDB index is opt-in via a table name.
type IndexConfig struct {
	Local       bool
	DynamoTable string
	AWSRegion   string
}

// DefaultConfig provides sane defaults if ctpipe.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			ConfigFile:   "config/config.yaml",
			ParamsFile:   "params.yaml",
			PipelineFile: "pipeline.yaml",
			ArtifactsDir: "artifacts",
			RunsDir:      "runs",
		},
		Index: IndexConfig{
			Local: true,
		},
	}
}

// WorkspaceSpec describes a workspace to initialize.
type WorkspaceSpec struct {
	Root string
}
