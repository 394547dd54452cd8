package workspacefinder

import (
	"os"
	"path/filepath"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads ctpipe.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, "ctpipe.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Ctpipe.Paths.ConfigFile != "" {
		cfg.Paths.ConfigFile = y.Ctpipe.Paths.ConfigFile
	}
	if y.Ctpipe.Paths.ParamsFile != "" {
		cfg.Paths.ParamsFile = y.Ctpipe.Paths.ParamsFile
	}
	if y.Ctpipe.Paths.PipelineFile != "" {
		cfg.Paths.PipelineFile = y.Ctpipe.Paths.PipelineFile
	}
	if y.Ctpipe.Paths.ArtifactsDir != "" {
		cfg.Paths.ArtifactsDir = y.Ctpipe.Paths.ArtifactsDir
	}
	if y.Ctpipe.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = y.Ctpipe.Paths.RunsDir
	}
	if y.Ctpipe.Index.Local != nil {
		cfg.Index.Local = *y.Ctpipe.Index.Local
	}
	if y.Ctpipe.Index.DynamoTable != "" {
		cfg.Index.DynamoTable = y.Ctpipe.Index.DynamoTable
	}
	if y.Ctpipe.Index.AWSRegion != "" {
		cfg.Index.AWSRegion = y.Ctpipe.Index.AWSRegion
	}

	return cfg, nil
}

type yamlConfig struct {
	Ctpipe struct {
		Paths struct {
			ConfigFile   string `yaml:"config_file"`
			ParamsFile   string `yaml:"params_file"`
			PipelineFile string `yaml:"pipeline_file"`
			ArtifactsDir string `yaml:"artifacts_dir"`
			RunsDir      string `yaml:"runs_dir"`
		} `yaml:"paths"`

		Index struct {
			Local       *bool  `yaml:"local"`
			DynamoTable string `yaml:"dynamo_table"`
			AWSRegion   string `yaml:"aws_region"`
		} `yaml:"index"`
	} `yaml:"ctpipe"`
}
