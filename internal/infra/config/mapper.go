package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// MapProject validates the DTO and fills in path defaults derived from
// artifacts_root, so a minimal config.yaml stays minimal.
func MapProject(filePath string, yp YAMLProject) (domain.ProjectConfig, error) {
	if strings.TrimSpace(yp.ArtifactsRoot) == "" {
		return domain.ProjectConfig{}, invalidField(filePath, "artifacts_root", "artifacts_root is required")
	}

	root := strings.TrimSpace(yp.ArtifactsRoot)

	ing := yp.DataIngestion
	if strings.TrimSpace(ing.SourceURL) == "" {
		return domain.ProjectConfig{}, invalidField(filePath, "data_ingestion.source_url", "source_url is required")
	}
	if !strings.HasPrefix(ing.SourceURL, "http://") && !strings.HasPrefix(ing.SourceURL, "https://") {
		return domain.ProjectConfig{}, invalidField(filePath, "data_ingestion.source_url", fmt.Sprintf("unsupported url scheme in %q", ing.SourceURL))
	}

	ingRoot := defaultPath(ing.RootDir, root, "data_ingestion")

	pc := domain.ProjectConfig{
		ArtifactsRoot: root,
		DataIngestion: domain.DataIngestionConfig{
			RootDir:       ingRoot,
			SourceURL:     strings.TrimSpace(ing.SourceURL),
			LocalDataFile: defaultPath(ing.LocalDataFile, ingRoot, "data.zip"),
			UnzipDir:      defaultPath(ing.UnzipDir, ingRoot, "data"),
		},
	}

	trRoot := defaultPath(yp.Training.RootDir, root, "training")
	pc.Training = domain.TrainingConfig{
		RootDir:          trRoot,
		TrainedModelPath: defaultPath(yp.Training.TrainedModelPath, trRoot, "model.h5"),
		TrainingDataDir:  defaultPath(yp.Training.TrainingDataDir, pc.DataIngestion.UnzipDir, ""),
	}

	pc.Evaluation = domain.EvaluationConfig{
		ModelPath:  defaultPath(yp.Evaluation.ModelPath, "", pc.Training.TrainedModelPath),
		ScoresFile: defaultPath(yp.Evaluation.ScoresFile, "", "scores.json"),
	}

	return pc, nil
}

// defaultPath returns the explicit value when set, otherwise base/name.
func defaultPath(explicit, base, name string) string {
	v := strings.TrimSpace(explicit)
	if v != "" {
		return v
	}
	if name == "" {
		return base
	}
	if base == "" {
		return name
	}
	return path.Join(base, name)
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
