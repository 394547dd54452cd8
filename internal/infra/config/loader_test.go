package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

func TestLoadProject(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	pc, err := NewLoader().LoadProject(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.ArtifactsRoot != "artifacts" {
		t.Fatalf("expected artifacts root, got %q", pc.ArtifactsRoot)
	}
	if pc.DataIngestion.SourceURL != "https://example.com/chest-ct.zip" {
		t.Fatalf("unexpected source url %q", pc.DataIngestion.SourceURL)
	}
	if pc.DataIngestion.UnzipDir != "artifacts/data_ingestion/data" {
		t.Fatalf("unexpected unzip dir %q", pc.DataIngestion.UnzipDir)
	}
}

func TestLoadProject_DefaultsDerivedPaths(t *testing.T) {
	pc, err := MapProject("config.yaml", YAMLProject{
		ArtifactsRoot: "artifacts",
		DataIngestion: YAMLDataIngestion{SourceURL: "https://example.com/d.zip"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.DataIngestion.RootDir != "artifacts/data_ingestion" {
		t.Fatalf("unexpected ingestion root %q", pc.DataIngestion.RootDir)
	}
	if pc.DataIngestion.LocalDataFile != "artifacts/data_ingestion/data.zip" {
		t.Fatalf("unexpected local data file %q", pc.DataIngestion.LocalDataFile)
	}
	if pc.Training.TrainedModelPath != "artifacts/training/model.h5" {
		t.Fatalf("unexpected model path %q", pc.Training.TrainedModelPath)
	}
	// evaluation defaults to the trained model
	if pc.Evaluation.ModelPath != pc.Training.TrainedModelPath {
		t.Fatalf("expected evaluation model to default to trained model, got %q", pc.Evaluation.ModelPath)
	}
	if pc.Training.TrainingDataDir != pc.DataIngestion.UnzipDir {
		t.Fatalf("expected training data to default to unzip dir, got %q", pc.Training.TrainingDataDir)
	}
}

func TestLoadProject_Invalid(t *testing.T) {
	path := filepath.Join("testdata", "config_invalid.yaml")
	_, err := NewLoader().LoadProject(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "data_ingestion.source_url") {
		t.Fatalf("expected field in error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestMapProject_RejectsNonHTTPURL(t *testing.T) {
	_, err := MapProject("config.yaml", YAMLProject{
		ArtifactsRoot: "artifacts",
		DataIngestion: YAMLDataIngestion{SourceURL: "ftp://example.com/d.zip"},
	})
	if err == nil {
		t.Fatalf("expected error for ftp url")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join("testdata", "params.yaml")
	p, err := NewLoader().LoadParams(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p["BATCH_SIZE"] != 16 {
		t.Fatalf("expected BATCH_SIZE=16, got %v", p["BATCH_SIZE"])
	}
	if _, ok := p["IMAGE_SIZE"]; !ok {
		t.Fatalf("expected IMAGE_SIZE present")
	}
}

func TestLoadParams_Missing(t *testing.T) {
	_, err := NewLoader().LoadParams(filepath.Join("testdata", "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
