package config

import (
	"os"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
	"gopkg.in/yaml.v3"
)

// Loader is the configuration manager: it reads config.yaml and params.yaml
// and maps them into domain entities.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.ProjectConfigLoader = (*Loader)(nil)

func (l *Loader) LoadProject(path string) (domain.ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ProjectConfig{}, &domain.OpError{
			Op:   "config.load_project",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLProject
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.ProjectConfig{}, &domain.OpError{
			Op:   "config.load_project",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapProject(path, dto)
}

func (l *Loader) LoadParams(path string) (domain.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "config.load_params",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, &domain.OpError{
			Op:   "config.load_params",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if raw == nil {
		raw = map[string]any{}
	}
	return domain.Params(raw), nil
}
