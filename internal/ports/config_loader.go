package ports

import "github.com/suraj-yadav-aiml/ctpipe/internal/domain"

// ProjectConfigLoader is the configuration manager: it loads config.yaml and
// params.yaml into their typed domain entities.
type ProjectConfigLoader interface {
	LoadProject(path string) (domain.ProjectConfig, error)
	LoadParams(path string) (domain.Params, error)
}
