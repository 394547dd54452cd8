package ports

import "github.com/suraj-yadav-aiml/ctpipe/internal/domain"

// PipelineLoader loads pipeline specs from a source (e.g., filesystem).
type PipelineLoader interface {
	LoadPipeline(path string) (domain.Pipeline, error)
}
