package ports

import "github.com/suraj-yadav-aiml/ctpipe/internal/domain"

// ArtifactStore persists pipeline runs for traceability.
type ArtifactStore interface {
	SaveRun(run domain.PipelineRun) (id string, err error)
	ListRuns() ([]domain.PipelineRun, error)
}
