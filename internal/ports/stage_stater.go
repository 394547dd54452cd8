package ports

import "github.com/suraj-yadav-aiml/ctpipe/internal/domain"

// StageStater tracks stage freshness against the lock file.
type StageStater interface {
	// Status reports whether the stage is fresh; reason explains a stale
	// verdict (changed dep, changed params, missing out, never run).
	Status(stage domain.StageSpec, params domain.Params) (fresh bool, reason string, err error)

	// Commit records the stage's current fingerprints after a successful run.
	Commit(stage domain.StageSpec, params domain.Params) error
}
