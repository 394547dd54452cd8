package ports

import (
	"context"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// DatasetFetcher implements the built-in data ingestion stage: download the
// archive and extract it.
type DatasetFetcher interface {
	Fetch(ctx context.Context, cfg domain.DataIngestionConfig) error
}
