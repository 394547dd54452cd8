package runstore

import (
	"context"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// DDBIndex mirrors the local run index into a DynamoDB table so runs from
// several machines land in one place. It is best-effort: callers treat a put
// failure as a warning, the local artifact is the source of truth.
type DDBIndex struct {
	client    *sdk.Client
	tableName string
	timeout   time.Duration
}

// NewDDBIndex builds the shared index client. Credentials come from the
// default AWS chain (environment, shared config), which godotenv feeds when
// a workspace carries a .env file.
func NewDDBIndex(ctx context.Context, cfg domain.IndexConfig) (*DDBIndex, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "runstore.ddb.config",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	return &DDBIndex{
		client:    sdk.NewFromConfig(awsCfg),
		tableName: cfg.DynamoTable,
		timeout:   10 * time.Second,
	}, nil
}

// PutRun writes one index record for a saved run.
func (d *DDBIndex) PutRun(ctx context.Context, id string, run domain.PipelineRun) error {
	rec := NewIndexRecord(id, "", run)

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return &domain.OpError{
			Op:   "runstore.ddb.marshal",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	putCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	_, err = d.client.PutItem(putCtx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      item,
	})
	if err != nil {
		return &domain.OpError{
			Op:   "runstore.ddb.put",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	return nil
}
