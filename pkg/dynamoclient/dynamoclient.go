package dynamoclient

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Ingest/pkg/awsclient"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

type DynamoClient struct {
	connAttempts int
	connTimeout  time.Duration
	skipPing     bool

	Client *dynamodb.Client
}

// New builds the client and waits until table is reachable.
func New(ctx context.Context, cfg aws.Config, table string, opts ...Option) (*DynamoClient, error) {
	dc := &DynamoClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
	}

	for _, opt := range opts {
		opt(dc)
	}

	dc.Client = dynamodb.NewFromConfig(cfg)

	if dc.skipPing {
		return dc, nil
	}

	err := awsclient.Ping(ctx, "DynamoDB", dc.connAttempts, dc.connTimeout, func(ctx context.Context) error {
		_, err := dc.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("DynamoClient - New: %w", err)
	}

	return dc, nil
}
