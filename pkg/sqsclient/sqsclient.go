package sqsclient

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Ingest/pkg/awsclient"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

type SQSClient struct {
	connAttempts int
	connTimeout  time.Duration

	Client *sqs.Client
}

// New builds the client and waits until every queue answers GetQueueAttributes.
func New(ctx context.Context, cfg aws.Config, queueURLs []string, opts ...Option) (*SQSClient, error) {
	c := &SQSClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Client = sqs.NewFromConfig(cfg)

	for _, url := range queueURLs {
		err := awsclient.Ping(ctx, "SQS", c.connAttempts, c.connTimeout, func(ctx context.Context) error {
			_, err := c.Client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{QueueUrl: aws.String(url)})

			return err
		})
		if err != nil {
			return nil, fmt.Errorf("SQSClient - New - %s: %w", url, err)
		}
	}

	return c, nil
}
