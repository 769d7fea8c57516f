package s3client

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Ingest/pkg/awsclient"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

type S3Client struct {
	connAttempts int
	connTimeout  time.Duration

	usePathStyle bool
	pingBucket   string

	Client *s3.Client
}

func New(ctx context.Context, cfg aws.Config, opts ...Option) (*S3Client, error) {
	s3c := &S3Client{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
	}

	for _, opt := range opts {
		opt(s3c)
	}

	s3c.Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = s3c.usePathStyle
	})

	// buckets come from notifications, so the check is only possible when one is named
	if s3c.pingBucket == "" {
		return s3c, nil
	}

	err := awsclient.Ping(ctx, "S3", s3c.connAttempts, s3c.connTimeout, func(ctx context.Context) error {
		_, err := s3c.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s3c.pingBucket)})

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("S3Client - New: %w", err)
	}

	return s3c, nil
}
