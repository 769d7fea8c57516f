package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type settings struct {
	region    string
	endpoint  string
	accessKey string
	secretKey string
}

type Option func(*settings)

func Region(region string) Option {
	return func(s *settings) {
		s.region = region
	}
}

// Endpoint overrides the service endpoint for every client built from the
// config, e.g. LocalStack, Garage or MinIO.
func Endpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// StaticCredentials is ignored unless both keys are set.
func StaticCredentials(accessKey, secretKey string) Option {
	return func(s *settings) {
		s.accessKey = accessKey
		s.secretKey = secretKey
	}
}

// LoadConfig resolves the shared AWS config used by the s3, dynamodb, sqs and
// sesv2 clients.
func LoadConfig(ctx context.Context, opts ...Option) (aws.Config, error) {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}

	var loadOpts []func(*config.LoadOptions) error

	if s.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.region))
	}

	if s.endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(s.endpoint))
	}

	if s.accessKey != "" && s.secretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awsclient - LoadConfig - config.LoadDefaultConfig: %w", err)
	}

	return cfg, nil
}
