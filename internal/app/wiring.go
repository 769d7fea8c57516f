package app

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Ingest/config"
	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/repo"
	"github.com/andreyxaxa/Image-Ingest/internal/repo/persistent"
	"github.com/andreyxaxa/Image-Ingest/internal/repo/webapi"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase/mailer"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase/pipeline"
	"github.com/andreyxaxa/Image-Ingest/pkg/awsclient"
	"github.com/andreyxaxa/Image-Ingest/pkg/dynamoclient"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/andreyxaxa/Image-Ingest/pkg/postgres"
	"github.com/andreyxaxa/Image-Ingest/pkg/s3client"
	"github.com/aws/aws-sdk-go-v2/aws"
)

func newAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	loadCtx, cancel := context.WithTimeout(ctx, cfg.AWS.CfgLoadTimeout)
	defer cancel()

	awsCfg, err := awsclient.LoadConfig(loadCtx,
		awsclient.Region(cfg.AWS.Region),
		awsclient.Endpoint(cfg.AWS.Endpoint),
		awsclient.StaticCredentials(cfg.AWS.AccessKey, cfg.AWS.SecretKey),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("app - newAWSConfig: %w", err)
	}

	return awsCfg, nil
}

// newImageRecordRepo returns the table selected by TABLE_DRIVER and a
// function releasing its resources.
func newImageRecordRepo(
	ctx context.Context,
	cfg *config.Config,
	awsCfg aws.Config,
	dynamoOpts ...dynamoclient.Option,
) (repo.ImageRecordRepo, func(), error) {
	switch cfg.Table.Driver {
	case "postgres":
		pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
		if err != nil {
			return nil, nil, fmt.Errorf("app - newImageRecordRepo - postgres.New: %w", err)
		}

		if err := pg.Migrate(ctx, persistent.Migrations, persistent.MigrationsDir); err != nil {
			pg.Close()

			return nil, nil, fmt.Errorf("app - newImageRecordRepo - pg.Migrate: %w", err)
		}

		return persistent.NewImageRecordPostgresRepo(pg), pg.Close, nil
	default:
		dc, err := dynamoclient.New(ctx, awsCfg, cfg.Table.Name, dynamoOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("app - newImageRecordRepo - dynamoclient.New: %w", err)
		}

		return persistent.NewImageRecordDynamoRepo(dc.Client, cfg.Table.Name), func() {}, nil
	}
}

func newObjectRepo(ctx context.Context, cfg *config.Config, awsCfg aws.Config) (repo.ObjectRepo, error) {
	if !cfg.Pipeline.FetchObjects {
		return nil, nil
	}

	s3c, err := s3client.New(ctx, awsCfg,
		s3client.UsePathStyle(cfg.AWS.S3UsePathStyle),
		s3client.PingBucket(cfg.AWS.S3PingBucket),
	)
	if err != nil {
		return nil, fmt.Errorf("app - newObjectRepo - s3client.New: %w", err)
	}

	return persistent.NewObjectRepo(s3c), nil
}

func newPipeline(
	cfg *config.Config,
	routeName string,
	images repo.ImageRecordRepo,
	objects repo.ObjectRepo,
	l logger.Interface,
) (*pipeline.Pipeline, error) {
	route, err := entity.ParseRoute(routeName)
	if err != nil {
		return nil, fmt.Errorf("app - newPipeline: %w", err)
	}

	policy, err := pipeline.ParseFailurePolicy(cfg.Pipeline.FailurePolicy)
	if err != nil {
		return nil, fmt.Errorf("app - newPipeline: %w", err)
	}

	return pipeline.New(route, policy, pipeline.NewClassifier(cfg.Pipeline.CreateEvents...), images, objects,
		pipeline.CallTimeout(cfg.Pipeline.CallTimeout),
		pipeline.Logger(l),
	), nil
}

func newMailer(cfg *config.Config, kind mailer.Kind, awsCfg aws.Config, l logger.Interface) *mailer.MailerUseCase {
	return mailer.New(
		kind,
		webapi.NewMailSESSenderFromConfig(awsCfg),
		pipeline.NewClassifier(cfg.Pipeline.CreateEvents...),
		cfg.Mail.From,
		cfg.Mail.To,
		mailer.SendTimeout(cfg.Mail.SendTimeout),
		mailer.Logger(l),
	)
}
