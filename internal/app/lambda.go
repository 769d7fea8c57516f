package app

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Ingest/config"
	lambdactrl "github.com/andreyxaxa/Image-Ingest/internal/controller/lambda"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase/mailer"
	"github.com/andreyxaxa/Image-Ingest/pkg/dynamoclient"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/aws/aws-lambda-go/lambda"
)

// RunLambda serves one function selected by LAMBDA_HANDLER. create and reject
// are subscribed to SQS queues, the others to SNS topics.
func RunLambda(cfg *config.Config) {
	ctx := context.Background()

	l := logger.New(cfg.Log.Level)

	awsCfg, err := newAWSConfig(ctx, cfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunLambda - newAWSConfig: %w", err))
	}

	switch cfg.Lambda.Handler {
	case "confirm":
		lambda.Start(lambdactrl.New(newMailer(cfg, mailer.Confirm, awsCfg, l), l).HandleSNS)

		return
	case "reject":
		lambda.Start(lambdactrl.New(newMailer(cfg, mailer.Reject, awsCfg, l), l).HandleSQS)

		return
	}

	images, closeImages, err := newImageRecordRepo(ctx, cfg, awsCfg, dynamoclient.SkipPing())
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunLambda - newImageRecordRepo: %w", err))
	}
	defer closeImages()

	objects, err := newObjectRepo(ctx, cfg, awsCfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunLambda - newObjectRepo: %w", err))
	}

	p, err := newPipeline(cfg, cfg.Lambda.Handler, images, objects, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunLambda - newPipeline: %w", err))
	}

	h := lambdactrl.New(p, l)

	if cfg.Lambda.Handler == "create" {
		lambda.Start(h.HandleSQS)

		return
	}

	lambda.Start(h.HandleSNS)
}
