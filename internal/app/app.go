package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Image-Ingest/config"
	kafkactrl "github.com/andreyxaxa/Image-Ingest/internal/controller/kafka"
	"github.com/andreyxaxa/Image-Ingest/internal/controller/restapi"
	sqsctrl "github.com/andreyxaxa/Image-Ingest/internal/controller/sqs"
	"github.com/andreyxaxa/Image-Ingest/internal/infrastructure"
	infrakafka "github.com/andreyxaxa/Image-Ingest/internal/infrastructure/kafka"
	infrasqs "github.com/andreyxaxa/Image-Ingest/internal/infrastructure/sqs"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase/image"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase/mailer"
	"github.com/andreyxaxa/Image-Ingest/pkg/httpserver"
	"github.com/andreyxaxa/Image-Ingest/pkg/kafka/consumer"
	"github.com/andreyxaxa/Image-Ingest/pkg/kafka/producer"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/andreyxaxa/Image-Ingest/pkg/sqsclient"
)

type queue struct {
	name string
	url  string
	uc   usecase.BatchUseCase
}

// Run starts the long-running service: one SQS consumer per configured queue,
// an optional Kafka consumer and the HTTP server.
func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// AWS
	awsCfg, err := newAWSConfig(ctx, cfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newAWSConfig: %w", err))
	}

	// Repository
	images, closeImages, err := newImageRecordRepo(ctx, cfg, awsCfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newImageRecordRepo: %w", err))
	}
	defer closeImages()

	objects, err := newObjectRepo(ctx, cfg, awsCfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newObjectRepo: %w", err))
	}

	// Use-Case
	var queues []queue

	if cfg.SQS.CreateQueueURL != "" {
		p, err := newPipeline(cfg, "create", images, objects, l)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - newPipeline: %w", err))
		}
		queues = append(queues, queue{name: "create", url: cfg.SQS.CreateQueueURL, uc: p})
	}

	if cfg.SQS.TableQueueURL != "" {
		p, err := newPipeline(cfg, "table", images, objects, l)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - newPipeline: %w", err))
		}
		queues = append(queues, queue{name: "table", url: cfg.SQS.TableQueueURL, uc: p})
	}

	if cfg.SQS.ConfirmQueueURL != "" {
		queues = append(queues, queue{name: "confirm", url: cfg.SQS.ConfirmQueueURL, uc: newMailer(cfg, mailer.Confirm, awsCfg, l)})
	}

	if cfg.SQS.RejectQueueURL != "" {
		queues = append(queues, queue{name: "reject", url: cfg.SQS.RejectQueueURL, uc: newMailer(cfg, mailer.Reject, awsCfg, l)})
	}

	// SQS as Controller
	var queueControllers []*sqsctrl.QueueController

	if len(queues) > 0 {
		urls := make([]string, 0, len(queues))
		for _, q := range queues {
			urls = append(urls, q.url)
		}

		sqsc, err := sqsclient.New(ctx, awsCfg, urls)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - sqsclient.New: %w", err))
		}

		for _, q := range queues {
			queueControllers = append(queueControllers, sqsctrl.New(
				q.name,
				q.uc,
				infrasqs.NewQueueConsumer(sqsc.Client, q.url, cfg.SQS.MaxMessages, cfg.SQS.WaitTime, cfg.SQS.VisibilityTimeout),
				l,
				cfg.Pipeline.ProcessTimeout,
				cfg.SQS.DeleteTimeout,
				cfg.SQS.Pollers,
			))
		}
	}

	// Kafka as Controller
	var kafkaController *kafkactrl.KafkaController

	if len(cfg.Kafka.Brokers) > 0 {
		var uc usecase.BatchUseCase

		switch cfg.Kafka.Route {
		case string(mailer.Confirm), string(mailer.Reject):
			uc = newMailer(cfg, mailer.Kind(cfg.Kafka.Route), awsCfg, l)
		default:
			uc, err = newPipeline(cfg, cfg.Kafka.Route, images, objects, l)
			if err != nil {
				l.Fatal(fmt.Errorf("app - Run - newPipeline: %w", err))
			}
		}

		kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
		}

		var dlq infrastructure.DeadLetterSender
		if cfg.Kafka.DLQTopic != "" {
			dlqProducer, err := producer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.DLQTopic, producer.AllowAutoTopicCreation(true))
			if err != nil {
				l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
			}
			dlq = infrakafka.NewDeadLetterProducer(dlqProducer)
		}

		kafkaController = kafkactrl.New(
			uc,
			infrakafka.NewEventConsumer(kafkaConsumer),
			dlq,
			l,
			cfg.Kafka.CommitTimeout,
			cfg.Pipeline.ProcessTimeout,
			cfg.Kafka.Workers,
		)
	}

	if len(queueControllers) == 0 && kafkaController == nil {
		l.Warn("app - Run - no SQS queue or Kafka broker configured, serving HTTP only")
	}

	// HTTP Server
	var httpServer *httpserver.Server
	var httpNotify <-chan error

	if cfg.HTTP.Enabled {
		httpServer = httpserver.New(l, httpserver.Port(cfg.HTTP.Port))
		restapi.NewRouter(httpServer.App, image.New(images, l), l)
		httpNotify = httpServer.Notify()
	}

	// Start Components
	for _, qc := range queueControllers {
		if err := qc.Start(ctx); err != nil {
			l.Fatal(fmt.Errorf("app - Run - queueController.Start: %w", err))
		}
	}

	if kafkaController != nil {
		if err := kafkaController.Start(ctx); err != nil {
			l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
		}
	}

	if httpServer != nil {
		httpServer.Start()
	}

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpNotify:
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	if httpServer != nil {
		if err := httpServer.Shutdown(); err != nil {
			l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
		}
	}

	qcShutdownCtx, qcShutdownCancel := context.WithTimeout(context.Background(), cfg.SQS.ShutdownTimeout)
	defer qcShutdownCancel()
	for _, qc := range queueControllers {
		if err := qc.Shutdown(qcShutdownCtx); err != nil {
			l.Error(fmt.Errorf("app - Run - queueController.Shutdown: %w", err))
		}
	}

	if kafkaController != nil {
		kcShutdownCtx, kcShutdownCancel := context.WithTimeout(context.Background(), cfg.Kafka.ShutdownTimeout)
		defer kcShutdownCancel()
		if err := kafkaController.Shutdown(kcShutdownCtx); err != nil {
			l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
		}
	}
}
