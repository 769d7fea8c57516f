package infrastructure

import (
	"context"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/segmentio/kafka-go"
)

type (
	// QueueMessage pairs a received record with the handle needed to delete it.
	QueueMessage struct {
		Record        entity.TransportRecord
		ReceiptHandle string
	}

	QueueConsumer interface {
		Receive(ctx context.Context) ([]QueueMessage, error)
		Delete(ctx context.Context, msgs []QueueMessage) error
	}

	EventConsumer interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		CommitEvent(ctx context.Context, event kafka.Message) error
		Close() error
	}

	DeadLetterSender interface {
		Forward(ctx context.Context, event kafka.Message, reason error) error
		Close() error
	}
)
