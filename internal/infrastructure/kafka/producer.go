package kafka

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Ingest/internal/infrastructure"
	"github.com/andreyxaxa/Image-Ingest/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderDLQReason      = "dlq_reason"
	HeaderDLQSourceTopic = "dlq_source_topic"
)

// DeadLetterProducer parks notifications that could not be handled on a
// separate topic, the way a redrive policy does for SQS.
type DeadLetterProducer struct {
	writer messageWriter
	closer func() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

var _ infrastructure.DeadLetterSender = (*DeadLetterProducer)(nil)

func NewDeadLetterProducer(p *producer.Producer) *DeadLetterProducer {
	return &DeadLetterProducer{writer: p.Writer, closer: p.Close}
}

func (dp *DeadLetterProducer) Forward(ctx context.Context, event kafka.Message, reason error) error {
	headers := make([]kafka.Header, 0, len(event.Headers)+2)
	headers = append(headers, event.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderDLQSourceTopic, Value: []byte(event.Topic)},
		kafka.Header{Key: HeaderDLQReason, Value: []byte(reason.Error())},
	)

	err := dp.writer.WriteMessages(ctx, kafka.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("DeadLetterProducer - Forward - dp.writer.WriteMessages: %w", err)
	}

	return nil
}

func (dp *DeadLetterProducer) Close() error {
	if dp.closer == nil {
		return nil
	}

	if err := dp.closer(); err != nil {
		return fmt.Errorf("DeadLetterProducer - Close: %w", err)
	}

	return nil
}
