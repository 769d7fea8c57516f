package sqs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/infrastructure"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqs rejects batch deletes of more than ten entries
const maxDeleteBatch = 10

type SQSAPI interface {
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, in *sqs.DeleteMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error)
}

type QueueConsumer struct {
	client   SQSAPI
	queueURL string

	maxMessages       int32
	waitTime          time.Duration
	visibilityTimeout time.Duration
}

var _ infrastructure.QueueConsumer = (*QueueConsumer)(nil)

func NewQueueConsumer(client SQSAPI, queueURL string, maxMessages int32, waitTime, visibilityTimeout time.Duration) *QueueConsumer {
	return &QueueConsumer{
		client:            client,
		queueURL:          queueURL,
		maxMessages:       maxMessages,
		waitTime:          waitTime,
		visibilityTimeout: visibilityTimeout,
	}
}

// Receive long-polls the queue once.
func (c *QueueConsumer) Receive(ctx context.Context) ([]infrastructure.QueueMessage, error) {
	out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(c.queueURL),
		MaxNumberOfMessages:   c.maxMessages,
		WaitTimeSeconds:       int32(c.waitTime / time.Second),          //nolint:gosec // bounded by sqs to 20
		VisibilityTimeout:     int32(c.visibilityTimeout / time.Second), //nolint:gosec // bounded by sqs to 12h
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, fmt.Errorf("QueueConsumer - Receive - c.client.ReceiveMessage: %w", err)
	}

	msgs := make([]infrastructure.QueueMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, infrastructure.QueueMessage{
			Record:        toTransportRecord(m),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
		})
	}

	return msgs, nil
}

// Delete acknowledges msgs in chunks of ten.
func (c *QueueConsumer) Delete(ctx context.Context, msgs []infrastructure.QueueMessage) error {
	var failed []string

	for start := 0; start < len(msgs); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(msgs))

		entries := make([]types.DeleteMessageBatchRequestEntry, 0, end-start)
		byID := make(map[string]infrastructure.QueueMessage, end-start)
		for i, m := range msgs[start:end] {
			id := strconv.Itoa(start + i)
			byID[id] = m
			entries = append(entries, types.DeleteMessageBatchRequestEntry{
				Id:            aws.String(id),
				ReceiptHandle: aws.String(m.ReceiptHandle),
			})
		}

		out, err := c.client.DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
			QueueUrl: aws.String(c.queueURL),
			Entries:  entries,
		})
		if err != nil {
			return fmt.Errorf("QueueConsumer - Delete - c.client.DeleteMessageBatch: %w", err)
		}

		for _, f := range out.Failed {
			id := aws.ToString(f.Id)
			m, ok := byID[id]
			if !ok {
				failed = append(failed, fmt.Sprintf("unknown entry %q (%s)", id, aws.ToString(f.Message)))

				continue
			}
			failed = append(failed, fmt.Sprintf("%s (%s)", m.Record.MessageID, aws.ToString(f.Message)))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("QueueConsumer - Delete - not deleted: %s", strings.Join(failed, ", "))
	}

	return nil
}

func toTransportRecord(m types.Message) entity.TransportRecord {
	attrs := make(map[string]string, len(m.MessageAttributes))
	for name, v := range m.MessageAttributes {
		if v.StringValue != nil {
			attrs[name] = *v.StringValue
		}
	}

	return entity.TransportRecord{
		MessageID:  aws.ToString(m.MessageId),
		Body:       []byte(aws.ToString(m.Body)),
		Attributes: attrs,
	}
}
