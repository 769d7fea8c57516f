package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)

	return nil
}

func TestDeadLetterProducer_Forward(t *testing.T) {
	w := &captureWriter{}
	dp := &DeadLetterProducer{writer: w}

	err := dp.Forward(context.Background(), kafka.Message{
		Topic:   "bucket-notifications",
		Key:     []byte("images/a.gif"),
		Value:   []byte(`{"Records":[]}`),
		Headers: []kafka.Header{{Key: "comment_type", Value: []byte("Caption")}},
	}, errors.New("unsupported file type"))
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	got := w.msgs[0]
	assert.Empty(t, got.Topic)
	assert.Equal(t, []byte("images/a.gif"), got.Key)
	assert.Equal(t, []kafka.Header{
		{Key: "comment_type", Value: []byte("Caption")},
		{Key: HeaderDLQSourceTopic, Value: []byte("bucket-notifications")},
		{Key: HeaderDLQReason, Value: []byte("unsupported file type")},
	}, got.Headers)

	assert.NoError(t, dp.Close())
}
