package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestToTransportRecord(t *testing.T) {
	rec := ToTransportRecord(kafka.Message{
		Topic:     "minio-events",
		Partition: 2,
		Offset:    41,
		Value:     []byte(`{"Records":[]}`),
		Headers:   []kafka.Header{{Key: "comment_type", Value: []byte("Caption")}},
	})

	assert.Equal(t, "minio-events/2/41", rec.MessageID)
	assert.Equal(t, `{"Records":[]}`, string(rec.Body))
	assert.Equal(t, map[string]string{"comment_type": "Caption"}, rec.Attributes)
}
