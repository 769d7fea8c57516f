package sqs

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/infrastructure"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu      sync.Mutex
	batches [][]infrastructure.QueueMessage
	deleted []string
}

func (q *fakeQueue) Receive(ctx context.Context) ([]infrastructure.QueueMessage, error) {
	q.mu.Lock()
	if len(q.batches) > 0 {
		b := q.batches[0]
		q.batches = q.batches[1:]
		q.mu.Unlock()

		return b, nil
	}
	q.mu.Unlock()

	<-ctx.Done()

	return nil, ctx.Err()
}

func (q *fakeQueue) Delete(_ context.Context, msgs []infrastructure.QueueMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, m := range msgs {
		q.deleted = append(q.deleted, m.Record.MessageID)
	}

	return nil
}

func (q *fakeQueue) Deleted() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]string(nil), q.deleted...)
}

type fakeBatchUseCase struct {
	report entity.BatchReport
	err    error
}

func (f *fakeBatchUseCase) ProcessBatch(context.Context, []entity.TransportRecord) (entity.BatchReport, error) {
	return f.report, f.err
}

func msgs(ids ...string) []infrastructure.QueueMessage {
	out := make([]infrastructure.QueueMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, infrastructure.QueueMessage{
			Record:        entity.TransportRecord{MessageID: id},
			ReceiptHandle: "rh-" + id,
		})
	}

	return out
}

func newTestController(uc *fakeBatchUseCase, q *fakeQueue) *QueueController {
	c := New("test", uc, q, logger.NewWithWriter("disabled", io.Discard), time.Second, time.Second, 1)
	c.ctx, c.cancel = context.WithCancel(context.Background())

	return c
}

func TestQueueController_DeletesHandledMessages(t *testing.T) {
	q := &fakeQueue{}
	c := newTestController(&fakeBatchUseCase{}, q)

	c.handleBatch(msgs("m1", "m2"))

	assert.Equal(t, []string{"m1", "m2"}, q.Deleted())
}

func TestQueueController_KeepsRedeliveredMessages(t *testing.T) {
	q := &fakeQueue{}
	c := newTestController(&fakeBatchUseCase{report: entity.BatchReport{Redeliver: []string{"m2"}}}, q)

	c.handleBatch(msgs("m1", "m2", "m3"))

	assert.Equal(t, []string{"m1", "m3"}, q.Deleted())
}

func TestQueueController_KeepsWholeBatchOnError(t *testing.T) {
	q := &fakeQueue{}
	c := newTestController(&fakeBatchUseCase{err: errors.New("unsupported file type")}, q)

	c.handleBatch(msgs("m1", "m2"))

	assert.Empty(t, q.Deleted())
}

func TestQueueController_StartAndShutdown(t *testing.T) {
	q := &fakeQueue{batches: [][]infrastructure.QueueMessage{msgs("m1")}}
	c := New("test", &fakeBatchUseCase{}, q, logger.NewWithWriter("disabled", io.Discard), time.Second, time.Second, 2)

	require.NoError(t, c.Start(context.Background()))
	assert.Error(t, c.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return len(q.Deleted()) == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, c.Shutdown(ctx))
}
