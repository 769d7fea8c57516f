package sqs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/infrastructure"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
)

const _receiveBackoff = time.Second

// QueueController long-polls one queue and feeds each received batch to a
// BatchUseCase. Messages are deleted only after the batch was handled.
type QueueController struct {
	name   string
	uc     usecase.BatchUseCase
	qc     infrastructure.QueueConsumer
	logger logger.Interface

	processTimeout time.Duration
	deleteTimeout  time.Duration

	pollers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	name string,
	uc usecase.BatchUseCase,
	qc infrastructure.QueueConsumer,
	l logger.Interface,
	processTimeout time.Duration,
	deleteTimeout time.Duration,
	pollers int,
) *QueueController {
	if pollers < 1 {
		pollers = 1
	}

	return &QueueController{
		name:           name,
		uc:             uc,
		qc:             qc,
		logger:         l,
		processTimeout: processTimeout,
		deleteTimeout:  deleteTimeout,
		pollers:        pollers,
	}
}

func (c *QueueController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("QueueController - Start - %s already started", c.name)
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	for i := 0; i < c.pollers; i++ {
		c.wg.Add(1)
		go c.poll()
	}

	return nil
}

func (c *QueueController) poll() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		msgs, err := c.qc.Receive(c.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Error(err, "QueueController - poll - %s - c.qc.Receive", c.name)

			select {
			case <-c.ctx.Done():
				return
			case <-time.After(_receiveBackoff):
			}

			continue
		}

		if len(msgs) == 0 {
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "QueueController - poll - %s - panic", c.name)
				}
			}()

			c.handleBatch(msgs)
		}()
	}
}

// handleBatch leaves every message on the queue when the batch failed as a
// whole, and otherwise deletes all but the ones marked for redelivery.
func (c *QueueController) handleBatch(msgs []infrastructure.QueueMessage) {
	records := make([]entity.TransportRecord, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, m.Record)
	}

	processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
	report, err := c.uc.ProcessBatch(processCtx, records)
	processCancel()
	if err != nil {
		c.logger.Error(err, "QueueController - handleBatch - %s - batch %s left for redelivery", c.name, report.BatchID)

		return
	}

	ack := make([]infrastructure.QueueMessage, 0, len(msgs))
	for _, m := range msgs {
		if !report.MustRedeliver(m.Record.MessageID) {
			ack = append(ack, m)
		}
	}

	c.logger.Info("QueueController - %s - batch %s: total=%d applied=%d skipped=%d failed=%d redeliver=%d",
		c.name, report.BatchID, report.Total, report.Applied, report.Skipped, report.Failed, len(report.Redeliver))

	if len(ack) == 0 {
		return
	}

	// the delete must outlive a shutdown that interrupted the batch
	deleteCtx, deleteCancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.deleteTimeout)
	defer deleteCancel()

	if err := c.qc.Delete(deleteCtx, ack); err != nil {
		c.logger.Error(err, "QueueController - handleBatch - %s - c.qc.Delete", c.name)
	}
}

func (c *QueueController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("QueueController - Shutdown - %s: %w", c.name, ctx.Err())
	}
}
