package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/infrastructure"
	kafkapc "github.com/andreyxaxa/Image-Ingest/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const _readBackoff = time.Second

// KafkaController consumes S3-compatible bucket notifications (MinIO, Garage)
// published to a topic. Every message is handled as a batch of one.
type KafkaController struct {
	uc     usecase.BatchUseCase
	ec     infrastructure.EventConsumer
	dlq    infrastructure.DeadLetterSender
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

// New builds the controller. dlq may be nil, in which case failed messages
// stay uncommitted until the next commit in their partition moves past them.
func New(
	uc usecase.BatchUseCase,
	ec infrastructure.EventConsumer,
	dlq infrastructure.DeadLetterSender,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *KafkaController {
	if workers < 1 {
		workers = 1
	}

	return &KafkaController{
		uc:             uc,
		ec:             ec,
		dlq:            dlq,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				event, err := c.ec.ReadEvent(c.ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					c.logger.Error(err, "KafkaController - Start - c.ec.ReadEvent")

					select {
					case <-c.ctx.Done():
						return
					case <-time.After(_readBackoff):
					}

					continue
				}

				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

// handle reports whether the message may be committed.
func (c *KafkaController) handle(event kafka.Message) bool {
	record := kafkapc.ToTransportRecord(event)

	processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
	report, err := c.uc.ProcessBatch(processCtx, []entity.TransportRecord{record})
	processCancel()

	switch {
	case err != nil && c.ctx.Err() != nil:
		// shutting down, the message is read again after restart
		return false
	case err != nil:
		c.logger.Error(err, "KafkaController - handle - %s - c.uc.ProcessBatch", record.MessageID)

		return c.deadLetter(event, err)
	case report.MustRedeliver(record.MessageID):
		return c.deadLetter(event, fmt.Errorf("%s marked for redelivery", record.MessageID))
	}

	return true
}

func (c *KafkaController) deadLetter(event kafka.Message, reason error) bool {
	if c.dlq == nil {
		c.logger.Warn("KafkaController - deadLetter - %s/%d/%d left uncommitted", event.Topic, event.Partition, event.Offset)

		return false
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
	defer cancel()

	if err := c.dlq.Forward(ctx, event, reason); err != nil {
		c.logger.Error(err, "KafkaController - deadLetter - c.dlq.Forward")

		return false
	}

	return true
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			if !c.handle(event) {
				return
			}

			commitCtx, commitCancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
			err := c.ec.CommitEvent(commitCtx, event)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.ec.CommitEvent")
			}
		}()
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		if err := c.ec.Close(); err != nil {
			c.logger.Error(err, "KafkaController - Shutdown - c.ec.Close")
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				c.logger.Error(err, "KafkaController - Shutdown - c.dlq.Close")
			}
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("KafkaController - Shutdown: %w", ctx.Err())
	}
}
