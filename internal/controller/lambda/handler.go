package lambda

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/aws/aws-lambda-go/events"
)

// Handler adapts Lambda event sources to a BatchUseCase.
type Handler struct {
	uc     usecase.BatchUseCase
	logger logger.Interface
}

func New(uc usecase.BatchUseCase, l logger.Interface) *Handler {
	return &Handler{uc: uc, logger: l}
}

// HandleSQS reports redelivered messages as partial batch failures. The event
// source mapping must have ReportBatchItemFailures enabled for them to count.
func (h *Handler) HandleSQS(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	records := make([]entity.TransportRecord, 0, len(event.Records))
	for _, r := range event.Records {
		records = append(records, fromSQS(r))
	}

	report, err := h.uc.ProcessBatch(ctx, records)
	if err != nil {
		return events.SQSEventResponse{}, fmt.Errorf("Handler - HandleSQS - h.uc.ProcessBatch: %w", err)
	}

	h.logReport(report)

	var resp events.SQSEventResponse
	for _, id := range report.Redeliver {
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: id})
	}

	return resp, nil
}

// HandleSNS fails the invocation when anything must be redelivered, since SNS
// retries whole events only.
func (h *Handler) HandleSNS(ctx context.Context, event events.SNSEvent) error {
	records := make([]entity.TransportRecord, 0, len(event.Records))
	for _, r := range event.Records {
		records = append(records, fromSNS(r.SNS))
	}

	report, err := h.uc.ProcessBatch(ctx, records)
	if err != nil {
		return fmt.Errorf("Handler - HandleSNS - h.uc.ProcessBatch: %w", err)
	}

	h.logReport(report)

	if len(report.Redeliver) > 0 {
		return fmt.Errorf("Handler - HandleSNS - %d message(s) must be redelivered", len(report.Redeliver))
	}

	return nil
}

func (h *Handler) logReport(r entity.BatchReport) {
	h.logger.Info("Handler - batch %s: total=%d applied=%d skipped=%d failed=%d redeliver=%d",
		r.BatchID, r.Total, r.Applied, r.Skipped, r.Failed, len(r.Redeliver))
}

func fromSQS(r events.SQSMessage) entity.TransportRecord {
	attrs := make(map[string]string, len(r.MessageAttributes))
	for name, v := range r.MessageAttributes {
		if v.StringValue != nil {
			attrs[name] = *v.StringValue
		}
	}

	return entity.TransportRecord{
		MessageID:  r.MessageId,
		Body:       []byte(r.Body),
		Attributes: attrs,
	}
}

// fromSNS flattens MessageAttributes, which arrive as {"Type": ..., "Value": ...}.
func fromSNS(e events.SNSEntity) entity.TransportRecord {
	attrs := make(map[string]string, len(e.MessageAttributes))
	for name, raw := range e.MessageAttributes {
		attr, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if v, ok := attr["Value"].(string); ok {
			attrs[name] = v
		}
	}

	return entity.TransportRecord{
		MessageID:  e.MessageID,
		Body:       []byte(e.Message),
		Attributes: attrs,
	}
}
