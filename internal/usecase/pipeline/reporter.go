package pipeline

import (
	"errors"
	"slices"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
)

// Reporter collects per-record outcomes of one batch.
type Reporter struct {
	batchID   string
	outcomes  []entity.Outcome
	redeliver []string
	logger    logger.Interface
}

func NewReporter(batchID string, l logger.Interface) *Reporter {
	return &Reporter{
		batchID: batchID,
		logger:  l,
	}
}

// Record stores the outcome and logs failures. Rejected and unrouted events
// are logged at debug only.
func (r *Reporter) Record(o entity.Outcome) {
	r.outcomes = append(r.outcomes, o)

	switch o.Status {
	case entity.Failed:
		r.logger.Error(o.Err, "batch %s: message %s key %q (%s) failed", r.batchID, o.MessageID, o.Key, o.Kind)
	case entity.Skipped:
		if o.Err != nil && !errors.Is(o.Err, errs.ErrUnclassified) {
			r.logger.Warn("batch %s: message %s key %q (%s) skipped: %v", r.batchID, o.MessageID, o.Key, o.Kind, o.Err)

			return
		}
		r.logger.Debug("batch %s: message %s key %q (%s) skipped: %v", r.batchID, o.MessageID, o.Key, o.Kind, o.Err)
	default:
		r.logger.Debug("batch %s: message %s key %q (%s) applied", r.batchID, o.MessageID, o.Key, o.Kind)
	}
}

// Redeliver marks a message so the transport keeps it on the queue.
func (r *Reporter) Redeliver(o entity.Outcome) {
	r.Record(o)

	if o.MessageID != "" && !slices.Contains(r.redeliver, o.MessageID) {
		r.redeliver = append(r.redeliver, o.MessageID)
	}
}

func (r *Reporter) Report() entity.BatchReport {
	report := entity.BatchReport{
		BatchID:   r.batchID,
		Total:     len(r.outcomes),
		Redeliver: r.redeliver,
		Outcomes:  r.outcomes,
	}

	for _, o := range r.outcomes {
		switch o.Status {
		case entity.Applied:
			report.Applied++
		case entity.Skipped:
			report.Skipped++
		case entity.Failed:
			report.Failed++
		}
	}

	return report
}
