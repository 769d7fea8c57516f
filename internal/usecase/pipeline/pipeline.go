package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/repo"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
	"github.com/google/uuid"
)

// FailurePolicy decides what a rejected create does to the rest of its batch.
type FailurePolicy string

const (
	// PolicyBatch aborts the batch so the transport redrives all of it.
	PolicyBatch FailurePolicy = "batch"
	// PolicyRecord redelivers only the offending message.
	PolicyRecord FailurePolicy = "record"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyBatch, PolicyRecord:
		return p, nil
	default:
		return "", fmt.Errorf("ParseFailurePolicy - unknown policy %q", s)
	}
}

// Pipeline projects notification batches of one route into the image table.
type Pipeline struct {
	route      entity.Route
	policy     FailurePolicy
	classifier *Classifier
	projector  *Projector

	logger logger.Interface
}

func New(
	route entity.Route,
	policy FailurePolicy,
	classifier *Classifier,
	images repo.ImageRecordRepo,
	objects repo.ObjectRepo,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		route:      route,
		policy:     policy,
		classifier: classifier,
		logger:     logger.NewWithWriter("disabled", io.Discard),
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		p.logger = o.logger
	}

	p.projector = NewProjector(images, objects, o.callTimeout, p.logger)

	return p
}

// ProcessBatch handles records sequentially. A non-nil error means the whole
// batch must be redelivered; per-record problems are in the report.
func (p *Pipeline) ProcessBatch(ctx context.Context, records []entity.TransportRecord) (entity.BatchReport, error) {
	rep := NewReporter(uuid.NewString(), p.logger)

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return rep.Report(), fmt.Errorf("Pipeline - ProcessBatch: %w", err)
		}

		envelopes, err := ParseEnvelopes(record)
		if err != nil {
			rep.Record(entity.Outcome{
				MessageID: record.MessageID,
				Kind:      entity.KindRejected,
				Status:    entity.Skipped,
				Err:       err,
			})

			continue
		}

		for _, env := range envelopes {
			if err := p.processEnvelope(ctx, rep, env); err != nil {
				return rep.Report(), fmt.Errorf("Pipeline - ProcessBatch - message %s: %w", record.MessageID, err)
			}
		}
	}

	return rep.Report(), nil
}

func (p *Pipeline) processEnvelope(ctx context.Context, rep *Reporter, env entity.Envelope) error {
	cls := p.classifier.Classify(env)
	outcome := entity.Outcome{
		MessageID: env.MessageID,
		Key:       env.ObjectKey,
		Kind:      cls.Kind,
	}

	if cls.Kind == entity.KindRejected {
		outcome.Status = entity.Skipped
		outcome.Err = fmt.Errorf("%s %q: %w", cls.Reason, env.EventName, errs.ErrUnclassified)
		rep.Record(outcome)

		return nil
	}

	if !p.route.Handles(cls.Kind) {
		outcome.Status = entity.Skipped
		outcome.Err = fmt.Errorf("route %s does not handle %s: %w", p.route, cls.Kind, errs.ErrUnclassified)
		rep.Record(outcome)

		return nil
	}

	key, err := resolveKey(cls.Kind, env.ObjectKey)
	if err != nil {
		outcome.Err = err

		if cls.Kind == entity.KindCreate {
			outcome.Status = entity.Failed

			if p.policy == PolicyRecord {
				rep.Redeliver(outcome)

				return nil
			}

			rep.Record(outcome)

			return err
		}

		outcome.Status = entity.Skipped
		rep.Record(outcome)

		return nil
	}
	outcome.Key = key

	if err := p.projector.Project(ctx, cls.Kind, env, key); err != nil {
		outcome.Status = entity.Failed
		outcome.Err = err
		rep.Record(outcome)

		return nil
	}

	outcome.Status = entity.Applied
	if cls.Kind == entity.KindGenericUpdate {
		outcome.Status = entity.Skipped
	}
	rep.Record(outcome)

	return nil
}

// resolveKey returns the table key for an envelope. Caption names are
// published already decoded and are only validated.
func resolveKey(kind entity.EventKind, raw string) (string, error) {
	if kind == entity.KindGenericUpdate {
		return raw, nil
	}

	key := raw
	if kind != entity.KindCaptionUpdate {
		var err error
		if key, err = NormalizeKey(raw); err != nil {
			return "", err
		}
	}

	if err := ValidateKey(key); err != nil {
		return "", err
	}

	return key, nil
}
