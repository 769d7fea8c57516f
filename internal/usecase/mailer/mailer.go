package mailer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/repo"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase/pipeline"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/google/uuid"
)

type Kind string

const (
	// Confirm announces accepted uploads from the new-image topic.
	Confirm Kind = "confirm"
	// Reject answers messages that ended up on the dead-letter queue.
	Reject Kind = "reject"
)

const (
	confirmSubject = "New Image Upload"
	rejectSubject  = "Image Upload Rejected"

	defaultSendTimeout = 5 * time.Second
)

type MailerUseCase struct {
	kind       Kind
	sender     repo.MailSender
	classifier *pipeline.Classifier

	from string
	to   []string

	sendTimeout time.Duration
	logger      logger.Interface
}

func New(kind Kind, sender repo.MailSender, classifier *pipeline.Classifier, from string, to []string, opts ...Option) *MailerUseCase {
	uc := &MailerUseCase{
		kind:        kind,
		sender:      sender,
		classifier:  classifier,
		from:        from,
		to:          to,
		sendTimeout: defaultSendTimeout,
		logger:      logger.NewWithWriter("disabled", io.Discard),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ProcessBatch sends one mail per create event. Mail failures are logged and
// never redelivered.
func (uc *MailerUseCase) ProcessBatch(ctx context.Context, records []entity.TransportRecord) (entity.BatchReport, error) {
	rep := pipeline.NewReporter(uuid.NewString(), uc.logger)

	for _, record := range records {
		envelopes, err := pipeline.ParseEnvelopes(record)
		if err != nil {
			rep.Record(entity.Outcome{MessageID: record.MessageID, Status: entity.Skipped, Err: err})

			continue
		}

		for _, env := range envelopes {
			rep.Record(uc.notify(ctx, env))
		}
	}

	return rep.Report(), nil
}

func (uc *MailerUseCase) notify(ctx context.Context, env entity.Envelope) entity.Outcome {
	cls := uc.classifier.Classify(env)
	outcome := entity.Outcome{MessageID: env.MessageID, Key: env.ObjectKey, Kind: cls.Kind, Status: entity.Skipped}

	if cls.Kind != entity.KindCreate {
		return outcome
	}

	key, err := pipeline.NormalizeKey(env.ObjectKey)
	if err != nil {
		key = env.ObjectKey
	}
	outcome.Key = key

	var mail entity.Mail
	switch uc.kind {
	case Confirm:
		if err := pipeline.ValidateKey(key); err != nil {
			outcome.Err = err

			return outcome
		}
		mail = uc.confirmMail(env.BucketName, key)
	case Reject:
		mail = uc.rejectMail(env.BucketName, key)
	default:
		outcome.Err = fmt.Errorf("MailerUseCase - notify - unknown kind %q", uc.kind)

		return outcome
	}

	sendCtx, cancel := context.WithTimeout(ctx, uc.sendTimeout)
	defer cancel()

	if err := uc.sender.Send(sendCtx, mail); err != nil {
		outcome.Status = entity.Failed
		outcome.Err = fmt.Errorf("MailerUseCase - notify - uc.sender.Send: %w", err)

		return outcome
	}

	outcome.Status = entity.Applied

	return outcome
}

func (uc *MailerUseCase) confirmMail(bucket, key string) entity.Mail {
	return entity.Mail{
		From:    uc.from,
		To:      uc.to,
		Subject: confirmSubject,
		Body:    fmt.Sprintf("A new image was uploaded to bucket %s: %s\n", bucket, key),
	}
}

func (uc *MailerUseCase) rejectMail(bucket, key string) entity.Mail {
	reason := "it could not be processed"
	if err := pipeline.ValidateKey(key); err != nil {
		reason = "only .jpeg and .png files are accepted"
	}

	return entity.Mail{
		From:    uc.from,
		To:      uc.to,
		Subject: rejectSubject,
		Body:    fmt.Sprintf("The upload %s to bucket %s was rejected: %s.\n", key, bucket, reason),
	}
}
