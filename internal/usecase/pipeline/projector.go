package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/repo"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
)

const defaultCallTimeout = 5 * time.Second

// Projector turns one classified envelope into a single table operation.
type Projector struct {
	images  repo.ImageRecordRepo
	objects repo.ObjectRepo

	callTimeout time.Duration

	logger logger.Interface
}

// NewProjector builds a projector. objects may be nil, in which case a create
// is written without reading the object first.
func NewProjector(images repo.ImageRecordRepo, objects repo.ObjectRepo, callTimeout time.Duration, l logger.Interface) *Projector {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}

	return &Projector{
		images:      images,
		objects:     objects,
		callTimeout: callTimeout,
		logger:      l,
	}
}

func (p *Projector) Project(ctx context.Context, kind entity.EventKind, env entity.Envelope, key string) error {
	switch kind {
	case entity.KindCreate:
		return p.create(ctx, env.BucketName, key)
	case entity.KindDelete:
		return p.delete(ctx, key)
	case entity.KindCaptionUpdate:
		return p.updateCaption(ctx, key, env.Description)
	case entity.KindGenericUpdate:
		p.logger.Info("Projector - Project - update %q carries no caption, nothing to write", env.ObjectKey)

		return nil
	default:
		return fmt.Errorf("Projector - Project - unexpected kind %s", kind)
	}
}

func (p *Projector) create(ctx context.Context, bucket, key string) error {
	if p.objects != nil {
		callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
		data, err := p.objects.DownloadBytes(callCtx, bucket, key)
		cancel()
		if err != nil {
			return fmt.Errorf("Projector - create - p.objects.DownloadBytes: %w", err)
		}

		p.logger.Debug("Projector - create - fetched %s/%s (%d bytes)", bucket, key, len(data))
	}

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	if err := p.images.Put(callCtx, entity.ImageRecord{FileName: key}); err != nil {
		return fmt.Errorf("Projector - create - p.images.Put: %w", err)
	}

	return nil
}

func (p *Projector) delete(ctx context.Context, key string) error {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	if err := p.images.Delete(callCtx, key); err != nil {
		return fmt.Errorf("Projector - delete - p.images.Delete: %w", err)
	}

	return nil
}

func (p *Projector) updateCaption(ctx context.Context, key, description string) error {
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	if err := p.images.UpdateDescription(callCtx, key, description); err != nil {
		return fmt.Errorf("Projector - updateCaption - p.images.UpdateDescription: %w", err)
	}

	return nil
}
