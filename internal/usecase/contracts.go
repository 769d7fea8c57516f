package usecase

import (
	"context"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
)

type (
	// BatchUseCase is implemented by every consumer of a notification batch:
	// the table pipeline and the mailers.
	BatchUseCase interface {
		ProcessBatch(ctx context.Context, records []entity.TransportRecord) (entity.BatchReport, error)
	}

	ImageUseCase interface {
		GetImage(ctx context.Context, fileName string) (*entity.ImageRecord, error)
	}
)
