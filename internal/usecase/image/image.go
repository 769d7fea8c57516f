package image

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Ingest/internal/entity"
	"github.com/andreyxaxa/Image-Ingest/internal/repo"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
)

type ImageUseCase struct {
	images repo.ImageRecordRepo

	logger logger.Interface
}

func New(images repo.ImageRecordRepo, l logger.Interface) *ImageUseCase {
	return &ImageUseCase{
		images: images,
		logger: l,
	}
}

func (uc *ImageUseCase) GetImage(ctx context.Context, fileName string) (*entity.ImageRecord, error) {
	record, err := uc.images.Get(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - GetImage - uc.images.Get: %w", err)
	}

	return record, nil
}
