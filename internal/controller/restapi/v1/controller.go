package v1

import (
	"github.com/andreyxaxa/Image-Ingest/internal/usecase"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
)

type V1 struct {
	img    usecase.ImageUseCase
	logger logger.Interface
}
