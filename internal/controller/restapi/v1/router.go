package v1

import (
	"github.com/andreyxaxa/Image-Ingest/internal/usecase"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewImageRoutes(apiV1Group fiber.Router, img usecase.ImageUseCase, l logger.Interface) {
	r := &V1{img: img, logger: l}

	{
		// keys may contain '/'
		apiV1Group.Get("/images/*", r.getImage)
	}
}
