package restapi

import (
	v1 "github.com/andreyxaxa/Image-Ingest/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Image-Ingest/internal/usecase"
	"github.com/andreyxaxa/Image-Ingest/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewRouter(app *fiber.App, img usecase.ImageUseCase, l logger.Interface) {
	// K8s probe
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewImageRoutes(apiV1Group, img, l)
	}
}
