package v1

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/andreyxaxa/Image-Ingest/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

func (r *V1) getImage(ctx *fiber.Ctx) error {
	name, err := url.PathUnescape(ctx.Params("*"))
	if err != nil || name == "" {
		return errorResponse(ctx, http.StatusBadRequest, "invalid image name")
	}

	record, err := r.img.GetImage(ctx.UserContext(), name)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "image not found")
		}

		r.logger.Error(err, "restapi - v1 - getImage")

		return errorResponse(ctx, http.StatusInternalServerError, "table problems")
	}

	return ctx.Status(http.StatusOK).JSON(response.Image{
		FileName:    record.FileName,
		Description: record.Description,
	})
}

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}
