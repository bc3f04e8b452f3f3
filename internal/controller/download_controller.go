package controller

import (
	"errors"

	"media-courier-be/pkg/hosting"

	"github.com/gofiber/fiber/v2"
)

type IDownloadController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
}

type downloadController struct {
	store *hosting.Store
}

func NewDownloadController(store *hosting.Store) IDownloadController {
	return &downloadController{store: store}
}

func (c *downloadController) RegisterRoutes(r fiber.Router) {
	r.Get("/download/:file_id", c.Download)
}

func (c *downloadController) Download(ctx *fiber.Ctx) error {
	if c.store == nil {
		return fiber.NewError(fiber.StatusNotFound, "hosting disabled")
	}

	fileId := ctx.Params("file_id")
	path, err := c.store.Resolve(fileId)
	if err != nil {
		if errors.Is(err, hosting.ErrInvalidId) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid file id")
		}
		return fiber.NewError(fiber.StatusNotFound, "file not found or expired")
	}

	name := fileId
	if len(name) > 8 {
		name = name[:8]
	}
	return ctx.Download(path, "video_"+name+".mp4")
}
