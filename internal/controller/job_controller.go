package controller

import (
	"errors"

	"media-courier-be/internal/dto"
	"media-courier-be/internal/pkg/serverutils"
	"media-courier-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJobController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
}

type jobController struct {
	enqueueService service.IEnqueueService
}

func NewJobController(enqueueService service.IEnqueueService) IJobController {
	return &jobController{enqueueService: enqueueService}
}

func (c *jobController) RegisterRoutes(r fiber.Router) {
	r.Post("/jobs", c.Submit)
}

func (c *jobController) Submit(ctx *fiber.Ctx) error {
	var req dto.SubmitJobRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.enqueueService.Submit(ctx.Context(), req.ChatId, req.StatusMessageRef, req.SourceURL, req.RequesterId)
	if err != nil {
		if errors.Is(err, service.ErrDailyLimitReached) {
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, "daily download limit reached"))
		}
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Job queued", nil))
}
