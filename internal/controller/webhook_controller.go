package controller

import (
	"media-courier-be/internal/dto"
	"media-courier-be/internal/pkg/logger"
	"media-courier-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	PaymentNotification(ctx *fiber.Ctx) error
}

type webhookController struct {
	ledgerService service.ILedgerService
	log           logger.ILogger
}

func NewWebhookController(ledgerService service.ILedgerService, log logger.ILogger) IWebhookController {
	return &webhookController{ledgerService: ledgerService, log: log}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/payments/webhook", c.PaymentNotification)
}

// PaymentNotification confirms a recharge by gateway charge id. Replays and
// unknown charges answer 200 "ignored" so the gateway stops retrying; only a
// processing failure earns a 500 retry.
func (c *webhookController) PaymentNotification(ctx *fiber.Ctx) error {
	var req dto.WebhookRequest
	if err := ctx.BodyParser(&req); err != nil || req.ChargeId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.WebhookResponse{
			Status: "error",
			Detail: "charge_id is required",
		})
	}

	credited, err := c.ledgerService.ConfirmRecharge(ctx.Context(), req.ChargeId)
	if err != nil {
		c.log.Error("webhook", "confirm recharge failed", map[string]interface{}{
			"charge_id": req.ChargeId,
			"error":     err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.WebhookResponse{Status: "error"})
	}

	if !credited {
		return ctx.JSON(dto.WebhookResponse{Status: "ignored", Detail: "charge not pending or unknown"})
	}
	return ctx.JSON(dto.WebhookResponse{Status: "ok"})
}
