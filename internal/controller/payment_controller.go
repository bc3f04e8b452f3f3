package controller

import (
	"errors"

	"media-courier-be/internal/dto"
	"media-courier-be/internal/pkg/serverutils"
	"media-courier-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	CreatePurchase(ctx *fiber.Ctx) error
}

type paymentController struct {
	ledgerService service.ILedgerService
}

func NewPaymentController(ledgerService service.ILedgerService) IPaymentController {
	return &paymentController{ledgerService: ledgerService}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	r.Get("/plans", c.GetPlans)
	r.Post("/purchases", c.CreatePurchase)
}

func (c *paymentController) GetPlans(ctx *fiber.Ctx) error {
	plans, err := c.ledgerService.GetPlans(ctx.Context())
	if err != nil {
		return err
	}

	res := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, dto.PlanResponse{
			Slug:          p.Slug,
			Name:          p.Name,
			PriceCents:    p.PriceCents,
			PostsIncluded: p.PostsIncluded,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", res))
}

func (c *paymentController) CreatePurchase(ctx *fiber.Ctx) error {
	var req dto.CreatePurchaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	chatRef := req.ChatRef
	if chatRef == 0 {
		chatRef = req.RequesterId
	}

	recharge, handle, err := c.ledgerService.CreateRecharge(ctx.Context(), req.RequesterId, chatRef, req.PlanSlug)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "plan not found")
		}
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Purchase created", dto.PurchaseResponse{
		RechargeId:  recharge.Id,
		ChargeId:    recharge.GatewayChargeId,
		AmountCents: recharge.AmountCents,
		Status:      string(recharge.Status),
		PaymentLink: handle.PaymentLink,
		QRCode:      handle.QRCode,
		ExpiresAt:   handle.ExpiresAt,
	}))
}
