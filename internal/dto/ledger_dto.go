package dto

import "time"

type PlanResponse struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	PriceCents    int    `json:"price_cents"`
	PostsIncluded int    `json:"posts_included"`
}

type CreatePurchaseRequest struct {
	RequesterId int64  `json:"requester_id" validate:"required"`
	ChatRef     int64  `json:"chat_ref"`
	PlanSlug    string `json:"plan_slug" validate:"required"`
}

type PurchaseResponse struct {
	RechargeId  uint       `json:"recharge_id"`
	ChargeId    string     `json:"charge_id"`
	AmountCents int        `json:"amount_cents"`
	Status      string     `json:"status"`
	PaymentLink string     `json:"payment_link,omitempty"`
	QRCode      string     `json:"qr_code,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type WebhookRequest struct {
	ChargeId string `json:"charge_id" validate:"required"`
}

type WebhookResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}
