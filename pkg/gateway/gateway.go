package gateway

import (
	"context"
	"time"
)

// ChargeHandle carries what the requester needs to pay a created charge.
type ChargeHandle struct {
	ChargeId    string
	QRCode      string
	PaymentLink string
	ExpiresAt   *time.Time
}

// ChargeStatus is the gateway's view of a charge (poll or webhook).
type ChargeStatus struct {
	Status string // pending, paid, cancelled, expired
	PaidAt *time.Time
}

const (
	ChargeStatusPending   = "pending"
	ChargeStatusPaid      = "paid"
	ChargeStatusCancelled = "cancelled"
	ChargeStatusExpired   = "expired"
)

// Gateway is the payment collaborator behind recharge creation.
type Gateway interface {
	CreateCharge(ctx context.Context, amountCents int, reference, customerIdentifier, description string) (*ChargeHandle, error)
	GetChargeStatus(ctx context.Context, chargeId string) (*ChargeStatus, error)
}
