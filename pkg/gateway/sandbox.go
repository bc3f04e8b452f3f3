package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sandbox is a stub gateway for developing and testing the recharge flow
// without an external API.
type Sandbox struct{}

func NewSandbox() *Sandbox {
	return &Sandbox{}
}

func (g *Sandbox) CreateCharge(ctx context.Context, amountCents int, reference, customerIdentifier, description string) (*ChargeHandle, error) {
	chargeId := fmt.Sprintf("sandbox-%s", strings.ReplaceAll(uuid.New().String(), "-", "")[:16])
	expiresAt := time.Now().UTC().Add(30 * time.Minute)
	return &ChargeHandle{
		ChargeId:    chargeId,
		QRCode:      fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s", chargeId),
		PaymentLink: fmt.Sprintf("https://example.com/pay/%s", chargeId),
		ExpiresAt:   &expiresAt,
	}, nil
}

func (g *Sandbox) GetChargeStatus(ctx context.Context, chargeId string) (*ChargeStatus, error) {
	// A charge id ending in "-paid" is considered settled, for manual tests.
	if strings.HasSuffix(chargeId, "-paid") {
		now := time.Now().UTC()
		return &ChargeStatus{Status: ChargeStatusPaid, PaidAt: &now}, nil
	}
	return &ChargeStatus{Status: ChargeStatusPending}, nil
}
