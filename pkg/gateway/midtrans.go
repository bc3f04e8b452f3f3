package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Midtrans creates Snap payment pages for recharges. The order id doubles as
// the gateway charge id consumed by the webhook.
type Midtrans struct {
	snapClient snap.Client
	coreClient coreapi.Client
}

func NewMidtrans(serverKey string, production bool) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	g := &Midtrans{}
	g.snapClient.New(serverKey, env)
	g.coreClient.New(serverKey, env)
	return g
}

func (g *Midtrans) CreateCharge(ctx context.Context, amountCents int, reference, customerIdentifier, description string) (*ChargeHandle, error) {
	// Midtrans order ids must be globally unique; the reference alone repeats
	// when a user re-buys the same plan.
	orderId := fmt.Sprintf("%s-%s", reference, uuid.New().String()[:8])

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: int64(amountCents),
		},
		Callbacks: &snap.Callbacks{},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customerIdentifier,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    reference,
				Price: int64(amountCents),
				Qty:   1,
				Name:  description,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := g.snapClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &ChargeHandle{
		ChargeId:    orderId,
		PaymentLink: snapResp.RedirectURL,
	}, nil
}

func (g *Midtrans) GetChargeStatus(ctx context.Context, chargeId string) (*ChargeStatus, error) {
	resp, midErr := g.coreClient.CheckTransaction(chargeId)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	status := &ChargeStatus{Status: ChargeStatusPending}
	switch resp.TransactionStatus {
	case "capture", "settlement":
		status.Status = ChargeStatusPaid
		if t, err := time.Parse("2006-01-02 15:04:05", resp.SettlementTime); err == nil {
			status.PaidAt = &t
		}
	case "deny", "cancel":
		status.Status = ChargeStatusCancelled
	case "expire":
		status.Status = ChargeStatusExpired
	}
	return status, nil
}
