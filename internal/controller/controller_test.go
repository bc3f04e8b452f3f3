package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/pkg/logger"
	"media-courier-be/internal/pkg/serverutils"
	"media-courier-be/internal/service"
	"media-courier-be/pkg/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	service.ILedgerService

	plans        []*entity.Plan
	confirmed    bool
	confirmErr   error
	confirmCalls []string
}

func (s *stubLedger) GetPlans(ctx context.Context) ([]*entity.Plan, error) {
	return s.plans, nil
}

func (s *stubLedger) ConfirmRecharge(ctx context.Context, chargeId string) (bool, error) {
	s.confirmCalls = append(s.confirmCalls, chargeId)
	return s.confirmed, s.confirmErr
}

func (s *stubLedger) CreateRecharge(ctx context.Context, requesterId, chatRef int64, planSlug string) (*entity.Recharge, *gateway.ChargeHandle, error) {
	if planSlug != "basic" {
		return nil, nil, service.ErrPlanNotFound
	}
	return &entity.Recharge{Id: 1, AmountCents: 1000, GatewayChargeId: "sandbox-abc", Status: entity.RechargeStatusPending},
		&gateway.ChargeHandle{ChargeId: "sandbox-abc", PaymentLink: "https://example.com/pay/sandbox-abc"},
		nil
}

type stubEnqueue struct {
	err  error
	jobs int
}

func (s *stubEnqueue) Submit(ctx context.Context, chatId, statusRef int64, url string, requesterId int64) error {
	if s.err != nil {
		return s.err
	}
	s.jobs++
	return nil
}

func newTestApp(ledger *stubLedger, enqueue *stubEnqueue) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())

	api := app.Group("/api")
	NewPaymentController(ledger).RegisterRoutes(api)
	NewJobController(enqueue).RegisterRoutes(api)
	NewWebhookController(ledger, logger.Noop{}).RegisterRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGetPlans(t *testing.T) {
	ledger := &stubLedger{plans: []*entity.Plan{
		{Slug: "basic", Name: "Básico", PriceCents: 1000, PostsIncluded: 20},
	}}
	app := newTestApp(ledger, &stubEnqueue{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/plans", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Status string `json:"status"`
		Data   []struct {
			Slug       string `json:"slug"`
			PriceCents int    `json:"price_cents"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "success", envelope.Status)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "basic", envelope.Data[0].Slug)
	assert.Equal(t, 1000, envelope.Data[0].PriceCents)
}

func TestCreatePurchase(t *testing.T) {
	app := newTestApp(&stubLedger{}, &stubEnqueue{})

	resp := postJSON(t, app, "/api/purchases", map[string]interface{}{
		"requester_id": 100,
		"plan_slug":    "basic",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreatePurchaseUnknownPlan(t *testing.T) {
	app := newTestApp(&stubLedger{}, &stubEnqueue{})

	resp := postJSON(t, app, "/api/purchases", map[string]interface{}{
		"requester_id": 100,
		"plan_slug":    "platinum",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePurchaseValidation(t *testing.T) {
	app := newTestApp(&stubLedger{}, &stubEnqueue{})

	resp := postJSON(t, app, "/api/purchases", map[string]interface{}{
		"plan_slug": "basic",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitJob(t *testing.T) {
	enqueue := &stubEnqueue{}
	app := newTestApp(&stubLedger{}, enqueue)

	resp := postJSON(t, app, "/api/jobs", map[string]interface{}{
		"chat_id":    10,
		"source_url": "https://instagram.com/reel/abc",
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1, enqueue.jobs)
}

func TestSubmitJobOverLimit(t *testing.T) {
	app := newTestApp(&stubLedger{}, &stubEnqueue{err: service.ErrDailyLimitReached})

	resp := postJSON(t, app, "/api/jobs", map[string]interface{}{
		"chat_id":    10,
		"source_url": "https://instagram.com/reel/abc",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestWebhookConfirms(t *testing.T) {
	ledger := &stubLedger{confirmed: true}
	app := newTestApp(ledger, &stubEnqueue{})

	resp := postJSON(t, app, "/payments/webhook", map[string]string{"charge_id": "sandbox-abc"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, []string{"sandbox-abc"}, ledger.confirmCalls)
}

func TestWebhookIgnoresReplay(t *testing.T) {
	app := newTestApp(&stubLedger{confirmed: false}, &stubEnqueue{})

	resp := postJSON(t, app, "/payments/webhook", map[string]string{"charge_id": "sandbox-abc"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ignored", body.Status)
}

func TestWebhookErrorTriggersRetry(t *testing.T) {
	app := newTestApp(&stubLedger{confirmErr: errors.New("db down")}, &stubEnqueue{})

	resp := postJSON(t, app, "/payments/webhook", map[string]string{"charge_id": "sandbox-abc"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestWebhookMissingChargeId(t *testing.T) {
	app := newTestApp(&stubLedger{}, &stubEnqueue{})

	resp := postJSON(t, app, "/payments/webhook", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
