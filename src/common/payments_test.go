package common

import (
	"context"
	"strings"
	"testing"

	"travl/src/lib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCards struct {
	lastIntent lib.PaymentIntentInput
	lastRefund int64
}

func (f *fakeCards) CreatePaymentIntent(ctx context.Context, in lib.PaymentIntentInput) (*lib.PaymentIntentResult, error) {
	f.lastIntent = in
	return &lib.PaymentIntentResult{ID: "pi_123", ClientSecret: "pi_123_secret_abc", Status: "requires_payment_method"}, nil
}

func (f *fakeCards) Refund(ctx context.Context, paymentIntentID string, amount int64) (*lib.RefundResult, error) {
	f.lastRefund = amount
	return &lib.RefundResult{ID: "re_123", Status: "succeeded"}, nil
}

func TestCreatePaymentIntentDefaultsCurrency(t *testing.T) {
	cards := &fakeCards{}
	svc := NewPaymentService(cards, nil)
	pi, err := svc.CreatePaymentIntent(context.Background(), 68500, "", "TRV12345678", "john@test.com")
	require.NoError(t, err)
	assert.Equal(t, "pi_123", pi.ID)
	assert.Equal(t, "usd", cards.lastIntent.Currency)
	assert.Equal(t, int64(68500), cards.lastIntent.Amount)

	_, err = svc.CreatePaymentIntent(context.Background(), 0, "usd", "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRefund(t *testing.T) {
	cards := &fakeCards{}
	svc := NewPaymentService(cards, nil)
	r, err := svc.Refund(context.Background(), "pi_123", 1000)
	require.NoError(t, err)
	assert.Equal(t, "re_123", r.ID)
	assert.Equal(t, int64(1000), cards.lastRefund)

	_, err = svc.Refund(context.Background(), "pi_123", -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWalletOrderFlow(t *testing.T) {
	svc := NewPaymentService(&fakeCards{}, lib.NewMemoryWalletStore())
	ctx := context.Background()

	o, err := svc.CreateWalletOrder(ctx, 68500, "", "TRV12345678")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(o.OrderID, "PAYPAL_"))
	assert.Equal(t, "USD", o.Currency)

	captured, err := svc.CaptureWalletOrder(ctx, o.OrderID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(captured.TransactionID, "TXN_"))
	assert.Equal(t, lib.WALLET_ORDER_CAPTURED, captured.Status)

	again, err := svc.CaptureWalletOrder(ctx, o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, captured.TransactionID, again.TransactionID)

	_, err = svc.CaptureWalletOrder(ctx, "PAYPAL_MISSING")
	assert.ErrorIs(t, err, lib.ErrWalletOrderNotFound)
}
