package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"travl/src/lib"
	"travl/src/utils"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

// CardProcessor is the server side of the card provider.
type CardProcessor interface {
	CreatePaymentIntent(ctx context.Context, in lib.PaymentIntentInput) (*lib.PaymentIntentResult, error)
	Refund(ctx context.Context, paymentIntentID string, amount int64) (*lib.RefundResult, error)
}

type PaymentService struct {
	cards   CardProcessor
	wallets lib.WalletOrderStore
	mu      sync.Mutex
	now     func() time.Time
}

func NewPaymentService(cards CardProcessor, wallets lib.WalletOrderStore) *PaymentService {
	if wallets == nil {
		wallets = lib.NewMemoryWalletStore()
	}
	return &PaymentService{cards: cards, wallets: wallets, now: time.Now}
}

func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount int64, currency, bookingID, customerEmail string) (*lib.PaymentIntentResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "usd"
	}
	pi, err := s.cards.CreatePaymentIntent(ctx, lib.PaymentIntentInput{
		Amount:        amount,
		Currency:      strings.ToLower(currency),
		BookingID:     bookingID,
		CustomerEmail: customerEmail,
	})
	lib.PaymentsTotal.WithLabelValues("payment_intent", lib.Outcome(err)).Inc()
	return pi, err
}

func (s *PaymentService) Refund(ctx context.Context, paymentIntentID string, amount int64) (*lib.RefundResult, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	r, err := s.cards.Refund(ctx, paymentIntentID, amount)
	lib.PaymentsTotal.WithLabelValues("refund", lib.Outcome(err)).Inc()
	return r, err
}

func (s *PaymentService) CreateWalletOrder(ctx context.Context, amount int64, currency, bookingID string) (*lib.WalletOrder, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "USD"
	}
	o := &lib.WalletOrder{
		OrderID:   utils.NewWalletOrderID(),
		Amount:    amount,
		Currency:  strings.ToUpper(currency),
		BookingID: bookingID,
		Status:    lib.WALLET_ORDER_CREATED,
		CreatedAt: s.now().UTC(),
	}
	err := s.wallets.Create(ctx, o)
	lib.PaymentsTotal.WithLabelValues("wallet_order", lib.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CaptureWalletOrder returns the same transaction id when an order is captured twice.
func (s *PaymentService) CaptureWalletOrder(ctx context.Context, orderID string) (*lib.WalletOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.wallets.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", orderID, err)
	}
	if o.Status == lib.WALLET_ORDER_CAPTURED {
		return o, nil
	}
	o.Status = lib.WALLET_ORDER_CAPTURED
	o.TransactionID = utils.NewWalletTransactionID()
	err = s.wallets.Update(ctx, o)
	lib.PaymentsTotal.WithLabelValues("wallet_capture", lib.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return o, nil
}
