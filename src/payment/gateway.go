// Package payment charges travelers by card or wallet before a booking is stored.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"travl/src/types"
)

var ErrNotSucceeded = errors.New("payment did not succeed")

// InvalidCardError lists the card fields that failed validation.
type InvalidCardError struct {
	Violations []string
}

func (e *InvalidCardError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// Backend is the booking API surface the gateway needs.
type Backend interface {
	CreatePaymentIntent(ctx context.Context, req types.CreatePaymentIntentRequestBody) (*types.APIResponsePaymentIntent, error)
	CreateWalletOrder(ctx context.Context, req types.CreateWalletOrderRequestBody) (*types.APIResponseWalletOrder, error)
	CaptureWalletOrder(ctx context.Context, orderID string) (*types.APIResponseWalletCapture, error)
}

// CardProvider tokenizes cards and confirms payment intents.
type CardProvider interface {
	CreatePaymentMethod(ctx context.Context, card Card) (string, error)
	// ConfirmPayment returns the terminal status of the intent behind clientSecret.
	ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (string, error)
}

// Method is either a CardMethod or a WalletMethod.
type Method interface {
	Kind() types.PaymentMethod
}

type CardMethod struct {
	Card          Card
	CustomerEmail string
}

func (CardMethod) Kind() types.PaymentMethod { return types.PAYMENT_CARD }

type WalletMethod struct{}

func (WalletMethod) Kind() types.PaymentMethod { return types.PAYMENT_WALLET }

type Result struct {
	Method        types.PaymentMethod
	Status        types.PaymentStatus
	TransactionID string
}

type Gateway struct {
	backend Backend
	cards   CardProvider
	now     func() time.Time
}

func NewGateway(backend Backend, cards CardProvider) *Gateway {
	return &Gateway{backend: backend, cards: cards, now: time.Now}
}

// Charge dispatches to ChargeCard or ChargeWallet.
func (g *Gateway) Charge(ctx context.Context, m Method, amountCents int64, currency, bookingID string) (*Result, error) {
	switch m := m.(type) {
	case CardMethod:
		return g.ChargeCard(ctx, m.Card, amountCents, currency, bookingID, m.CustomerEmail)
	case *CardMethod:
		return g.ChargeCard(ctx, m.Card, amountCents, currency, bookingID, m.CustomerEmail)
	case WalletMethod, *WalletMethod:
		return g.ChargeWallet(ctx, amountCents, currency, bookingID)
	default:
		return nil, fmt.Errorf("unsupported payment method %T", m)
	}
}

func (g *Gateway) ChargeCard(ctx context.Context, card Card, amountCents int64, currency, bookingID, customerEmail string) (*Result, error) {
	if v := ValidateCardAt(card.Number, card.Expiry, card.CVV, g.now()); len(v) > 0 {
		return nil, &InvalidCardError{Violations: v}
	}
	pm, err := g.cards.CreatePaymentMethod(ctx, card)
	if err != nil {
		log.Printf("[Payment] Error creating payment method: %s\n", err.Error())
		return nil, fmt.Errorf("creating payment method: %w", err)
	}
	intent, err := g.backend.CreatePaymentIntent(ctx, types.CreatePaymentIntentRequestBody{
		Amount:        amountCents,
		Currency:      currency,
		BookingID:     bookingID,
		CustomerEmail: customerEmail,
	})
	if err != nil {
		log.Printf("[Payment] Error creating payment intent: %s\n", err.Error())
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	status, err := g.cards.ConfirmPayment(ctx, intent.ClientSecret, pm)
	if err != nil {
		log.Printf("[Payment] Error confirming payment %s: %s\n", intent.PaymentIntentID, err.Error())
		return nil, fmt.Errorf("confirming payment: %w", err)
	}
	if status != string(types.PAYMENT_SUCCEEDED) {
		return &Result{Method: types.PAYMENT_CARD, Status: types.PAYMENT_FAILED, TransactionID: intent.PaymentIntentID},
			fmt.Errorf("%w: status %s", ErrNotSucceeded, status)
	}
	return &Result{Method: types.PAYMENT_CARD, Status: types.PAYMENT_SUCCEEDED, TransactionID: intent.PaymentIntentID}, nil
}

// ChargeWallet creates a wallet order and captures it right away.
func (g *Gateway) ChargeWallet(ctx context.Context, amountCents int64, currency, bookingID string) (*Result, error) {
	order, err := g.backend.CreateWalletOrder(ctx, types.CreateWalletOrderRequestBody{
		Amount:    amountCents,
		Currency:  currency,
		BookingID: bookingID,
	})
	if err != nil {
		log.Printf("[Payment] Error creating wallet order: %s\n", err.Error())
		return nil, fmt.Errorf("creating wallet order: %w", err)
	}
	capture, err := g.backend.CaptureWalletOrder(ctx, order.OrderID)
	if err != nil {
		log.Printf("[Payment] Error capturing wallet order %s: %s\n", order.OrderID, err.Error())
		return nil, fmt.Errorf("capturing wallet order: %w", err)
	}
	return &Result{Method: types.PAYMENT_WALLET, Status: types.PAYMENT_SUCCEEDED, TransactionID: capture.TransactionID}, nil
}
