package lib

import (
	"context"
	"log"

	"travl/src/config"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	sc := stripe.NewClient(config.Get().Stripe.SecretKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// NewStripeClientWithURL targets another API host such as stripe-mock.
func NewStripeClientWithURL(apiKey, url string) *stripe.Client {
	backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		URL: stripe.String(url),
	})
	return stripe.NewClient(apiKey, stripe.WithBackends(backends))
}

type PaymentIntentInput struct {
	Amount        int64
	Currency      string
	BookingID     string
	CustomerEmail string
}

type PaymentIntentResult struct {
	ID           string
	ClientSecret string
	Status       string
}

type RefundResult struct {
	ID     string
	Status string
}

// StripeProcessor creates payment intents and refunds against the Stripe API.
type StripeProcessor struct {
	client *stripe.Client
}

func NewStripeProcessor(c *stripe.Client) *StripeProcessor {
	return &StripeProcessor{client: c}
}

func (p *StripeProcessor) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntentResult, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("bookingId", in.BookingID)
	params.AddMetadata("customerEmail", in.CustomerEmail)
	if in.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(in.CustomerEmail)
	}
	pi, err := p.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		log.Printf("[Stripe] Error creating PaymentIntent for Booking %s: %s\n", in.BookingID, err.Error())
		return nil, err
	}
	return &PaymentIntentResult{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// Refund returns the full amount when amount is zero.
func (p *StripeProcessor) Refund(ctx context.Context, paymentIntentID string, amount int64) (*RefundResult, error) {
	params := &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}
	r, err := p.client.V1Refunds.Create(ctx, params)
	if err != nil {
		log.Printf("[Stripe] Error refunding %s: %s\n", paymentIntentID, err.Error())
		return nil, err
	}
	return &RefundResult{ID: r.ID, Status: string(r.Status)}, nil
}
