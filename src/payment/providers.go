package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/stripe/stripe-go/v82"
)

// PaymentIntentID extracts the intent id from a "<id>_secret_<token>" client secret.
func PaymentIntentID(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || id == "" {
		return "", errors.New("malformed client secret")
	}
	return id, nil
}

type StripeCardProvider struct {
	client *stripe.Client
}

func NewStripeCardProvider(c *stripe.Client) *StripeCardProvider {
	return &StripeCardProvider{client: c}
}

func (p *StripeCardProvider) CreatePaymentMethod(ctx context.Context, card Card) (string, error) {
	month, year, ok := ParseExpiry(card.Expiry)
	if !ok {
		return "", errors.New(InvalidExpiryDate)
	}
	params := &stripe.PaymentMethodCreateParams{
		Type: stripe.String("card"),
		Card: &stripe.PaymentMethodCreateCardParams{
			Number:   stripe.String(stripSpaces(card.Number)),
			ExpMonth: stripe.Int64(int64(month)),
			ExpYear:  stripe.Int64(int64(year)),
			CVC:      stripe.String(card.CVV),
		},
	}
	if card.Holder != "" {
		params.BillingDetails = &stripe.PaymentMethodCreateBillingDetailsParams{
			Name: stripe.String(card.Holder),
		}
	}
	pm, err := p.client.V1PaymentMethods.Create(ctx, params)
	if err != nil {
		return "", err
	}
	return pm.ID, nil
}

func (p *StripeCardProvider) ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (string, error) {
	id, err := PaymentIntentID(clientSecret)
	if err != nil {
		return "", err
	}
	pi, err := p.client.V1PaymentIntents.Confirm(ctx, id, &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	})
	if err != nil {
		return "", err
	}
	return string(pi.Status), nil
}

// DeclinedTestCard is always declined by SimulatedCardProvider.
const DeclinedTestCard = "4000000000000002"

// SimulatedCardProvider approves every card except DeclinedTestCard.
// A payment method can be confirmed once.
type SimulatedCardProvider struct {
	mu      sync.Mutex
	seq     int
	methods map[string]string
}

func NewSimulatedCardProvider() *SimulatedCardProvider {
	return &SimulatedCardProvider{methods: make(map[string]string)}
}

func (p *SimulatedCardProvider) CreatePaymentMethod(ctx context.Context, card Card) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	id := fmt.Sprintf("pm_sim_%d", p.seq)
	p.methods[id] = stripSpaces(card.Number)
	return id, nil
}

func (p *SimulatedCardProvider) ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (string, error) {
	if _, err := PaymentIntentID(clientSecret); err != nil {
		return "", err
	}
	p.mu.Lock()
	number, ok := p.methods[paymentMethodID]
	delete(p.methods, paymentMethodID)
	p.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown payment method %s", paymentMethodID)
	}
	if number == DeclinedTestCard {
		return string(stripe.PaymentIntentStatusRequiresPaymentMethod), nil
	}
	return string(stripe.PaymentIntentStatusSucceeded), nil
}
