package service

import (
	"context"
	"math"

	"learnhub_backend/internal/config"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// CheckoutLine is one course priced for a checkout session.
type CheckoutLine struct {
	Name   string
	Amount float64
}

type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus is the provider's view of a session after the buyer was
// redirected back. Metadata carries whatever was attached at creation.
type SessionStatus struct {
	Paid       bool
	PaymentRef string
	Metadata   map[string]string
}

// PaymentProvider is the boundary to the payment gateway. Checkout only
// ever talks to this interface.
type PaymentProvider interface {
	CreateSession(ctx context.Context, lines []CheckoutLine, metadata map[string]string) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// StripeProvider implements PaymentProvider with Stripe hosted checkout.
type StripeProvider struct {
	cfg *config.StripeConfig
}

func NewStripeProvider(cfg *config.StripeConfig) *StripeProvider {
	stripe.Key = cfg.SecretKey
	return &StripeProvider{cfg: cfg}
}

func (p *StripeProvider) CreateSession(ctx context.Context, lines []CheckoutLine, metadata map[string]string) (*CheckoutSession, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.cfg.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
				// Stripe amounts are in the currency's smallest unit.
				UnitAmount: stripe.Int64(int64(math.Round(line.Amount * 100))),
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.cfg.SuccessURL),
		CancelURL:  stripe.String(p.cfg.CancelURL),
		LineItems:  items,
	}
	params.Context = ctx
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, err
	}

	paymentRef := sess.ID
	if sess.PaymentIntent != nil {
		paymentRef = sess.PaymentIntent.ID
	}

	return &SessionStatus{
		Paid:       sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		PaymentRef: paymentRef,
		Metadata:   sess.Metadata,
	}, nil
}
