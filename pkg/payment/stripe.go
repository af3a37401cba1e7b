// Package payment wraps the external payment-intent collaborator behind a
// small interface so services and tests never talk to Stripe directly.
package payment

import (
	"context"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// Gateway creates a payment intent for an amount in minor units and returns
// the client-usable secret verbatim.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (clientSecret string, err error)
}

// StripeGateway is the production Gateway backed by Stripe PaymentIntents.
type StripeGateway struct {
	Timeout time.Duration
}

// NewStripeGateway sets the package-level API key and returns a gateway with
// an explicit per-call timeout.
func NewStripeGateway(secretKey string, timeout time.Duration) *StripeGateway {
	stripe.Key = secretKey
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StripeGateway{Timeout: timeout}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	c, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = c

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}

var _ Gateway = (*StripeGateway)(nil)
