// Package payment creates hosted checkout sessions with Stripe.
package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"storefront-backend/internal/cart"
)

type LineItem struct {
	Name            string
	Description     string
	UnitAmountCents int64
	Quantity        int64
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, items []LineItem, successURL, cancelURL string) (string, error)
}

// LineItemsFromCart maps resolved cart lines to the payment provider's
// shape, converting unit prices to cents.
func LineItemsFromCart(items []cart.ResolvedItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		cents := decimal.NewFromFloat(item.Product.Price).
			Mul(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
		out = append(out, LineItem{
			Name:            item.Product.Title,
			Description:     item.Product.Description,
			UnitAmountCents: cents,
			Quantity:        int64(item.Quantity),
		})
	}
	return out
}

type Stripe struct{}

func NewStripe(apiKey string) *Stripe {
	stripe.Key = apiKey
	return &Stripe{}
}

// CreateCheckoutSession returns the opaque session id the client uses for
// its checkout redirect.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, items []LineItem, successURL, cancelURL string) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(item.Name),
					Description: stripe.String(item.Description),
				},
				UnitAmount: stripe.Int64(item.UnitAmountCents),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.ID, nil
}
