package payment

import (
	"context"
	"fmt"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"

	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"go.uber.org/zap"
)

// PaymentStatusPaid is the provider status of a completed checkout.
const PaymentStatusPaid = "paid"

// CheckoutRequest describes a one-item hosted checkout.
type CheckoutRequest struct {
	Email       string
	Currency    string
	UnitAmount  int64
	ProductName string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the part of a provider session the bridge reads.
type CheckoutSession struct {
	ID                   string
	URL                  string
	PaymentStatus        string
	PaymentIntentID      string
	CustomerEmail        string
	CustomerDetailsEmail string
	Metadata             map[string]string
}

// Gateway is the external payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}

// StripeGateway talks to Stripe Checkout.
type StripeGateway struct {
	logger *zap.Logger
}

// NewStripeGateway sets the Stripe key and returns a gateway, or nil when no
// key is configured.
func NewStripeGateway(cfg *config.Config, logger *zap.Logger) Gateway {
	if !cfg.PaymentConfigured() {
		logger.Warn("STRIPE_SECRET_KEY not set; payment endpoints will report the provider as unavailable")
		return nil
	}
	stripe.Key = cfg.StripeSecretKey
	return &StripeGateway{logger: logger.With(zap.String("component", "stripe"))}
}

// CreateCheckoutSession creates a payment-mode Stripe Checkout session.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(req.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.ProductName),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(req.Email),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
		Metadata:      map[string]string{"email": req.Email},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return fromStripe(sess), nil
}

// GetCheckoutSession retrieves a session by id.
func (g *StripeGateway) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := checkoutsession.Get(id, params)
	if err != nil {
		g.logger.Error("Failed to retrieve Stripe checkout session", zap.Error(err), zap.String("sessionID", id))
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return fromStripe(sess), nil
}

func fromStripe(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		CustomerEmail: sess.CustomerEmail,
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.CustomerDetails != nil {
		out.CustomerDetailsEmail = sess.CustomerDetails.Email
	}
	return out
}
