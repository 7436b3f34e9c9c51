package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"go.uber.org/zap"
)

// ProductName is the line item shown on the hosted checkout page.
const ProductName = "Premium Lifetime Access"

// SuccessResult is the body of PATCH /payment-success.
type SuccessResult struct {
	Success       bool   `json:"success"`
	IsPremium     bool   `json:"isPremium,omitempty"`
	Email         string `json:"email,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// Service is the payment bridge between checkout and the premium flag.
type Service struct {
	gateway Gateway
	users   user.Repository
	cfg     *config.Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new payment service. A nil gateway means no provider is configured.
func NewService(gateway Gateway, users user.Repository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{gateway: gateway, users: users, cfg: cfg, logger: logger, now: time.Now}
}

// CreateCheckout starts a premium purchase for email and returns the hosted checkout URL.
func (s *Service) CreateCheckout(ctx context.Context, email string) (string, error) {
	if s.gateway == nil {
		return "", common.ErrServiceUnavailable
	}
	email = common.NormalizeEmail(email)
	if email == "" {
		return "", common.ErrBadRequest.WithMessage("Email is required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && u.IsPremium:
		return "", common.ErrConflict.WithMessage("User is already premium")
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return "", err
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		Email:       email,
		Currency:    s.cfg.PaymentCurrency,
		UnitAmount:  s.cfg.PremiumPrice * 100,
		ProductName: ProductName,
		SuccessURL:  fmt.Sprintf("%s/payment/success?session_id={CHECKOUT_SESSION_ID}", s.cfg.SiteDomain),
		CancelURL:   fmt.Sprintf("%s/payment/cancel", s.cfg.SiteDomain),
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("Checkout session created", zap.String("email", email), zap.String("sessionID", sess.ID))
	return sess.URL, nil
}

// ConfirmSuccess marks the buyer premium when the session is paid. Calling it
// again for the same session re-applies the same fields.
func (s *Service) ConfirmSuccess(ctx context.Context, sessionID string) (*SuccessResult, error) {
	if s.gateway == nil {
		return nil, common.ErrServiceUnavailable
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, common.ErrBadRequest.WithMessage("session_id is required")
	}

	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	email := buyerEmail(sess)
	if sess.PaymentStatus != PaymentStatusPaid || email == "" {
		s.logger.Warn("Checkout session not confirmable",
			zap.String("sessionID", sessionID),
			zap.String("paymentStatus", sess.PaymentStatus),
			zap.Bool("hasEmail", email != ""),
		)
		return &SuccessResult{Success: false, PaymentStatus: sess.PaymentStatus}, nil
	}

	txID := sess.PaymentIntentID
	if txID == "" {
		txID = sess.ID
	}
	u, err := s.users.GrantPremium(ctx, user.PremiumGrant{Email: email, Since: s.now(), TransactionID: txID})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Premium granted", zap.String("email", u.Email), zap.String("transactionID", txID))
	return &SuccessResult{Success: true, IsPremium: true, Email: u.Email, TransactionID: txID}, nil
}

func buyerEmail(sess *CheckoutSession) string {
	for _, candidate := range []string{sess.CustomerEmail, sess.CustomerDetailsEmail, sess.Metadata["email"]} {
		if e := common.NormalizeEmail(candidate); e != "" {
			return e
		}
	}
	return ""
}
