package stripewebhooks

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/domain/orders"
	stripestatus "fineart/internal/infra/stripe"
)

// handleCheckoutSession settles the order behind a Checkout session. It reports
// false for sessions that no order of ours refers to.
func (h *Handler) handleCheckoutSession(ctx context.Context, eventType string, session *stripe.CheckoutSession) (bool, error) {
	status := stripestatus.NormalizeCheckoutStatus(string(session.Status), string(session.PaymentStatus))
	if eventType == "checkout.session.async_payment_failed" {
		status = orders.StatusFailed
	}
	if status == orders.StatusPending {
		return true, nil
	}

	order, err := h.Store.SettleOrder(ctx, session.ID, status, nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.Logger.Info("checkout session without order", zap.String("session", session.ID))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	h.Logger.Info("order settled",
		zap.String("order", order.ID),
		zap.String("artwork", order.ArtworkID),
		zap.String("kind", string(order.Kind)),
		zap.String("status", order.Status))
	if order.Paid() && h.Catalog != nil {
		h.Catalog.Invalidate(ctx)
	}
	return true, nil
}
