package stripewebhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"

	"fineart/internal/domain/orders"
)

const maxBodyBytes = 65536

type Store interface {
	SettleOrder(ctx context.Context, sessionID, status string, receiptURL *string) (orders.Order, error)
}

// Verifier checks the Stripe-Signature header and decodes the event.
type Verifier interface {
	ParseEvent(payload []byte, signature string) (stripe.Event, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Handler struct {
	Store    Store
	Verifier Verifier
	Catalog  Invalidator
	Logger   *zap.Logger
}

// POST /webhook
func (h *Handler) Receive(c *gin.Context) {
	if h.Verifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "error reading request body"})
		return
	}

	event, err := h.Verifier.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.Logger.Warn("stripe signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed",
		"checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse session"})
			return
		}
		handled, err := h.handleCheckoutSession(c.Request.Context(), string(event.Type), &session)
		if err != nil {
			// 5xx makes Stripe retry
			h.Logger.Error("settle order failed", zap.String("session", session.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not settle order"})
			return
		}
		if !handled {
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		// acknowledge unknown events so Stripe does not retry them
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
