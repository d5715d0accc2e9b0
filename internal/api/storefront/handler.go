package storefront

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/orders"
	"fineart/internal/domain/profiles"
	"fineart/internal/infra/stripe"
)

type Store interface {
	GetArtwork(ctx context.Context, id string) (artworks.Artwork, error)
	GetProfile(ctx context.Context, id string) (profiles.Profile, error)
	CreateOrder(ctx context.Context, o *orders.Order) error
}

type Payments interface {
	CreateCheckout(ctx context.Context, req stripe.CheckoutRequest) (stripe.CheckoutSession, error)
}

type Handler struct {
	Store Store
	// Payments is nil when Stripe is not configured.
	Payments Payments
	Currency string
	AppURL   string
	Logger   *zap.Logger
}

type CheckoutRequest struct {
	Kind string `json:"kind"`
}

// POST /artworks/:id/checkout
func (h *Handler) Checkout(c *gin.Context) {
	if h.Payments == nil {
		apperr.Write(c, apperr.Unavailable("checkout is not configured"))
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	kind, ok := orders.ParseKind(req.Kind)
	if !ok {
		apperr.Write(c, apperr.Validation("kind must be purchase or rent").WithInput(req))
		return
	}
	actor := httpx.ActorOf(c)
	if actor.ProfileID == "" {
		apperr.Write(c, apperr.Forbidden("checkout requires a signed-in profile"))
		return
	}

	ctx := c.Request.Context()
	art, err := h.Store.GetArtwork(ctx, c.Param("id"))
	if err != nil {
		apperr.Write(c, apperr.FromStore(err, "artwork", apperr.Internal))
		return
	}

	amount := art.Price
	switch kind {
	case orders.KindPurchase:
		if !art.Purchasable() {
			apperr.Write(c, apperr.Conflict("artwork is not for sale"))
			return
		}
	case orders.KindRent:
		if !art.Rentable() {
			apperr.Write(c, apperr.Conflict("artwork is not available for rent"))
			return
		}
		amount = art.RentPrice
	}

	p, err := h.Store.GetProfile(ctx, actor.ProfileID)
	if err != nil {
		apperr.Write(c, apperr.FromStore(err, "profile", apperr.Internal))
		return
	}

	base := strings.TrimRight(h.AppURL, "/")
	session, err := h.Payments.CreateCheckout(ctx, stripe.CheckoutRequest{
		ProfileID:  p.ID,
		Email:      p.Email,
		ArtworkID:  art.ID,
		Title:      art.Title,
		ImageURL:   art.ImageURL,
		Kind:       string(kind),
		Amount:     amount,
		Currency:   h.Currency,
		SuccessURL: base + "/artworks/" + art.ID + "?checkout=success",
		CancelURL:  base + "/artworks/" + art.ID + "?checkout=canceled",
	})
	if err != nil {
		h.Logger.Error("create checkout session failed", zap.String("artwork", art.ID), zap.Error(err))
		apperr.Write(c, &apperr.AppError{
			Code:       apperr.CodeUnavailable,
			Message:    "could not start checkout",
			HTTPStatus: http.StatusBadGateway,
			Cause:      err,
		})
		return
	}

	order := orders.Order{
		ArtworkID:       art.ID,
		ProfileID:       p.ID,
		Kind:            kind,
		Amount:          amount,
		Currency:        strings.ToLower(h.Currency),
		StripeSessionID: session.ID,
		Status:          orders.StatusPending,
	}
	if err := h.Store.CreateOrder(ctx, &order); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "order", req)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": session.URL, "orderId": order.ID, "sessionId": session.ID})
}
