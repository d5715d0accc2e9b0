package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/webhook"
)

// zero-decimal currencies are charged in whole units
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// UnitAmount converts a price to Stripe's smallest currency unit.
func UnitAmount(amount decimal.Decimal, currency string) (int64, error) {
	if !amount.IsPositive() {
		return 0, errors.New("amount must be positive")
	}
	if !zeroDecimal[strings.ToLower(currency)] {
		amount = amount.Shift(2)
	}
	return amount.Round(0).IntPart(), nil
}

type CheckoutRequest struct {
	ProfileID  string
	Email      string
	ArtworkID  string
	Title      string
	ImageURL   string
	Kind       string
	Amount     decimal.Decimal
	Currency   string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Client creates Checkout sessions and verifies webhook payloads.
type Client struct {
	sessions      checkoutsession.Client
	webhookSecret string
}

func NewClient(secretKey, webhookSecret string) *Client {
	return &Client{
		sessions:      checkoutsession.Client{B: stripego.GetBackend(stripego.APIBackend), Key: secretKey},
		webhookSecret: webhookSecret,
	}
}

// checkoutParams builds a one-off payment session with inline price data.
func checkoutParams(req CheckoutRequest) (*stripego.CheckoutSessionParams, error) {
	currency := strings.ToLower(req.Currency)
	unit, err := UnitAmount(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	product := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripego.String(req.Title),
	}
	if req.ImageURL != "" && strings.HasPrefix(req.ImageURL, "https://") {
		product.Images = []*string{stripego.String(req.ImageURL)}
	}

	params := &stripego.CheckoutSessionParams{
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL:        stripego.String(req.SuccessURL),
		CancelURL:         stripego.String(req.CancelURL),
		ClientReferenceID: stripego.String(req.ProfileID),
		LineItems: []*stripego.CheckoutSessionLineItemParams{{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(currency),
				UnitAmount:  stripego.Int64(unit),
				ProductData: product,
			},
			Quantity: stripego.Int64(1),
		}},
	}
	if req.Email != "" {
		params.CustomerEmail = stripego.String(req.Email)
	}
	params.AddMetadata("artwork_id", req.ArtworkID)
	params.AddMetadata("profile_id", req.ProfileID)
	params.AddMetadata("kind", req.Kind)
	return params, nil
}

func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	params, err := checkoutParams(req)
	if err != nil {
		return CheckoutSession{}, err
	}
	params.Context = ctx

	s, err := c.sessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	return CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseEvent verifies the Stripe-Signature header and decodes the event.
func (c *Client) ParseEvent(payload []byte, signature string) (stripego.Event, error) {
	if c.webhookSecret == "" {
		return stripego.Event{}, errors.New("webhook secret not configured")
	}
	return webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
}
