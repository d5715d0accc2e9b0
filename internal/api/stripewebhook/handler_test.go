package stripewebhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/domain/orders"
)

// fakeVerifier accepts the signature "ok" and reads {"type","session"} payloads.
type fakeVerifier struct{}

func (fakeVerifier) ParseEvent(payload []byte, signature string) (stripe.Event, error) {
	if signature != "ok" {
		return stripe.Event{}, errors.New("bad signature")
	}
	var in struct {
		Type    string          `json:"type"`
		Session json.RawMessage `json:"session"`
	}
	if err := json.Unmarshal(payload, &in); err != nil {
		return stripe.Event{}, err
	}
	return stripe.Event{Type: stripe.EventType(in.Type), Data: &stripe.EventData{Raw: in.Session}}, nil
}

type settled struct{ session, status string }

type fakeStore struct {
	calls []settled
	err   error
}

func (f *fakeStore) SettleOrder(_ context.Context, sessionID, status string, _ *string) (orders.Order, error) {
	f.calls = append(f.calls, settled{sessionID, status})
	if f.err != nil {
		return orders.Order{}, f.err
	}
	return orders.Order{ID: "order-1", ArtworkID: "art-1", Kind: orders.KindPurchase, Status: status}, nil
}

type countingCatalog struct{ n int }

func (c *countingCatalog) Invalidate(context.Context) { c.n++ }

func send(h *Handler, signature, eventType string, session map[string]any) (*httptest.ResponseRecorder, map[string]any) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", h.Receive)

	payload, _ := json.Marshal(map[string]any{"type": eventType, "session": session})
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func newHandler(st Store, cat Invalidator) *Handler {
	return &Handler{Store: st, Verifier: fakeVerifier{}, Catalog: cat, Logger: zap.NewNop()}
}

func TestReceive_PaidSettlesAndInvalidates(t *testing.T) {
	st, cat := &fakeStore{}, &countingCatalog{}
	w, body := send(newHandler(st, cat), "ok", "checkout.session.completed",
		map[string]any{"id": "cs_1", "status": "complete", "payment_status": "paid"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "received", body["status"])
	assert.Equal(t, []settled{{"cs_1", orders.StatusPaid}}, st.calls)
	assert.Equal(t, 1, cat.n)
}

func TestReceive_PendingIsLeftAlone(t *testing.T) {
	st := &fakeStore{}
	w, _ := send(newHandler(st, &countingCatalog{}), "ok", "checkout.session.completed",
		map[string]any{"id": "cs_1", "status": "complete", "payment_status": "unpaid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, st.calls)
}

func TestReceive_AsyncFailureAndExpiry(t *testing.T) {
	st, cat := &fakeStore{}, &countingCatalog{}
	h := newHandler(st, cat)
	send(h, "ok", "checkout.session.async_payment_failed", map[string]any{"id": "cs_1", "status": "complete", "payment_status": "unpaid"})
	send(h, "ok", "checkout.session.expired", map[string]any{"id": "cs_2", "status": "expired", "payment_status": "unpaid"})

	assert.Equal(t, []settled{{"cs_1", orders.StatusFailed}, {"cs_2", orders.StatusExpired}}, st.calls)
	assert.Zero(t, cat.n)
}

func TestReceive_UnknownSessionIsIgnored(t *testing.T) {
	st := &fakeStore{err: gorm.ErrRecordNotFound}
	w, body := send(newHandler(st, nil), "ok", "checkout.session.completed",
		map[string]any{"id": "cs_other", "status": "complete", "payment_status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", body["status"])
}

func TestReceive_StoreFailureAsksForRetry(t *testing.T) {
	st := &fakeStore{err: errors.New("db down")}
	w, _ := send(newHandler(st, nil), "ok", "checkout.session.completed",
		map[string]any{"id": "cs_1", "status": "complete", "payment_status": "paid"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReceive_BadSignature(t *testing.T) {
	st := &fakeStore{}
	w, _ := send(newHandler(st, nil), "forged", "checkout.session.completed",
		map[string]any{"id": "cs_1", "payment_status": "paid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, st.calls)
}

func TestReceive_OtherEventsAcknowledged(t *testing.T) {
	w, body := send(newHandler(&fakeStore{}, nil), "ok", "invoice.paid", map[string]any{"id": "in_1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", body["status"])
}

func TestReceive_NotConfigured(t *testing.T) {
	h := &Handler{Store: &fakeStore{}, Logger: zap.NewNop()}
	w, _ := send(h, "ok", "checkout.session.completed", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
