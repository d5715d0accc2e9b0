package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/domain/access"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/orders"
	"fineart/internal/domain/profiles"
	"fineart/internal/listing"
	"fineart/internal/session"
	"fineart/internal/store"
)

type fakeStore struct {
	statsErr  error
	roles     map[string]string
	reordered []string
	lastQuery listing.Query
}

func (f *fakeStore) Stats(context.Context) (store.Stats, error) {
	if f.statsErr != nil {
		return store.Stats{}, f.statsErr
	}
	return store.Stats{Artists: 3, ArtworksByStatus: map[artworks.Status]int64{artworks.StatusForSale: 5}, PaidOrders: 2}, nil
}

func (f *fakeStore) ListProfiles(_ context.Context, q listing.Query) ([]profiles.Profile, int64, error) {
	f.lastQuery = q
	hash := "x"
	return []profiles.Profile{
		{ID: "p1", Email: "kim@example.com", Password: &hash, Role: profiles.RoleUser},
		{ID: "p2", Email: "lee@example.com", Role: profiles.RoleAdmin, AuthProvider: profiles.ProviderGoogle},
	}, 42, nil
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (profiles.Profile, error) {
	if id != "p1" {
		return profiles.Profile{}, gorm.ErrRecordNotFound
	}
	return profiles.Profile{ID: "p1", Email: "kim@example.com"}, nil
}

func (f *fakeStore) SetProfileRole(_ context.Context, id, role string) error {
	if f.roles == nil {
		f.roles = map[string]string{}
	}
	f.roles[id] = role
	return nil
}

func (f *fakeStore) ListOrders(_ context.Context, q listing.Query) ([]orders.Order, int64, error) {
	f.lastQuery = q
	return []orders.Order{{ID: "o1", Status: orders.StatusPaid}}, 1, nil
}

func (f *fakeStore) ListOrdersByProfile(_ context.Context, id string) ([]orders.Order, error) {
	return []orders.Order{{ID: "o1", ProfileID: id}}, nil
}

func (f *fakeStore) ReorderBoards(_ context.Context, ids []string) error {
	for _, id := range ids {
		if id == "ghost" {
			return gorm.ErrRecordNotFound
		}
	}
	f.reordered = ids
	return nil
}

func newRouter(st Store) *gin.Engine {
	return newHandlerRouter(&Handler{Store: st, Logger: zap.NewNop()})
}

func newHandlerRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		httpx.SetActor(c, access.Actor{ProfileID: "boss", Role: profiles.RoleAdmin})
	})
	r.GET("/admin/dashboard", h.Dashboard)
	r.GET("/admin/profiles", h.ListProfiles)
	r.GET("/admin/profiles/:id", h.GetProfile)
	r.PUT("/admin/profiles/:id/role", h.SetRole)
	r.GET("/admin/orders", h.ListOrders)
	r.PUT("/admin/boards/reorder", h.ReorderBoards)
	return r
}

func do(r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestDashboard(t *testing.T) {
	w, body := do(newRouter(&fakeStore{}), http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 3, data["artists"])
	assert.EqualValues(t, 5, data["artworksByStatus"].(map[string]any)["ForSale"])

	w, _ = do(newRouter(&fakeStore{statsErr: errors.New("timeout")}), http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListProfiles(t *testing.T) {
	st := &fakeStore{}
	w, body := do(newRouter(st), http.MethodGet, "/admin/profiles?q=kim&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, st.lastQuery.Page)

	data := body["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, true, data[0].(map[string]any)["hasPassword"])
	assert.Equal(t, false, data[1].(map[string]any)["hasPassword"])
	assert.NotContains(t, data[0].(map[string]any), "password")
	assert.EqualValues(t, 42, body["meta"].(map[string]any)["total"])

	w, _ = do(newRouter(st), http.MethodGet, "/admin/profiles?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProfile(t *testing.T) {
	w, body := do(newRouter(&fakeStore{}), http.MethodGet, "/admin/profiles/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["orders"], 1)

	w, _ = do(newRouter(&fakeStore{}), http.MethodGet, "/admin/profiles/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetRole(t *testing.T) {
	st := &fakeStore{}
	w, _ := do(newRouter(st), http.MethodPut, "/admin/profiles/p1/role", map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, profiles.RoleAdmin, st.roles["p1"])

	w, _ = do(newRouter(st), http.MethodPut, "/admin/profiles/p1/role", map[string]string{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(newRouter(st), http.MethodPut, "/admin/profiles/boss/role", map[string]string{"role": "user"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotContains(t, st.roles, "boss")
}

type failingSessions struct{}

func (failingSessions) RevokeProfile(context.Context, string) error { return errors.New("redis down") }

func TestSetRole_RevokesTokensOfTheProfile(t *testing.T) {
	ctx := context.Background()
	issuer := session.NewIssuer("secret", time.Hour, nil)
	broker := session.NewBroker(nil)
	var events []session.Event
	defer broker.Subscribe(func(e session.Event) { events = append(events, e) })()

	raw, _, err := issuer.Issue(profiles.Profile{ID: "p1", Email: "kim@example.com", Role: profiles.RoleAdmin})
	require.NoError(t, err)
	_, err = issuer.Verify(ctx, raw)
	require.NoError(t, err)

	st := &fakeStore{}
	r := newHandlerRouter(&Handler{Store: st, Sessions: issuer, Events: broker, Logger: zap.NewNop()})
	w, _ := do(r, http.MethodPut, "/admin/profiles/p1/role", map[string]string{"role": "user"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, profiles.RoleUser, st.roles["p1"])

	_, err = issuer.Verify(ctx, raw)
	assert.Equal(t, session.CodeTokenRevoked, session.CodeOf(err))
	require.Len(t, events, 1)
	assert.Equal(t, session.EventRoleChanged, events[0].Type)
	assert.Equal(t, "p1", events[0].ProfileID)
}

func TestSetRole_RevokeFailure(t *testing.T) {
	r := newHandlerRouter(&Handler{Store: &fakeStore{}, Sessions: failingSessions{}, Logger: zap.NewNop()})
	w, body := do(r, http.MethodPut, "/admin/profiles/p1/role", map[string]string{"role": "user"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}

func TestListOrders(t *testing.T) {
	w, body := do(newRouter(&fakeStore{}), http.MethodGet, "/admin/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)
}

func TestReorderBoards(t *testing.T) {
	st := &fakeStore{}
	w, _ := do(newRouter(st), http.MethodPut, "/admin/boards/reorder", map[string]any{"boardIds": []string{"b2", "b1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"b2", "b1"}, st.reordered)

	w, _ = do(newRouter(st), http.MethodPut, "/admin/boards/reorder", map[string]any{"boardIds": []string{"b1", "b1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(newRouter(st), http.MethodPut, "/admin/boards/reorder", map[string]any{"boardIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(newRouter(st), http.MethodPut, "/admin/boards/reorder", map[string]any{"boardIds": []string{"b1", "ghost"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
