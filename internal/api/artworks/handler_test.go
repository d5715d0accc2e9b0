package artworks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/domain/artworks"
	"fineart/internal/fallback"
	"fineart/internal/listing"
	"fineart/internal/store"
)

type fakeStore struct {
	items     []artworks.Artwork
	total     int64
	err       error
	getErr    error
	writeErr  error
	lastQuery listing.Query
	saved     []artworks.Artwork
}

func (f *fakeStore) ListArtworks(_ context.Context, q listing.Query) ([]artworks.Artwork, int64, error) {
	f.lastQuery = q
	return f.items, f.total, f.err
}

func (f *fakeStore) GetArtwork(_ context.Context, id string) (artworks.Artwork, error) {
	if f.getErr != nil {
		return artworks.Artwork{}, f.getErr
	}
	for _, a := range f.items {
		if a.ID == id {
			return a, nil
		}
	}
	return artworks.Artwork{}, gorm.ErrRecordNotFound
}

func (f *fakeStore) CreateArtwork(_ context.Context, a *artworks.Artwork) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.saved = append(f.saved, *a)
	return nil
}

func (f *fakeStore) UpdateArtwork(_ context.Context, a *artworks.Artwork) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.saved = append(f.saved, *a)
	return nil
}

func (f *fakeStore) DeleteArtwork(context.Context, string) error { return f.writeErr }

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func newRouter(st Store, inv Invalidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Store: st, Catalog: inv, Logger: zap.NewNop()}
	r := gin.New()
	r.GET("/artworks", h.List)
	r.GET("/artworks/:id", h.Get)
	r.POST("/artworks", h.Create)
	r.PUT("/artworks/:id", h.Update)
	r.DELETE("/artworks/:id", h.Delete)
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

func TestList_ParsesFilter(t *testing.T) {
	st := &fakeStore{items: []artworks.Artwork{{ID: "w1", Title: "Sea"}}, total: 30}
	r := newRouter(st, &countingInvalidator{})

	w, body := do(r, http.MethodGet, "/artworks?q=%20sea%20&theme=landscape&material=Oil,oil&minPrice=100&rentable=true&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	f := st.lastQuery.Filter
	assert.Equal(t, "landscape", f.Category)
	assert.True(t, f.RentableOnly)
	require.NotNil(t, f.PriceMin)
	assert.True(t, f.PriceMin.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, st.lastQuery.Page)

	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 3, meta["totalPages"])
	assert.Equal(t, false, body["empty"])
}

func TestList_ClampsPagePastTheEnd(t *testing.T) {
	st := &fakeStore{items: []artworks.Artwork{{ID: "w1", Title: "Sea"}}, total: 15}
	r := newRouter(st, &countingInvalidator{})

	w, body := do(r, http.MethodGet, "/artworks?page=99", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 2, st.lastQuery.Page, "the last page is read again")
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["page"])
	assert.EqualValues(t, 2, meta["totalPages"])
}

func TestList_EmptyIsNotFallback(t *testing.T) {
	r := newRouter(&fakeStore{}, &countingInvalidator{})

	w, body := do(r, http.MethodGet, "/artworks?q=nothing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, true, body["empty"])
	assert.Equal(t, false, body["isFallback"])
}

func TestList_FallbackOnStoreError(t *testing.T) {
	r := newRouter(&fakeStore{err: errors.New("timeout")}, &countingInvalidator{})

	w, body := do(r, http.MethodGet, "/artworks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isFallback"])
	data := body["data"].([]any)
	require.Len(t, data, len(fallback.Artwork()))
	assert.Equal(t, fallback.Artwork()[0].Title, data[0].(map[string]any)["title"])
}

func TestList_MalformedPrice(t *testing.T) {
	r := newRouter(&fakeStore{}, &countingInvalidator{})
	w, _ := do(r, http.MethodGet, "/artworks?minPrice=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGet(t *testing.T) {
	st := &fakeStore{items: []artworks.Artwork{{ID: "w1", Title: "Sea"}}}
	r := newRouter(st, &countingInvalidator{})

	w, body := do(r, http.MethodGet, "/artworks/w1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sea", body["data"].(map[string]any)["title"])

	w, _ = do(r, http.MethodGet, "/artworks/w2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	st.getErr = errors.New("db down")
	w, body = do(r, http.MethodGet, "/artworks/w1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isFallback"])
}

func TestCreate(t *testing.T) {
	st := &fakeStore{}
	inv := &countingInvalidator{}
	r := newRouter(st, inv)

	w, _ := do(r, http.MethodPost, "/artworks", map[string]any{
		"title":    "Night",
		"artistId": "a1",
		"price":    "1500.50",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, st.saved, 1)
	assert.Equal(t, artworks.StatusForSale, st.saved[0].Status)
	assert.Equal(t, "a1", *st.saved[0].ArtistID)
	assert.Equal(t, "1500.5", st.saved[0].Price.String())
	assert.Equal(t, 1, inv.n)
}

func TestCreate_Rejections(t *testing.T) {
	cases := map[string]struct {
		body     map[string]any
		writeErr error
		status   int
	}{
		"missing artist":  {map[string]any{"title": "x"}, nil, http.StatusBadRequest},
		"bad status":      {map[string]any{"title": "x", "artistId": "a", "status": "lost"}, nil, http.StatusBadRequest},
		"negative price":  {map[string]any{"title": "x", "artistId": "a", "price": "-1"}, nil, http.StatusBadRequest},
		"unknown artist":  {map[string]any{"title": "x", "artistId": "a"}, store.ErrArtistRequired, http.StatusBadRequest},
		"database failed": {map[string]any{"title": "x", "artistId": "a"}, errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			inv := &countingInvalidator{}
			r := newRouter(&fakeStore{writeErr: tc.writeErr}, inv)
			w, body := do(r, http.MethodPost, "/artworks", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body["title"], body["input"].(map[string]any)["title"])
			assert.Zero(t, inv.n)
		})
	}
}

func TestUpdate_UsesPathID(t *testing.T) {
	st := &fakeStore{}
	r := newRouter(st, &countingInvalidator{})

	w, _ := do(r, http.MethodPut, "/artworks/w9", map[string]any{"title": "x", "artistId": "a", "status": "sold"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, st.saved, 1)
	assert.Equal(t, "w9", st.saved[0].ID)
	assert.Equal(t, artworks.StatusSold, st.saved[0].Status)
}
