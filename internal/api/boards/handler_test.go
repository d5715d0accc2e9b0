package boards

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
	"fineart/internal/domain/articles"
	"fineart/internal/domain/boards"
	"fineart/internal/domain/profiles"
	"fineart/internal/listing"
	"fineart/internal/store"
)

type fakeStore struct {
	boards      []boards.Board
	articles    []articles.Article
	boardsErr   error
	articlesErr error
	saved       []boards.Board
	saveErr     error
}

func (f *fakeStore) ListBoards(context.Context) ([]boards.Board, error) {
	return f.boards, f.boardsErr
}

func (f *fakeStore) GetBoard(_ context.Context, id string) (boards.Board, error) {
	for _, b := range f.boards {
		if b.ID == id {
			return b, nil
		}
	}
	return boards.Board{}, gorm.ErrRecordNotFound
}

func (f *fakeStore) GetBoardBySlug(_ context.Context, slug string) (boards.Board, error) {
	if f.boardsErr != nil {
		return boards.Board{}, f.boardsErr
	}
	for _, b := range f.boards {
		if b.Slug == slug {
			return b, nil
		}
	}
	return boards.Board{}, gorm.ErrRecordNotFound
}

func (f *fakeStore) CreateBoard(_ context.Context, b *boards.Board) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *b)
	return nil
}

func (f *fakeStore) UpdateBoard(_ context.Context, b *boards.Board) error {
	f.saved = append(f.saved, *b)
	return nil
}

func (f *fakeStore) DeleteBoard(context.Context, string) error { return nil }

func (f *fakeStore) ListArticles(_ context.Context, _ string, _ listing.Query) ([]articles.Article, int64, error) {
	return f.articles, int64(len(f.articles)), f.articlesErr
}

func newRouter(st Store, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Store: st, Logger: zap.NewNop()}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			httpx.SetActor(c, access.Actor{ProfileID: "p1", Role: role})
		}
	})
	r.GET("/boards", h.Tree)
	r.GET("/boards/:slug", h.Show)
	r.POST("/boards", h.Create)
	r.PUT("/boards/:id", h.Update)
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

func day(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

func sampleStore() *fakeStore {
	parent := "b1"
	return &fakeStore{
		boards: []boards.Board{
			{ID: "b1", Name: "Community", Slug: "community", LayoutType: boards.LayoutList, IsVisible: true},
			{ID: "b2", Name: "Gallery", Slug: "gallery", LayoutType: boards.LayoutGallery, ParentID: &parent, IsVisible: true},
			{ID: "b3", Name: "Drafts", Slug: "drafts", LayoutType: boards.LayoutList, IsVisible: false},
		},
		articles: []articles.Article{
			{ID: "a1", Title: "March", CreatedAt: day(3, 1)},
			{ID: "a2", Title: "Pinned", IsPinned: true, CreatedAt: day(1, 1)},
			{ID: "a3", Title: "February", CreatedAt: day(2, 1)},
		},
	}
}

func TestTree_HidesInvisibleForVisitors(t *testing.T) {
	w, body := do(newRouter(sampleStore(), ""), http.MethodGet, "/boards", nil)
	require.Equal(t, http.StatusOK, w.Code)
	roots := body["data"].([]any)
	require.Len(t, roots, 1)
	root := roots[0].(map[string]any)
	assert.Equal(t, "community", root["board"].(map[string]any)["slug"])
	assert.Len(t, root["children"], 1)

	_, body = do(newRouter(sampleStore(), profiles.RoleAdmin), http.MethodGet, "/boards", nil)
	assert.Len(t, body["data"], 2)
}

func TestShow_RendersLayoutPinnedFirst(t *testing.T) {
	w, body := do(newRouter(sampleStore(), ""), http.MethodGet, "/boards/gallery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["isFallback"])

	view := body["view"].(map[string]any)
	assert.Equal(t, "gallery", view["layout"])
	grid := view["grid"].([]any)
	require.Len(t, grid, 1)
	row := grid[0].([]any)
	titles := []string{}
	for _, it := range row {
		titles = append(titles, it.(map[string]any)["title"].(string))
	}
	assert.Equal(t, []string{"Pinned", "March", "February"}, titles)
}

func TestShow_HiddenBoardIsNotFoundForVisitors(t *testing.T) {
	w, _ := do(newRouter(sampleStore(), profiles.RoleUser), http.MethodGet, "/boards/drafts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(newRouter(sampleStore(), profiles.RoleAdmin), http.MethodGet, "/boards/drafts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShow_UnknownBoard(t *testing.T) {
	w, body := do(newRouter(sampleStore(), ""), http.MethodGet, "/boards/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestShow_FallbackOnReadFailure(t *testing.T) {
	st := sampleStore()
	st.articlesErr = errors.New("db down")
	w, body := do(newRouter(st, ""), http.MethodGet, "/boards/gallery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isFallback"])
	assert.Equal(t, "gallery", body["view"].(map[string]any)["layout"])
	assert.NotEmpty(t, body["data"])

	st = sampleStore()
	st.boardsErr = errors.New("db down")
	w, body = do(newRouter(st, ""), http.MethodGet, "/boards/anything", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isFallback"])
	assert.Equal(t, "list", body["view"].(map[string]any)["layout"])
	assert.NotEmpty(t, body["data"])
}

func TestCreate_RejectsTableLayout(t *testing.T) {
	st := sampleStore()
	w, body := do(newRouter(st, profiles.RoleAdmin), http.MethodPost, "/boards",
		map[string]any{"name": "Old", "slug": "old", "layoutType": "table"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "old", body["input"].(map[string]any)["slug"])
	assert.Empty(t, st.saved)
}

func TestCreate_Defaults(t *testing.T) {
	st := sampleStore()
	w, _ := do(newRouter(st, profiles.RoleAdmin), http.MethodPost, "/boards",
		map[string]any{"name": " News ", "slug": "NEWS"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, st.saved, 1)
	assert.Equal(t, "news", st.saved[0].Slug)
	assert.Equal(t, "News", st.saved[0].Name)
	assert.Equal(t, boards.LayoutList, st.saved[0].LayoutType)
	assert.True(t, st.saved[0].IsVisible)
}

func TestUpdate(t *testing.T) {
	st := sampleStore()
	w, _ := do(newRouter(st, profiles.RoleAdmin), http.MethodPut, "/boards/b2",
		map[string]any{"name": "Gallery", "slug": "photos", "layoutType": "card", "isVisible": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, st.saved, 1)
	assert.Equal(t, "b2", st.saved[0].ID)
	assert.Equal(t, "photos", st.saved[0].Slug)
	assert.Nil(t, st.saved[0].ParentID)
	assert.False(t, st.saved[0].IsVisible)

	w, _ = do(newRouter(st, profiles.RoleAdmin), http.MethodPut, "/boards/zzz",
		map[string]any{"name": "x", "slug": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_InvalidParent(t *testing.T) {
	st := sampleStore()
	st.saveErr = store.ErrInvalidParent
	w, body := do(newRouter(st, profiles.RoleAdmin), http.MethodPost, "/boards",
		map[string]any{"name": "Sub", "slug": "sub", "parentId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "nope", body["input"].(map[string]any)["parentId"])
}
