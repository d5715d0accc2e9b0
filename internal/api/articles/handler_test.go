package articles

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
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/domain/access"
	"fineart/internal/domain/articles"
	"fineart/internal/domain/boards"
	"fineart/internal/domain/profiles"
)

type fakeStore struct {
	articles map[string]articles.Article
	getErr   error
	viewsErr error
	created  []articles.Article
	updated  []articles.Article
	content  map[string]string
	deleted  []string
}

func newStore() *fakeStore {
	owner := "author"
	return &fakeStore{
		articles: map[string]articles.Article{
			"a1": {ID: "a1", BoardID: "b1", Title: "Hello", AuthorID: &owner, Category: articles.CategoryGeneral, Views: 4,
				Content: `<p><img src="a.png" width="400" height="300"></p>`},
		},
		content: map[string]string{},
	}
}

func (f *fakeStore) GetBoardBySlug(_ context.Context, slug string) (boards.Board, error) {
	if slug == "free" {
		return boards.Board{ID: "b1", Slug: "free"}, nil
	}
	return boards.Board{}, gorm.ErrRecordNotFound
}

func (f *fakeStore) GetArticle(_ context.Context, id string) (articles.Article, error) {
	if f.getErr != nil {
		return articles.Article{}, f.getErr
	}
	a, ok := f.articles[id]
	if !ok {
		return a, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeStore) IncrementArticleViews(context.Context, string) error { return f.viewsErr }

func (f *fakeStore) CreateArticle(_ context.Context, a *articles.Article) error {
	a.ID = "new"
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeStore) UpdateArticle(_ context.Context, a *articles.Article) error {
	f.updated = append(f.updated, *a)
	return nil
}

func (f *fakeStore) UpdateArticleContent(_ context.Context, id, content string) error {
	f.content[id] = content
	return nil
}

func (f *fakeStore) DeleteArticle(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (profiles.Profile, error) {
	return profiles.Profile{ID: id, Email: id + "@example.com", Role: profiles.RoleUser}, nil
}

func newRouter(st Store, actor access.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Store: st, Logger: zap.NewNop()}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor.Role != "" {
			httpx.SetActor(c, actor)
		}
	})
	r.GET("/articles/:id", h.Get)
	r.POST("/boards/:slug/articles", h.Create)
	r.PUT("/articles/:id", h.Update)
	r.DELETE("/articles/:id", h.Delete)
	r.PATCH("/articles/:id/images/:index", h.EditImage)
	return r
}

var (
	author   = access.Actor{ProfileID: "author", Role: profiles.RoleUser}
	stranger = access.Actor{ProfileID: "stranger", Role: profiles.RoleUser}
	admin    = access.Actor{ProfileID: "boss", Role: profiles.RoleAdmin}
)

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

func TestGet_CountsView(t *testing.T) {
	w, body := do(newRouter(newStore(), access.Actor{}), http.MethodGet, "/articles/a1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, body["data"].(map[string]any)["views"])
}

func TestGet_ViewCountFailureStillServes(t *testing.T) {
	st := newStore()
	st.viewsErr = errors.New("locked")
	w, body := do(newRouter(st, access.Actor{}), http.MethodGet, "/articles/a1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, body["data"].(map[string]any)["views"])
}

func TestGet_NotFoundAndFallback(t *testing.T) {
	st := newStore()
	w, _ := do(newRouter(st, access.Actor{}), http.MethodGet, "/articles/zzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	st.getErr = errors.New("db down")
	w, body := do(newRouter(st, access.Actor{}), http.MethodGet, "/articles/a1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["isFallback"])
}

func TestCreate_StampsAuthorAndSanitises(t *testing.T) {
	st := newStore()
	w, body := do(newRouter(st, author), http.MethodPost, "/boards/free/articles", map[string]any{
		"title":    "  Hi  ",
		"content":  `<p onclick="x()">text</p><script>alert(1)</script>`,
		"category": "공지사항",
		"writer":   "spoofed",
	})
	// a regular member cannot post notices
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "  Hi  ", body["input"].(map[string]any)["title"])

	w, _ = do(newRouter(st, author), http.MethodPost, "/boards/free/articles", map[string]any{
		"title":    "  Hi  ",
		"content":  `<p onclick="x()">text</p><script>alert(1)</script>`,
		"category": "free talk",
		"writer":   "spoofed",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, st.created, 1)
	a := st.created[0]
	assert.Equal(t, "Hi", a.Title)
	assert.Equal(t, "b1", a.BoardID)
	assert.Equal(t, "free", a.BoardSlug)
	assert.Equal(t, articles.CategoryGeneral, a.Category)
	assert.Equal(t, "author", a.Writer)
	assert.Equal(t, "author@example.com", a.Email)
	require.NotNil(t, a.AuthorID)
	assert.NotContains(t, a.Content, "script")
	assert.NotContains(t, a.Content, "onclick")
}

func TestCreate_AdminMayPinNotices(t *testing.T) {
	st := newStore()
	w, _ := do(newRouter(st, admin), http.MethodPost, "/boards/free/articles", map[string]any{
		"title": "Closed Monday", "category": "notice", "isPinned": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, st.created[0].IsPinned)
	assert.Equal(t, articles.CategoryNotice, st.created[0].Category)
}

func TestCreate_ServiceKeyUsesWriter(t *testing.T) {
	st := newStore()
	w, _ := do(newRouter(st, access.Actor{Role: profiles.RoleAdmin}), http.MethodPost, "/boards/free/articles", map[string]any{
		"title": "Seeded", "writer": "curator",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "curator", st.created[0].Writer)
	assert.Nil(t, st.created[0].AuthorID)
}

func TestCreate_UnknownBoard(t *testing.T) {
	w, _ := do(newRouter(newStore(), author), http.MethodPost, "/boards/nope/articles", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_Permissions(t *testing.T) {
	st := newStore()
	w, _ := do(newRouter(st, stranger), http.MethodPut, "/articles/a1", map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(newRouter(st, author), http.MethodPut, "/articles/a1", map[string]any{"title": "Pinned", "isPinned": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(newRouter(st, author), http.MethodPut, "/articles/a1", map[string]any{"title": "Edited"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(newRouter(st, admin), http.MethodPut, "/articles/a1", map[string]any{"title": "Pinned", "isPinned": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, st.updated, 2)
	assert.True(t, st.updated[1].IsPinned)
}

func TestDelete(t *testing.T) {
	st := newStore()
	w, _ := do(newRouter(st, stranger), http.MethodDelete, "/articles/a1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(newRouter(st, admin), http.MethodDelete, "/articles/a1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"a1"}, st.deleted)
}

func TestEditImage(t *testing.T) {
	st := newStore()
	w, body := do(newRouter(st, author), http.MethodPatch, "/articles/a1/images/0", map[string]any{
		"width": 200, "keepAspect": true, "align": "center",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "200 × 150", data["label"])
	img := data["image"].(map[string]any)
	assert.EqualValues(t, 200, img["width"])
	assert.EqualValues(t, 150, img["height"])
	assert.Equal(t, "center", img["align"])
	assert.Contains(t, st.content["a1"], `data-align="center"`)
}

func TestEditImage_Errors(t *testing.T) {
	st := newStore()
	w, _ := do(newRouter(st, author), http.MethodPatch, "/articles/a1/images/3", map[string]any{"width": 100})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(newRouter(st, author), http.MethodPatch, "/articles/a1/images/x", map[string]any{"width": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(newRouter(st, author), http.MethodPatch, "/articles/a1/images/0", map[string]any{"handle": "middle"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(newRouter(st, stranger), http.MethodPatch, "/articles/a1/images/0", map[string]any{"width": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, st.content)
}
