package articles

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/domain/access"
	"fineart/internal/domain/articles"
	"fineart/internal/domain/boards"
	"fineart/internal/domain/profiles"
	"fineart/internal/fallback"
	"fineart/internal/richtext"
)

type Store interface {
	GetBoardBySlug(ctx context.Context, slug string) (boards.Board, error)
	GetArticle(ctx context.Context, id string) (articles.Article, error)
	IncrementArticleViews(ctx context.Context, id string) error
	CreateArticle(ctx context.Context, a *articles.Article) error
	UpdateArticle(ctx context.Context, a *articles.Article) error
	UpdateArticleContent(ctx context.Context, id, content string) error
	DeleteArticle(ctx context.Context, id string) error
	GetProfile(ctx context.Context, id string) (profiles.Profile, error)
}

type Handler struct {
	Store  Store
	Logger *zap.Logger
}

// GET /articles/:id counts a view and returns the article.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if strings.HasPrefix(id, "fallback-") {
		h.writeFallback(c, id)
		return
	}

	a, err := h.Store.GetArticle(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		apperr.Write(c, apperr.NotFound("article"))
		return
	case err != nil:
		h.Logger.Warn("get article failed, serving fallback", zap.String("id", id), zap.Error(err))
		h.writeFallback(c, id)
		return
	}

	if err := h.Store.IncrementArticleViews(ctx, id); err != nil {
		h.Logger.Warn("increment views failed", zap.String("id", id), zap.Error(err))
	} else {
		a.Views++
	}
	httpx.WriteItem(c, http.StatusOK, a, false)
}

// writeFallback serves the demo article with id, or the first demo notice.
func (h *Handler) writeFallback(c *gin.Context, id string) {
	for _, b := range fallback.Boards() {
		for _, a := range fallback.Articles(b.Slug) {
			if a.ID == id {
				httpx.WriteItem(c, http.StatusOK, a, true)
				return
			}
		}
	}
	httpx.WriteItem(c, http.StatusOK, fallback.Articles("notice")[0], true)
}

// POST /boards/:slug/articles
func (h *Handler) Create(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	ctx := c.Request.Context()
	actor := httpx.ActorOf(c)

	category := articles.NormalizeCategory(req.Category)
	if missing := access.ArticleWrite(actor, req.IsPinned, category); missing != "" {
		apperr.Write(c, apperr.Forbidden("not allowed: "+string(missing)).WithInput(req))
		return
	}

	board, err := h.Store.GetBoardBySlug(ctx, c.Param("slug"))
	if err != nil {
		apperr.Write(c, apperr.FromStore(err, "board", apperr.Internal).WithInput(req))
		return
	}

	content, err := richtext.Normalize(req.Content)
	if err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	a := articles.Article{
		BoardID:      board.ID,
		BoardSlug:    board.Slug,
		Title:        strings.TrimSpace(req.Title),
		Content:      content,
		Category:     category,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		IsPinned:     req.IsPinned,
	}
	if err := h.stampAuthor(ctx, actor, &a, req.Writer); err != nil {
		apperr.Write(c, apperr.FromStore(err, "profile", apperr.Internal).WithInput(req))
		return
	}
	if err := a.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.CreateArticle(ctx, &a); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "article", req)
		return
	}
	httpx.WriteItem(c, http.StatusCreated, a, false)
}

// stampAuthor fills writer, email and author id from the caller's profile.
func (h *Handler) stampAuthor(ctx context.Context, actor access.Actor, a *articles.Article, writer string) error {
	if actor.ProfileID == "" {
		a.Writer = strings.TrimSpace(writer)
		if a.Writer == "" {
			a.Writer = "관리자"
		}
		return nil
	}
	p, err := h.Store.GetProfile(ctx, actor.ProfileID)
	if err != nil {
		return err
	}
	id := p.ID
	a.AuthorID = &id
	a.Writer = p.DisplayName()
	a.Email = p.Email
	return nil
}

// load fetches the article and checks that the caller may change it.
func (h *Handler) load(c *gin.Context, input any) (articles.Article, bool) {
	a, err := h.Store.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Write(c, apperr.FromStore(err, "article", apperr.Internal).WithInput(input))
		return a, false
	}
	if !access.CanModifyArticle(httpx.ActorOf(c), a) {
		apperr.Write(c, apperr.Forbidden("only the author or an admin may change this article").WithInput(input))
		return a, false
	}
	return a, true
}

// PUT /articles/:id
func (h *Handler) Update(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	a, ok := h.load(c, req)
	if !ok {
		return
	}

	// admin-only fields are checked only when they change
	category := articles.NormalizeCategory(req.Category)
	pinChange := req.IsPinned && !a.IsPinned
	noticeChange := category == articles.CategoryNotice && a.Category != articles.CategoryNotice
	checkCategory := articles.CategoryGeneral
	if noticeChange {
		checkCategory = category
	}
	if missing := access.ArticleWrite(httpx.ActorOf(c), pinChange, checkCategory); missing != "" {
		apperr.Write(c, apperr.Forbidden("not allowed: "+string(missing)).WithInput(req))
		return
	}

	content, err := richtext.Normalize(req.Content)
	if err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	a.Title = strings.TrimSpace(req.Title)
	a.Content = content
	a.Category = category
	a.ImageURL = req.ImageURL
	a.ThumbnailURL = req.ThumbnailURL
	a.IsPinned = req.IsPinned
	if err := a.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.UpdateArticle(c.Request.Context(), &a); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "article", req)
		return
	}
	httpx.WriteItem(c, http.StatusOK, a, false)
}

// DELETE /articles/:id
func (h *Handler) Delete(c *gin.Context) {
	a, ok := h.load(c, nil)
	if !ok {
		return
	}
	if err := h.Store.DeleteArticle(c.Request.Context(), a.ID); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "article", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /articles/:id/images/:index resizes or re-aligns one embedded image.
func (h *Handler) EditImage(c *gin.Context) {
	var req ImageEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		apperr.Write(c, apperr.Validation("index must be a non-negative integer"))
		return
	}
	edit, err := req.editor()
	if err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	a, ok := h.load(c, req)
	if !ok {
		return
	}

	content, img, err := richtext.EditImage(a.Content, index, edit)
	if errors.Is(err, richtext.ErrNoSuchImage) {
		apperr.Write(c, apperr.NotFound("image"))
		return
	}
	if err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.UpdateArticleContent(c.Request.Context(), a.ID, content); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "article", req)
		return
	}

	httpx.WriteItem(c, http.StatusOK, gin.H{
		"content": content,
		"image":   img,
		"label":   richtext.Label(img.Width, img.Height),
	}, false)
}
