package boards

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/domain/access"
	"fineart/internal/domain/articles"
	"fineart/internal/domain/boards"
	"fineart/internal/fallback"
	"fineart/internal/layout"
	"fineart/internal/listing"
)

type Store interface {
	ListBoards(ctx context.Context) ([]boards.Board, error)
	GetBoard(ctx context.Context, id string) (boards.Board, error)
	GetBoardBySlug(ctx context.Context, slug string) (boards.Board, error)
	CreateBoard(ctx context.Context, b *boards.Board) error
	UpdateBoard(ctx context.Context, b *boards.Board) error
	DeleteBoard(ctx context.Context, id string) error
	ListArticles(ctx context.Context, boardID string, q listing.Query) ([]articles.Article, int64, error)
}

type Handler struct {
	Store  Store
	Logger *zap.Logger
}

// Page is a board with one page of its articles rendered in the board's layout.
type Page struct {
	httpx.List
	Board boards.Board `json:"board"`
	View  layout.View  `json:"view"`
}

// GET /boards returns the navigation tree. Hidden boards are listed for moderators only.
func (h *Handler) Tree(c *gin.Context) {
	isFallback := false
	list, err := h.Store.ListBoards(c.Request.Context())
	if err != nil {
		h.Logger.Warn("list boards failed, serving fallback", zap.Error(err))
		list, isFallback = fallback.Boards(), true
	}

	tree := boards.BuildTree(list)
	if !access.Can(httpx.ActorOf(c).Role, access.CapManageBoards) {
		tree = boards.Visible(tree)
	}
	if tree == nil {
		tree = []boards.Node{}
	}
	httpx.WriteItem(c, http.StatusOK, tree, isFallback)
}

// GET /boards/:slug?q=&category=&page=
func (h *Handler) Show(c *gin.Context) {
	q, ok := httpx.ParseQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	slug := c.Param("slug")

	board, err := h.Store.GetBoardBySlug(ctx, slug)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		apperr.Write(c, apperr.NotFound("board"))
		return
	case err != nil:
		h.Logger.Warn("get board failed, serving fallback", zap.String("slug", slug), zap.Error(err))
		h.writeFallback(c, slug, q)
		return
	}
	if !board.IsVisible && !access.Can(httpx.ActorOf(c).Role, access.CapManageBoards) {
		apperr.Write(c, apperr.NotFound("board"))
		return
	}

	list, meta, err := httpx.Paged(q, func(q listing.Query) ([]articles.Article, int64, error) {
		return h.Store.ListArticles(ctx, board.ID, q)
	})
	if err != nil {
		h.Logger.Warn("list articles failed, serving fallback", zap.String("slug", slug), zap.Error(err))
		h.writeFallback(c, slug, q)
		return
	}
	h.writePage(c, board, list, meta, false)
}

func (h *Handler) writeFallback(c *gin.Context, slug string, q listing.Query) {
	list, meta := httpx.PageOf(layout.SortPinnedFirst(fallback.Articles(slug)), q)
	h.writePage(c, fallback.Board(slug), list, meta, true)
}

func (h *Handler) writePage(c *gin.Context, b boards.Board, list []articles.Article, meta listing.Meta, isFallback bool) {
	if list == nil {
		list = []articles.Article{}
	}
	offset, _ := listing.Window(meta.Page, meta.PageSize)
	c.JSON(http.StatusOK, Page{
		List:  httpx.List{Data: list, Meta: meta, IsFallback: isFallback, Empty: len(list) == 0},
		Board: b,
		View:  layout.Render(layout.Meta{Board: b, Offset: offset}, list),
	})
}

// POST /boards
func (h *Handler) Create(c *gin.Context) {
	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	var b boards.Board
	if err := req.apply(&b); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := b.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.CreateBoard(c.Request.Context(), &b); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "board", req)
		return
	}
	httpx.WriteItem(c, http.StatusCreated, b, false)
}

// PUT /boards/:id. A changed slug is propagated to the board's articles by the store.
func (h *Handler) Update(c *gin.Context) {
	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	ctx := c.Request.Context()
	b, err := h.Store.GetBoard(ctx, c.Param("id"))
	if err != nil {
		apperr.Write(c, apperr.FromStore(err, "board", apperr.Internal))
		return
	}
	if err := req.apply(&b); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := b.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.UpdateBoard(ctx, &b); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "board", req)
		return
	}
	httpx.WriteItem(c, http.StatusOK, b, false)
}

// DELETE /boards/:id; children are promoted to roots.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.Store.DeleteBoard(c.Request.Context(), c.Param("id")); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "board", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
