package artists

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/catalog"
	"fineart/internal/domain/artists"
	"fineart/internal/fallback"
)

type Store interface {
	ListArtists(ctx context.Context, keyword string) ([]artists.Artist, error)
	GetArtist(ctx context.Context, id string) (artists.Artist, error)
	CreateArtist(ctx context.Context, a *artists.Artist) error
	UpdateArtist(ctx context.Context, a *artists.Artist) error
	DeleteArtist(ctx context.Context, id string) error
}

// Catalog serves artist bundles and is told when the catalog changes.
type Catalog interface {
	Bundle(ctx context.Context, slug string) (catalog.Bundle, bool, error)
	Invalidate(ctx context.Context)
}

type Handler struct {
	Store   Store
	Catalog Catalog
	Logger  *zap.Logger
}

// GET /artists?q=
func (h *Handler) List(c *gin.Context) {
	q, ok := httpx.ParseQuery(c)
	if !ok {
		return
	}

	isFallback := false
	list, err := h.Store.ListArtists(c.Request.Context(), q.Filter.Keyword)
	if err != nil {
		h.Logger.Warn("list artists failed, serving fallback", zap.Error(err))
		list, isFallback = fallback.Artist(), true
	}

	page, meta := httpx.PageOf(list, q)
	httpx.WriteList(c, page, meta, isFallback)
}

// GET /artists/:slug returns the artist with its artworks and exhibitions.
func (h *Handler) Get(c *gin.Context) {
	bundle, isFallback, err := h.Catalog.Bundle(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, catalog.ErrArtistNotFound) {
		apperr.Write(c, apperr.NotFound("artist"))
		return
	}
	if err != nil {
		apperr.Write(c, apperr.Internal(err))
		return
	}
	httpx.WriteItem(c, http.StatusOK, bundle, isFallback)
}

// POST /artists
func (h *Handler) Create(c *gin.Context) {
	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	var a artists.Artist
	req.apply(&a)
	if err := a.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.CreateArtist(c.Request.Context(), &a); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "artist", req)
		return
	}

	h.Catalog.Invalidate(c.Request.Context())
	httpx.WriteItem(c, http.StatusCreated, a, false)
}

// PUT /artists/:id
func (h *Handler) Update(c *gin.Context) {
	var req ArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	ctx := c.Request.Context()
	a, err := h.Store.GetArtist(ctx, c.Param("id"))
	if err != nil {
		apperr.Write(c, apperr.FromStore(err, "artist", apperr.Internal))
		return
	}
	req.apply(&a)
	if err := a.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.UpdateArtist(ctx, &a); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "artist", req)
		return
	}

	h.Catalog.Invalidate(ctx)
	httpx.WriteItem(c, http.StatusOK, a, false)
}

// DELETE /artists/:id; linked artworks and exhibitions become orphans.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.Store.DeleteArtist(c.Request.Context(), c.Param("id")); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "artist", nil)
		return
	}
	h.Catalog.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
