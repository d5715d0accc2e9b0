package artworks

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/domain/artworks"
	"fineart/internal/fallback"
	"fineart/internal/listing"
)

type Store interface {
	ListArtworks(ctx context.Context, q listing.Query) ([]artworks.Artwork, int64, error)
	GetArtwork(ctx context.Context, id string) (artworks.Artwork, error)
	CreateArtwork(ctx context.Context, a *artworks.Artwork) error
	UpdateArtwork(ctx context.Context, a *artworks.Artwork) error
	DeleteArtwork(ctx context.Context, id string) error
}

// Invalidator drops cached catalog bundles after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Handler struct {
	Store   Store
	Catalog Invalidator
	Logger  *zap.Logger
}

// GET /artworks: the sales catalog.
func (h *Handler) List(c *gin.Context) {
	q, ok := httpx.ParseQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	items, meta, err := httpx.Paged(q, func(q listing.Query) ([]artworks.Artwork, int64, error) {
		return h.Store.ListArtworks(ctx, q)
	})
	if err != nil {
		h.Logger.Warn("list artworks failed, serving fallback", zap.Error(err))
		page, meta := httpx.PageOf(fallback.Artwork(), q)
		httpx.WriteList(c, page, meta, true)
		return
	}
	httpx.WriteList(c, items, meta, false)
}

// GET /artworks/:id
func (h *Handler) Get(c *gin.Context) {
	a, err := h.Store.GetArtwork(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		apperr.Write(c, apperr.NotFound("artwork"))
	case err != nil:
		h.Logger.Warn("get artwork failed, serving fallback", zap.Error(err))
		httpx.WriteItem(c, http.StatusOK, fallback.Artwork()[0], true)
	default:
		httpx.WriteItem(c, http.StatusOK, a, false)
	}
}

// POST /artworks
func (h *Handler) Create(c *gin.Context) {
	var req ArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	var a artworks.Artwork
	if err := req.apply(&a); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := a.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.CreateArtwork(c.Request.Context(), &a); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "artwork", req)
		return
	}

	h.Catalog.Invalidate(c.Request.Context())
	httpx.WriteItem(c, http.StatusCreated, a, false)
}

// PUT /artworks/:id
func (h *Handler) Update(c *gin.Context) {
	var req ArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	a := artworks.Artwork{ID: c.Param("id")}
	if err := req.apply(&a); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := a.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.UpdateArtwork(c.Request.Context(), &a); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "artwork", req)
		return
	}

	h.Catalog.Invalidate(c.Request.Context())
	httpx.WriteItem(c, http.StatusOK, a, false)
}

// DELETE /artworks/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.Store.DeleteArtwork(c.Request.Context(), c.Param("id")); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "artwork", nil)
		return
	}
	h.Catalog.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
