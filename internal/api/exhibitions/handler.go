package exhibitions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/domain/exhibitions"
	"fineart/internal/fallback"
	"fineart/internal/listing"
)

type Store interface {
	ListExhibitions(ctx context.Context, q listing.Query) ([]exhibitions.Exhibition, int64, error)
	GetExhibition(ctx context.Context, id string) (exhibitions.Exhibition, error)
	CreateExhibition(ctx context.Context, e *exhibitions.Exhibition) error
	UpdateExhibition(ctx context.Context, e *exhibitions.Exhibition) error
	DeleteExhibition(ctx context.Context, id string) error
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Handler struct {
	Store   Store
	Catalog Invalidator
	Logger  *zap.Logger
}

// GET /exhibitions?q=&category=&when=current|upcoming|past
func (h *Handler) List(c *gin.Context) {
	q, ok := httpx.ParseQuery(c)
	if !ok {
		return
	}
	switch exhibitions.Phase(q.Filter.When) {
	case "", exhibitions.PhaseCurrent, exhibitions.PhaseUpcoming, exhibitions.PhasePast:
	default:
		apperr.Write(c, apperr.Validation("when must be current, upcoming or past"))
		return
	}

	ctx := c.Request.Context()
	items, meta, err := httpx.Paged(q, func(q listing.Query) ([]exhibitions.Exhibition, int64, error) {
		return h.Store.ListExhibitions(ctx, q)
	})
	if err != nil {
		h.Logger.Warn("list exhibitions failed, serving fallback", zap.Error(err))
		page, meta := httpx.PageOf(fallback.Exhibitions(), q)
		httpx.WriteList(c, page, meta, true)
		return
	}
	httpx.WriteList(c, items, meta, false)
}

// GET /exhibitions/:id
func (h *Handler) Get(c *gin.Context) {
	e, err := h.Store.GetExhibition(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		apperr.Write(c, apperr.NotFound("exhibition"))
	case err != nil:
		h.Logger.Warn("get exhibition failed, serving fallback", zap.Error(err))
		httpx.WriteItem(c, http.StatusOK, fallback.Exhibition()[0], true)
	default:
		httpx.WriteItem(c, http.StatusOK, e, false)
	}
}

// POST /exhibitions
func (h *Handler) Create(c *gin.Context) {
	var req ExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	var e exhibitions.Exhibition
	if err := req.apply(&e); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := e.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.CreateExhibition(c.Request.Context(), &e); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "exhibition", req)
		return
	}

	h.Catalog.Invalidate(c.Request.Context())
	httpx.WriteItem(c, http.StatusCreated, e, false)
}

// PUT /exhibitions/:id
func (h *Handler) Update(c *gin.Context) {
	var req ExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Invalid(c, err, req)
		return
	}

	e := exhibitions.Exhibition{ID: c.Param("id")}
	if err := req.apply(&e); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := e.Validate(); err != nil {
		httpx.Invalid(c, err, req)
		return
	}
	if err := h.Store.UpdateExhibition(c.Request.Context(), &e); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "exhibition", req)
		return
	}

	h.Catalog.Invalidate(c.Request.Context())
	httpx.WriteItem(c, http.StatusOK, e, false)
}

// DELETE /exhibitions/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.Store.DeleteExhibition(c.Request.Context(), c.Param("id")); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "exhibition", nil)
		return
	}
	h.Catalog.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
