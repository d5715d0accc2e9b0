package catalog

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fineart/internal/api/httpx"
	"fineart/internal/catalog"
	"fineart/internal/domain/access"
)

type Service interface {
	Bundles(ctx context.Context) catalog.Snapshot
	Refresh(ctx context.Context) catalog.Snapshot
}

type Handler struct {
	Service Service
	Logger  *zap.Logger
}

// GET /catalog returns every artist bundle. Unlinked records are listed for catalog managers only.
func (h *Handler) Bundles(c *gin.Context) {
	snap := h.Service.Bundles(c.Request.Context())
	if snap.IsFallback {
		h.Logger.Warn("catalog served with fallback lists", zap.Strings("failed", snap.Failed))
	}
	if !access.Can(httpx.ActorOf(c).Role, access.CapManageCatalog) {
		snap.OrphanArtworks = nil
		snap.OrphanExhibitions = nil
	}
	httpx.WriteItem(c, http.StatusOK, snap, snap.IsFallback)
}

// POST /admin/catalog/refresh rebuilds the cached snapshot.
func (h *Handler) Refresh(c *gin.Context) {
	snap := h.Service.Refresh(c.Request.Context())
	httpx.WriteItem(c, http.StatusOK, gin.H{
		"bundles": len(snap.Bundles),
		"orphans": len(snap.OrphanArtworks) + len(snap.OrphanExhibitions),
		"failed":  snap.Failed,
		"builtAt": snap.BuiltAt,
	}, snap.IsFallback)
}
