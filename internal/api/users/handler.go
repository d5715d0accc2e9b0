package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/domain/orders"
	"fineart/internal/domain/profiles"
	"fineart/internal/session"
)

type Store interface {
	GetProfile(ctx context.Context, id string) (profiles.Profile, error)
	ListOrdersByProfile(ctx context.Context, profileID string) ([]orders.Order, error)
}

type Handler struct {
	Store  Store
	Logger *zap.Logger
}

// GET /me returns the verified session: profile, capabilities and orders.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := httpx.ClaimsOf(c)
	if !ok {
		httpx.AuthError(c, session.Fail(session.CodeTokenMissing, nil))
		return
	}
	ctx := c.Request.Context()

	p, err := h.Store.GetProfile(ctx, claims.UID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.AuthError(c, session.Fail(session.CodeTokenInvalid, err))
		return
	}
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}

	list, err := h.Store.ListOrdersByProfile(ctx, p.ID)
	if err != nil {
		h.Logger.Warn("list orders failed", zap.String("profile", p.ID), zap.Error(err))
		list = nil
	}

	c.JSON(http.StatusOK, MeResponse{
		Profile: BuildProfileDTO(p),
		Access:  BuildAccessDTO(p, claims),
		Orders:  BuildOrderDTOs(list),
	})
}
