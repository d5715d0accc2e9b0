package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/apperr"
	"fineart/internal/domain/orders"
	"fineart/internal/domain/profiles"
	"fineart/internal/listing"
	"fineart/internal/session"
	"fineart/internal/store"
)

type Store interface {
	Stats(ctx context.Context) (store.Stats, error)
	ListProfiles(ctx context.Context, q listing.Query) ([]profiles.Profile, int64, error)
	GetProfile(ctx context.Context, id string) (profiles.Profile, error)
	SetProfileRole(ctx context.Context, id, role string) error
	ListOrders(ctx context.Context, q listing.Query) ([]orders.Order, int64, error)
	ListOrdersByProfile(ctx context.Context, profileID string) ([]orders.Order, error)
	ReorderBoards(ctx context.Context, ids []string) error
}

// Sessions voids the tokens of a profile whose role changed.
type Sessions interface {
	RevokeProfile(ctx context.Context, profileID string) error
}

type Events interface {
	Publish(ctx context.Context, e session.Event)
}

type Handler struct {
	Store    Store
	Sessions Sessions
	Events   Events
	Logger   *zap.Logger
}

// AdminProfile is a profile as listed in the console.
type AdminProfile struct {
	profiles.Profile
	HasPassword bool `json:"hasPassword"`
}

// GET /admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.Store.Stats(c.Request.Context())
	if err != nil {
		h.Logger.Error("dashboard stats failed", zap.Error(err))
		apperr.Write(c, apperr.Unavailable("statistics are temporarily unavailable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GET /admin/profiles?q=&page=
func (h *Handler) ListProfiles(c *gin.Context) {
	q, ok := httpx.ParseQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	list, meta, err := httpx.Paged(q, func(q listing.Query) ([]profiles.Profile, int64, error) {
		return h.Store.ListProfiles(ctx, q)
	})
	if err != nil {
		h.Logger.Error("list profiles failed", zap.Error(err))
		apperr.Write(c, apperr.Unavailable("profiles are temporarily unavailable"))
		return
	}

	out := make([]AdminProfile, 0, len(list))
	for _, p := range list {
		out = append(out, AdminProfile{Profile: p, HasPassword: p.HasPassword()})
	}
	httpx.WriteList(c, out, meta, false)
}

// GET /admin/profiles/:id returns the profile with its orders.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.Store.GetProfile(ctx, c.Param("id"))
	if err != nil {
		apperr.Write(c, apperr.FromStore(err, "profile", apperr.Internal))
		return
	}
	list, err := h.Store.ListOrdersByProfile(ctx, p.ID)
	if err != nil {
		apperr.Write(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile": AdminProfile{Profile: p, HasPassword: p.HasPassword()},
		"orders":  list,
	})
}

// PUT /admin/profiles/:id/role {"role": "user"|"admin"}
func (h *Handler) SetRole(c *gin.Context) {
	var body struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Invalid(c, err, body)
		return
	}
	id := c.Param("id")
	if actor := httpx.ActorOf(c); actor.ProfileID == id && body.Role != profiles.RoleAdmin {
		apperr.Write(c, apperr.Conflict("admins cannot demote themselves"))
		return
	}
	ctx := c.Request.Context()
	if err := h.Store.SetProfileRole(ctx, id, body.Role); err != nil {
		httpx.WriteFailure(c, h.Logger, err, "profile", body)
		return
	}

	// tokens carry the role, so the old ones must stop working
	if h.Sessions != nil {
		if err := h.Sessions.RevokeProfile(ctx, id); err != nil {
			h.Logger.Error("revoke sessions after role change failed", zap.String("profile", id), zap.Error(err))
			apperr.Write(c, apperr.Internal(err))
			return
		}
	}
	if h.Events != nil {
		h.Events.Publish(ctx, session.Event{Type: session.EventRoleChanged, ProfileID: id, At: time.Now()})
	}
	h.Logger.Info("profile role changed", zap.String("profile", id), zap.String("role", body.Role))
	c.JSON(http.StatusOK, gin.H{"id": id, "role": body.Role})
}

// GET /admin/orders?status=&page=
func (h *Handler) ListOrders(c *gin.Context) {
	q, ok := httpx.ParseQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	list, meta, err := httpx.Paged(q, func(q listing.Query) ([]orders.Order, int64, error) {
		return h.Store.ListOrders(ctx, q)
	})
	if err != nil {
		h.Logger.Error("list orders failed", zap.Error(err))
		apperr.Write(c, apperr.Unavailable("orders are temporarily unavailable"))
		return
	}
	httpx.WriteList(c, list, meta, false)
}

// PUT /admin/boards/reorder {"boardIds": [...]} sets orderIndex by position.
func (h *Handler) ReorderBoards(c *gin.Context) {
	var body struct {
		BoardIDs []string `json:"boardIds" binding:"required,min=1,dive,required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		httpx.Invalid(c, err, body)
		return
	}
	seen := make(map[string]struct{}, len(body.BoardIDs))
	for _, id := range body.BoardIDs {
		if _, dup := seen[id]; dup {
			apperr.Write(c, apperr.Validation("boardIds must not repeat").WithInput(body))
			return
		}
		seen[id] = struct{}{}
	}

	err := h.Store.ReorderBoards(c.Request.Context(), body.BoardIDs)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperr.Write(c, apperr.NotFound("board").WithInput(body))
		return
	}
	if err != nil {
		httpx.WriteFailure(c, h.Logger, err, "board order", body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boardIds": body.BoardIDs})
}
