package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	adminapi "fineart/internal/api/admin"
	articlesapi "fineart/internal/api/articles"
	artistsapi "fineart/internal/api/artists"
	artworksapi "fineart/internal/api/artworks"
	authapi "fineart/internal/api/auth"
	boardsapi "fineart/internal/api/boards"
	catalogapi "fineart/internal/api/catalog"
	exhibitionsapi "fineart/internal/api/exhibitions"
	"fineart/internal/api/live"
	"fineart/internal/api/storefront"
	stripewebhooks "fineart/internal/api/stripewebhook"
	"fineart/internal/api/uploads"
	"fineart/internal/api/users"
	"fineart/internal/app/http/middleware"
	"fineart/internal/domain/profiles"
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers is everything the router serves. Each field must be set.
type Handlers struct {
	Artists     *artistsapi.Handler
	Artworks    *artworksapi.Handler
	Exhibitions *exhibitionsapi.Handler
	Boards      *boardsapi.Handler
	Articles    *articlesapi.Handler
	Catalog     *catalogapi.Handler
	Auth        *authapi.Handler
	Users       *users.Handler
	Admin       *adminapi.Handler
	Uploads     *uploads.Handler
	Storefront  *storefront.Handler
	Webhook     *stripewebhooks.Handler
	Live        *live.Handler

	Tokens     middleware.TokenVerifier
	ServiceKey string
	DB         Pinger

	// UploadDir is served under UploadPath when uploads are stored locally.
	UploadDir  string
	UploadPath string
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.UploadDir != "" && h.UploadPath != "" {
		r.Static(h.UploadPath, h.UploadDir)
	}

	// raw body is needed for the signature check
	r.POST("/webhook", h.Webhook.Receive)

	// article bodies are rich HTML and are sanitised by their handler; passwords are hashed as typed
	api := r.Group("/")
	api.Use(
		middleware.Authenticate(h.Tokens, h.ServiceKey),
		middleware.SanitizeInput("content", "password", "currentPassword", "newPassword"),
	)

	api.GET("/catalog", h.Catalog.Bundles)
	api.GET("/artists", h.Artists.List)
	api.GET("/artists/:slug", h.Artists.Get)
	api.GET("/artworks", h.Artworks.List)
	api.GET("/artworks/:id", h.Artworks.Get)
	api.GET("/exhibitions", h.Exhibitions.List)
	api.GET("/exhibitions/:id", h.Exhibitions.Get)
	api.GET("/boards", h.Boards.Tree)
	api.GET("/boards/:slug", h.Boards.Show)
	api.GET("/articles/:id", h.Articles.Get)
	api.GET("/live/artworks", h.Live.Artworks)

	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/auth/google", h.Auth.GoogleStart)
	api.GET("/auth/google/callback", h.Auth.GoogleCallback)
	api.GET("/session/hint", h.Auth.SessionHint)

	// Authenticated
	auth := api.Group("/")
	auth.Use(middleware.RequireAuth())
	auth.GET("/me", h.Users.Me)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/change-password", h.Auth.ChangePassword)

	auth.POST("/boards/:slug/articles", h.Articles.Create)
	auth.PUT("/articles/:id", h.Articles.Update)
	auth.DELETE("/articles/:id", h.Articles.Delete)
	auth.PATCH("/articles/:id/images/:index", h.Articles.EditImage)

	auth.POST("/uploads", h.Uploads.Upload)
	auth.POST("/artworks/:id/checkout", h.Storefront.Checkout)

	// Catalog and board management
	manage := auth.Group("/")
	manage.Use(middleware.RequireRole(profiles.RoleAdmin))
	manage.POST("/artists", h.Artists.Create)
	manage.PUT("/artists/:id", h.Artists.Update)
	manage.DELETE("/artists/:id", h.Artists.Delete)
	manage.POST("/artworks", h.Artworks.Create)
	manage.PUT("/artworks/:id", h.Artworks.Update)
	manage.DELETE("/artworks/:id", h.Artworks.Delete)
	manage.POST("/exhibitions", h.Exhibitions.Create)
	manage.PUT("/exhibitions/:id", h.Exhibitions.Update)
	manage.DELETE("/exhibitions/:id", h.Exhibitions.Delete)
	manage.POST("/boards", h.Boards.Create)
	manage.PUT("/boards/:id", h.Boards.Update)
	manage.DELETE("/boards/:id", h.Boards.Delete)

	// Admin routes
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireRole(profiles.RoleAdmin))
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/profiles", h.Admin.ListProfiles)
	admin.GET("/profiles/:id", h.Admin.GetProfile)
	admin.PUT("/profiles/:id/role", h.Admin.SetRole)
	admin.GET("/orders", h.Admin.ListOrders)
	admin.PUT("/boards/reorder", h.Admin.ReorderBoards)
	admin.POST("/catalog/refresh", h.Catalog.Refresh)
}
