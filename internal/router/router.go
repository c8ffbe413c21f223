package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kelasku/kelasku-backend/internal/config"
	"github.com/kelasku/kelasku-backend/internal/handler"
	"github.com/kelasku/kelasku-backend/internal/middleware"
	"github.com/kelasku/kelasku-backend/internal/response"
	"github.com/kelasku/kelasku-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Class        *handler.ClassHandler
	Member       *handler.MemberHandler
	Schedule     *handler.ScheduleHandler
	Notification *handler.NotificationHandler
	Feed         *handler.FeedHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Authenticated API Group ────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		api.PATCH("/profile", handlers.Profile.Update)

		api.GET("/classes", handlers.Class.Search)
		api.POST("/classes", handlers.Class.Create)
		api.GET("/classes/mine", handlers.Class.Mine)
		api.GET("/classes/:class_id", handlers.Class.Get)
		api.PATCH("/classes/:class_id", handlers.Class.Update)

		api.POST("/classes/:class_id/join", handlers.Member.Join)
		api.GET("/classes/:class_id/members", handlers.Member.ListByClass)
		api.GET("/classes/:class_id/membership", handlers.Member.MembershipStatus)
		api.GET("/memberships", handlers.Member.MyMemberships)
		api.PATCH("/members/:member_id", handlers.Member.UpdateStatus)

		api.GET("/classes/:class_id/schedules", handlers.Schedule.ListByClass)
		api.POST("/classes/:class_id/schedules", handlers.Schedule.Create)
		api.PATCH("/schedules/:schedule_id", handlers.Schedule.Update)
		api.DELETE("/schedules/:schedule_id", handlers.Schedule.Delete)

		api.GET("/notifications", handlers.Notification.List)
		api.PATCH("/notifications/:notification_id/read", handlers.Notification.MarkRead)
		api.POST("/notifications/read-all", handlers.Notification.MarkAllRead)
	}

	// ─── 3. WebSocket Group (Query-Token Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/feed", handlers.Feed.Stream)
	}

	return router
}
