package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/realestate-app/config"
	"github.com/yeremiapane/realestate-app/controllers"
	"github.com/yeremiapane/realestate-app/metrics"
	"github.com/yeremiapane/realestate-app/middlewares"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/realtime"
	"github.com/yeremiapane/realestate-app/repository"
	"github.com/yeremiapane/realestate-app/services"
	"github.com/yeremiapane/realestate-app/utils"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

var uploadExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// App is the assembled HTTP application and the background pieces main
// has to shut down.
type App struct {
	Engine  *gin.Engine
	Hub     *realtime.Hub
	Sweeper *services.TokenSweeper
	Store   *repository.Store
}

func SetupRouter(db *gorm.DB, cfg *config.Config) *App {
	r := gin.New()
	r.Use(gin.Recovery())

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Wiring
	store := repository.NewStore(db)
	hub := realtime.NewHub(m)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.JWTRefreshExpiry)
	uploader := services.NewDiskUploader(cfg.UploadDir, cfg.MaxUploadBytes, m)

	notificationSvc := services.NewNotificationService(store.Notifications, hub, m)
	historySvc := services.NewHistoryService(store.History)
	userSvc := services.NewUserService(store.Users, uploader, notificationSvc, historySvc)
	authSvc := services.NewAuthService(userSvc, store.Users, store.Tokens, tokens)
	propertySvc := services.NewPropertyService(store.Properties, uploader, notificationSvc, historySvc, m)
	agentSvc := services.NewAgentService(store.Agents, store.Users, notificationSvc, historySvc, m)
	viewSvc := services.NewPropertyViewService(store.Views, store.Properties)

	authCtrl := controllers.NewAuthController(authSvc, cfg.GinMode == gin.ReleaseMode)
	userCtrl := controllers.NewUserController(userSvc)
	propertyCtrl := controllers.NewPropertyController(propertySvc)
	agentCtrl := controllers.NewAgentController(agentSvc)
	notificationCtrl := controllers.NewNotificationController(notificationSvc)
	historyCtrl := controllers.NewHistoryController(historySvc)
	viewCtrl := controllers.NewPropertyViewController(viewSvc)
	wsCtrl := controllers.NewWSController(hub, cfg.FrontendDomain)

	r.Use(middlewares.SecurityHeaders(cfg.HSTS))
	r.Use(middlewares.CORSMiddlewares(cfg.FrontendDomain))
	r.Use(middlewares.LoggerMiddleware())
	if m != nil {
		r.Use(middlewares.MetricsMiddleware(m))
	}

	// Only images are served from the upload directory
	r.Use(func(c *gin.Context) {
		if path := strings.ToLower(c.Request.URL.Path); strings.HasPrefix(path, "/uploads/") {
			allowed := false
			for _, ext := range uploadExtensions {
				if strings.HasSuffix(path, ext) {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.Next()
	})
	r.Static("/uploads", filepath.Clean(cfg.UploadDir))

	// ----------------------------------------------------------------
	//                      OPERATIONAL
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			utils.ErrorLogger.Printf("database ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/ws/notifications", middlewares.WebSocketAuthMiddleware(authSvc), wsCtrl.Notifications)

	requireAuth := middlewares.AuthMiddleware(authSvc)
	optionalAuth := middlewares.OptionalAuthMiddleware(authSvc)
	adminOnly := middlewares.RequireRoles(models.RoleAdmin)

	api := r.Group("/" + cfg.APIPrefix)
	api.Use(middlewares.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst).RateLimit())

	// ----------------------------------------------------------------
	//                      AUTH
	// ----------------------------------------------------------------
	authGroup := api.Group("/auth")
	{
		strict := middlewares.NewStrictRateLimiter().RateLimit()
		authGroup.POST("/email/register", strict, authCtrl.Register)
		authGroup.POST("/email/login", strict, authCtrl.Login)
		authGroup.POST("/refresh", authCtrl.Refresh)
		authGroup.POST("/forgot-password", strict, authCtrl.ForgotPassword)
		authGroup.POST("/reset-password", authCtrl.ResetPassword)
		authGroup.GET("/verify", requireAuth, authCtrl.Verify)
		authGroup.PATCH("/change-password", requireAuth, authCtrl.ChangePassword)
		authGroup.POST("/logout", requireAuth, authCtrl.Logout)
	}

	// ----------------------------------------------------------------
	//                      USERS
	// ----------------------------------------------------------------
	users := api.Group("/users")
	{
		users.GET("/active-agents", userCtrl.ActiveAgents)

		users.Use(requireAuth)
		users.PATCH("/update/profile", userCtrl.UpdateProfile)
		users.POST("/profile-image-upload", userCtrl.UploadProfileImage)
		users.PATCH("/email", userCtrl.UpdateEmail)
		users.POST("/role-request", userCtrl.RequestRole)

		users.POST("/create", adminOnly, userCtrl.Create)
		users.GET("", adminOnly, userCtrl.FindAll)
		users.DELETE("/:id", adminOnly, userCtrl.Delete)
		users.PATCH("/:id", adminOnly, userCtrl.AdminUpdate)
		users.PATCH("/:id/upgrade-role", adminOnly, userCtrl.UpgradeRole)
	}

	// ----------------------------------------------------------------
	//                      PROPERTY
	// ----------------------------------------------------------------
	property := api.Group("/property")
	{
		property.GET("", propertyCtrl.FindAll)
		property.GET("/filter", propertyCtrl.Filter)
		property.GET("/nearby", propertyCtrl.Nearby)
		property.GET("/:id", propertyCtrl.FindOne)

		property.Use(requireAuth)
		property.POST("", propertyCtrl.Create)
		property.PATCH("/:id", propertyCtrl.Update)
		property.DELETE("/:id", propertyCtrl.Remove)
		property.POST("/upload-property-images/:id", propertyCtrl.UploadImages)
		property.POST("/:id/request", propertyCtrl.Inquiry)
		property.POST("/:id/deal-request", middlewares.RequireRoles(models.RoleAgent), propertyCtrl.DealRequest)
		property.POST("/:id/accept-deal", propertyCtrl.AcceptDeal)
	}

	// ----------------------------------------------------------------
	//                      AGENT
	// ----------------------------------------------------------------
	agent := api.Group("/agent")
	{
		agent.GET("", agentCtrl.FindAll)
		agent.GET("/requests", requireAuth, adminOnly, agentCtrl.PendingRequests)
		agent.GET("/:id", agentCtrl.FindOne)

		agent.Use(requireAuth)
		agent.POST("/request", agentCtrl.RequestAgent)
		agent.POST("/create", adminOnly, agentCtrl.Create)
		agent.PATCH("/:id", middlewares.RequireRoles(models.RoleAdmin, models.RoleAgent), agentCtrl.Update)
		agent.DELETE("/:id", adminOnly, agentCtrl.Remove)
		agent.POST("/:id/approve", adminOnly, agentCtrl.Approve)
		agent.POST("/:id/reject", adminOnly, agentCtrl.Reject)
		agent.POST("/:id/commission", adminOnly, agentCtrl.CreditCommission)
	}

	// ----------------------------------------------------------------
	//                      NOTIFICATION
	// ----------------------------------------------------------------
	notification := api.Group("/notification", requireAuth)
	{
		notification.POST("", adminOnly, notificationCtrl.Send)
		notification.GET("", adminOnly, notificationCtrl.GetAll)
		notification.GET("/:userId", middlewares.RequireSelfOrAdmin("userId"), notificationCtrl.GetForUser)
		notification.GET("/:userId/by-roles/:model", middlewares.RequireSelfOrAdmin("userId"), notificationCtrl.GetForUserRolesAndModel)
		notification.PATCH("/:id", adminOnly, notificationCtrl.UpdateAllowedRoles)
		notification.PATCH("/:id/read", notificationCtrl.MarkRead)
	}

	// ----------------------------------------------------------------
	//                      HISTORY & VIEWS
	// ----------------------------------------------------------------
	history := api.Group("/history", requireAuth)
	{
		history.POST("", historyCtrl.Log)
		history.GET("/:userId", middlewares.RequireSelfOrAdmin("userId"), historyCtrl.GetForUser)
	}

	views := api.Group("/propertyviews")
	{
		views.POST("/public-view", optionalAuth, viewCtrl.RecordView)
		views.GET("/public-view", viewCtrl.ListViews)
	}

	return &App{
		Engine:  r,
		Hub:     hub,
		Sweeper: services.NewTokenSweeper(store.Tokens),
		Store:   store,
	}
}
