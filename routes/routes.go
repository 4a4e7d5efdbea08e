// File: /routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"runclub-api/config"
	"runclub-api/controllers"
	"runclub-api/middleware"
	"runclub-api/services"
)

// Services bundles everything the HTTP layer needs.
type Services struct {
	DB    *gorm.DB
	Auth  *services.AuthService
	Users *services.UserService
	Runs  *services.RunService
	Posts *services.PostService
	Tips  *services.TipService
	Stats *services.StatsService
}

// NewServices wires the service layer over one database handle.
func NewServices(db *gorm.DB, cfg *config.Config, mailer services.Mailer, log *zap.Logger) *Services {
	return &Services{
		DB: db,
		Auth: services.NewAuthService(db, services.AuthOptions{
			JWTSecret:  cfg.JWTSecret,
			TokenTTL:   cfg.TokenTTL,
			BcryptCost: cfg.BcryptCost,
		}, mailer, log),
		Users: services.NewUserService(db, log),
		Runs:  services.NewRunService(db, mailer, log),
		Posts: services.NewPostService(db, log),
		Tips:  services.NewTipService(db, log),
		Stats: services.NewStatsService(db, log),
	}
}

// NewRouter builds the engine with the global middleware chain.
func NewRouter(cfg *config.Config, svc *Services, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log.Named("http")),
		middleware.ErrorHandler(log),
		middleware.SecurityHeaders(),
		middleware.CORS(),
	)
	SetupRoutes(r, cfg, svc)
	return r
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, svc *Services) {
	authController := controllers.NewAuthController(svc.Auth)
	userController := controllers.NewUserController(svc.Users, svc.Runs)
	runController := controllers.NewRunController(svc.Runs)
	postController := controllers.NewPostController(svc.Posts)
	tipController := controllers.NewTipController(svc.Tips)
	adminController := controllers.NewAdminController(svc.Stats, svc.Users)
	healthController := controllers.NewHealthController(svc.DB)

	api := r.Group("/api")
	api.GET("/health", healthController.Health)

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/logout", authController.Logout)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	{
		users := protected.Group("/users")
		{
			users.GET("", userController.GetUsers)
			users.GET("/me", userController.GetProfile)
			users.GET("/:id", userController.GetUser)
			users.PATCH("/:id", userController.UpdateUser)
			users.GET("/:id/stats", userController.GetStats)
			users.GET("/:id/runs", userController.GetUserRuns)
		}

		runs := protected.Group("/runs")
		{
			runs.GET("", runController.GetRuns)
			runs.GET("/joined", runController.GetJoinedRuns)
			runs.GET("/:id", runController.GetRun)
			runs.POST("", middleware.RequireAdmin(), runController.CreateRun)
			runs.PATCH("/:id", middleware.RequireAdmin(), runController.UpdateRun)
			runs.DELETE("/:id", middleware.RequireAdmin(), runController.DeleteRun)
			runs.POST("/:id/join", runController.JoinRun)
			runs.POST("/:id/leave", runController.LeaveRun)
		}

		posts := protected.Group("/posts")
		{
			posts.GET("", postController.GetPosts)
			posts.POST("", postController.CreatePost)
			posts.GET("/:id", postController.GetPost)
			posts.POST("/:id/like", postController.LikePost)
			posts.GET("/:id/comments", postController.GetComments)
			posts.POST("/:id/comments", postController.AddComment)
		}

		// Articles are the same library under the name the second client uses.
		for _, prefix := range []string{"/tips", "/articles"} {
			tips := protected.Group(prefix)
			tips.GET("", tipController.GetTips)
			tips.GET("/:id", tipController.GetTip)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/users/:id/suspend", adminController.SuspendUser)
			admin.POST("/users/:id/unsuspend", adminController.UnsuspendUser)
		}
	}
}
