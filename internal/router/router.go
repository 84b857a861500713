package router

import (
	"radio-go/internal/config"
	"radio-go/internal/handler"
	"radio-go/internal/middleware"
	"radio-go/internal/models"
	"radio-go/internal/repository"
	"radio-go/internal/service"
	"radio-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter 设置路由，limiter 为 nil 时不限制登录失败次数
func SetupRouter(
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	logger logrus.FieldLogger,
	db *gorm.DB,
	limiter service.LoginLimiter,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidator()

	r := gin.New()

	// 全局中间件
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	showRepo := repository.NewShowRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	// 初始化Service
	authService := service.NewAuthService(userRepo, jwtManager, limiter, cfg)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	showService := service.NewShowService(showRepo, scheduleRepo, userRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, showRepo, userRepo)

	// 初始化Handler
	healthHandler := handler.NewHealthHandler(db, logger)
	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	showHandler := handler.NewShowHandler(showService, logger)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, logger)

	// 健康检查
	r.GET("/", healthHandler.Info)
	r.GET("/healthz", healthHandler.Healthz)

	requireAuth := middleware.AuthMiddleware(jwtManager, authService)
	requireStaff := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator)

	// API路由组
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// 用户管理，仅管理员
		users := api.Group("/users")
		users.Use(requireAuth, middleware.RequireRoles(models.RoleAdmin))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// 节目，读取公开
		shows := api.Group("/shows")
		{
			shows.GET("", showHandler.ListShows)
			shows.GET("/:id", showHandler.GetShow)
			shows.GET("/:id/schedule", showHandler.ListShowSchedule)
			shows.POST("", requireAuth, requireStaff, showHandler.CreateShow)
			shows.PUT("/:id", requireAuth, requireStaff, showHandler.UpdateShow)
			shows.DELETE("/:id", requireAuth, requireStaff, showHandler.DeleteShow)
		}

		// 排期，读取公开
		schedule := api.Group("/schedule")
		{
			schedule.GET("", scheduleHandler.ListSchedule)
			schedule.GET("/:id", scheduleHandler.GetScheduleItem)
			schedule.POST("", requireAuth, requireStaff, scheduleHandler.CreateScheduleItem)
			schedule.PUT("/:id", requireAuth, requireStaff, scheduleHandler.UpdateScheduleItem)
			schedule.DELETE("/:id", requireAuth, requireStaff, scheduleHandler.DeleteScheduleItem)
		}
	}

	return r
}
