package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/unify-api/internal/handler"
	"github.com/noah-isme/unify-api/internal/middleware"
	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/service"
	"github.com/noah-isme/unify-api/pkg/config"
	"github.com/noah-isme/unify-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/unify-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/unify-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Course   *handler.CourseHandler
	Planning *handler.PlanningHandler
	Activity *handler.ActivityHandler
	Event    *handler.EventHandler
	Metrics  *handler.MetricsHandler
}

// Setup builds the gin engine with global middleware and all routes.
func Setup(cfg *config.Config, h Handlers, auth middleware.Authenticator, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	r.GET("/metrics/summary", h.Metrics.Summary)

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.JWT(auth)
	optionalAuth := middleware.OptionalJWT(auth)
	students := middleware.RequireRoles(models.RoleStudent)

	api := r.Group(cfg.APIPrefix)
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", requireAuth, h.Auth.Me)

		courses := api.Group("/courses")
		courses.GET("", h.Course.List)
		courses.GET("/filters", h.Course.Filters)
		courses.GET("/mine", requireAuth, middleware.RequireRoles(models.RoleStudent, models.RoleProfessor), h.Course.Mine)
		courses.POST("", requireAuth, middleware.RequireRoles(models.RoleProfessor), h.Course.Create)
		courses.GET("/:id", optionalAuth, h.Course.Get)
		courses.POST("/:id/enroll", requireAuth, students, h.Course.Enroll)
		courses.DELETE("/:id/enroll", requireAuth, students, h.Course.Unenroll)
		courses.PUT("/:id/feedback", requireAuth, students, h.Course.Feedback)

		planning := api.Group("/planning", requireAuth)
		planning.GET("", h.Planning.Schedule)
		planning.GET("/conflicts", h.Planning.Conflicts)
		planning.GET("/export", h.Planning.Export)

		activities := api.Group("/activities", requireAuth)
		activities.GET("", h.Activity.List)
		activities.POST("", h.Activity.Create)
		activities.DELETE("/:id", h.Activity.Delete)

		events := api.Group("/events")
		events.GET("", h.Event.List)
		events.POST("", requireAuth, h.Event.Create)
		events.GET("/:id", optionalAuth, h.Event.Get)
		events.DELETE("/:id", requireAuth, h.Event.Delete)
		events.POST("/:id/join", requireAuth, h.Event.Join)
		events.DELETE("/:id/join", requireAuth, h.Event.Leave)
	}

	return r
}
