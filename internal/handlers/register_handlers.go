package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/nexacrm/crm_backend/cmd/docs"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/middleware"
	"github.com/nexacrm/crm_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Public authentication routes, rate limited per client IP
	registerAuthRoutes(r, cfg, services, loginRateLimiter(cfg))

	// API v1 routes behind the auth middleware
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// loginRateLimiter builds the login throttle from the configured rate string.
func loginRateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		// Fall back to a conservative default rather than refusing to boot.
		rate = limiter.Rate{Period: time.Minute, Limit: 10}
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	authz := services.Authorization

	registerUserRoutes(v1, services.User, authz)
	registerBranchRoutes(v1, services.Business, services.Branch, services.Membership, authz)
	registerPermissionRoutes(v1, services.Catalog, authz)
	registerRoleRoutes(v1, services.Roles, services.Grants, authz)
	registerLeadRoutes(v1, services.Lead, services.Task, services.Call, services.Reminder, services.ActivityLog, authz)
	registerTaskRoutes(v1, services.Task, authz)
	registerCallRoutes(v1, services.Call, authz)
	registerReminderRoutes(v1, services.Reminder, authz)
	registerTodoRoutes(v1, services.Todo)
	registerActivityLogRoutes(v1, services.ActivityLog, authz)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
