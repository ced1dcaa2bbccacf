package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchadmin/stitchadmin/cmd/docs"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
	"github.com/stitchadmin/stitchadmin/internal/platform/config"
	"github.com/stitchadmin/stitchadmin/internal/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	hub *websocket.Hub,
	publicLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public design approval links, throttled per client IP
	public := r.Group("/public", middleware.RateLimit(publicLimiter))
	registerDesignApprovalRoutes(public, services.Order)

	// Websocket feed of committed order transitions; authenticates via query token
	if hub != nil {
		r.GET("/ws/events", func(c *gin.Context) {
			websocket.ServeWs(hub, c, cfg.JWTSecret)
		})
	}

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, service.Account)
	registerLedgerRoutes(v1, service.Ledger)
	registerBookingRoutes(v1, service.Booking)
	registerSequenceRoutes(v1, service.Numbering)
	registerOrderRoutes(v1, service.Order)
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
