package router

import (
	"github.com/gin-gonic/gin"

	"duka/internal/config"
	"duka/internal/domain"
	"duka/internal/handler"
	"duka/internal/middleware"
	"duka/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	salesH *handler.SalesHandler,
	productH *handler.ProductHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Sales routes
	sales := protected.Group("/sales")
	sales.POST("/parse", salesH.Parse)
	sales.POST("/preview", salesH.Preview)
	sales.POST("", salesH.Record)
	sales.GET("", salesH.List)
	sales.GET("/:id", salesH.Get)
	sales.POST("/:id/confirm", salesH.Confirm)
	sales.POST("/:id/cancel", salesH.Cancel)

	// Catalog routes (writes restricted to owners)
	products := protected.Group("/products")
	products.GET("", productH.List)
	products.GET("/price", productH.Price)
	products.GET("/:id", productH.Get)
	products.POST("", middleware.RequireRole(domain.RoleOwner), productH.Create)
	products.PUT("/:id", middleware.RequireRole(domain.RoleOwner), productH.Update)
	products.DELETE("/:id", middleware.RequireRole(domain.RoleOwner), productH.Delete)

	return r
}
