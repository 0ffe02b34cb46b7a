package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kikibeach/kiki-pos/internal/config"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	domainRepo "github.com/kikibeach/kiki-pos/internal/domain/repository"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/handler"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/middleware"
	"github.com/kikibeach/kiki-pos/pkg/logger"
	"github.com/kikibeach/kiki-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Menu    *handler.MenuHandler
	Order   *handler.OrderHandler
	History *handler.HistoryHandler
	Printer *handler.PrinterHandler
	Health  *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	Logger          *logger.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	{
		// Staff tokens are optional here so that the limiter and the
		// idempotency scope can key on the account when one is present.
		v1.Use(middleware.OptionalAuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			v1.Use(deps.RateLimiter.Middleware())
		}

		registerPublicRoutes(v1, h, deps)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerPublicRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.POST("/auth/login", h.Auth.Login)

	rg.GET("/menu", h.Menu.List)
	rg.GET("/menu/:id", h.Menu.Get)
	rg.GET("/categories", h.Menu.Categories)

	rg.POST("/orders", middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	}), h.Order.Create)
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers) {
	admin := middleware.RequireRole(enum.RoleAdmin)

	rg.GET("/profile", h.Auth.Profile)
	rg.POST("/auth/register", admin, h.Auth.Register)

	orders := rg.Group("/orders")
	{
		orders.GET("/queue", h.Order.Queue)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.DELETE("/:id", h.Order.Archive)
	}

	history := rg.Group("/history")
	{
		history.GET("", h.History.List)
		history.GET("/export", h.History.Export)
	}

	menu := rg.Group("/menu", admin)
	{
		menu.POST("", h.Menu.Create)
		menu.PUT("/:id", h.Menu.Update)
		menu.DELETE("/:id", h.Menu.Delete)
		menu.PATCH("/:id/stock", h.Menu.UpdateStock)
	}

	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.Status)
		printer.POST("/preview", h.Printer.Preview)
		printer.POST("/preview/batch", h.Printer.PreviewBatch)
		printer.POST("/print", h.Printer.Print)
		printer.POST("/raw", h.Printer.PrintRaw)
	}
}
