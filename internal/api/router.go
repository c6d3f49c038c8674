package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/pickmeapp/pickme-api/docs"
	"github.com/pickmeapp/pickme-api/internal/api/handler"
	"github.com/pickmeapp/pickme-api/internal/api/middleware"
	"github.com/pickmeapp/pickme-api/internal/api/policy"
	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/core/service"
	"github.com/pickmeapp/pickme-api/internal/core/token"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/config"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/db/postgres"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/db/redis"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/queue"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/scheduler"
)

// Background holds the long-running workers the router wires up. The caller
// starts them with a context it controls.
type Background struct {
	Dispatcher *queue.Dispatcher
	OTPCleaner *scheduler.OTPCleaner
}

// NewRouter builds the Echo instance with every route registered and returns
// it together with the background workers backing the webhook pipeline and
// OTP cleanup.
func NewRouter(cfg *config.Config, log zerolog.Logger, db *sqlx.DB, rdb *goredis.Client, mailer ports.Mailer) (*echo.Echo, *Background) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     corsOrigins(cfg),
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	e.Use(echoprometheus.NewMiddleware("pickme"))

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(db)
	restaurantRepo := postgres.NewRestaurantRepository(db)
	menuRepo := postgres.NewMenuRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	otpRepo := postgres.NewOTPRepository(db)

	// --- Services ---
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, codec)
	restaurantService := service.NewRestaurantService(restaurantRepo, log)
	menuService := service.NewMenuService(menuRepo, restaurantRepo)
	cartService := service.NewCartService(cartRepo, menuRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, restaurantRepo, log)
	paymentService := service.NewPaymentService(orderRepo, paymentRepo, redis.NewDedupChecker(rdb), log)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, restaurantRepo, log)
	resetService := service.NewPasswordResetService(
		userRepo, otpRepo, mailer, redis.NewResetRateLimiter(rdb), cfg.OTP.TTL, log)

	dispatcher := queue.NewDispatcher(0, paymentService, log)
	cleaner := scheduler.NewOTPCleaner(otpRepo, cfg.OTP.CleanupInterval, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, resetService)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService)
	menuHandler := handler.NewMenuHandler(menuService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(dispatcher, cfg.SepayWebhookKey)
	reviewHandler := handler.NewReviewHandler(reviewService)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	// --- Authentication gate ---
	// The bypass rules are the single source of truth for which requests skip
	// token resolution; everything else flows through the codec and, when a
	// route demands it, RequireAuth/RequireRoles.
	e.Use(middleware.Authenticate(codec, userRepo, policy.DefaultRules()))

	// --- Health probes and operational surfaces ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Auth ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/me", authHandler.Me, middleware.RequireAuth())
	auth.PUT("/me", authHandler.UpdateProfile, middleware.RequireAuth())

	// --- Restaurants and menus ---
	restaurants := e.Group("/api/restaurants")
	restaurants.GET("", restaurantHandler.List)
	restaurants.GET("/nearby", restaurantHandler.Nearby)
	restaurants.GET("/:id", restaurantHandler.Get)
	restaurants.POST("", restaurantHandler.Create, middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin))
	restaurants.PUT("/:id", restaurantHandler.Update, middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin))

	restaurants.GET("/:id/menu/public", menuHandler.PublicMenu)
	restaurants.GET("/:id/menu", menuHandler.FullMenu, middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin))
	restaurants.POST("/:id/menu", menuHandler.CreateItem, middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin))
	restaurants.PUT("/:id/menu/:item_id", menuHandler.UpdateItem, middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin))
	restaurants.DELETE("/:id/menu/:item_id", menuHandler.DeleteItem, middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin))

	restaurants.GET("/:id/reviews", reviewHandler.ListByRestaurant)

	// --- Cart ---
	cart := e.Group("/api/cart", middleware.RequireRoles(domain.RoleCustomer))
	cart.GET("", cartHandler.Get)
	cart.POST("/items", cartHandler.AddItem)
	cart.PUT("/items/:item_id", cartHandler.UpdateItem)
	cart.DELETE("/items/:item_id", cartHandler.RemoveItem)
	cart.DELETE("", cartHandler.Clear)

	// --- Orders ---
	orders := e.Group("/api/orders")
	orders.GET("/:id/status", orderHandler.Status) // public receipt lookup, by reference
	orders.POST("", orderHandler.Create, middleware.RequireRoles(domain.RoleCustomer))
	orders.GET("", orderHandler.List, middleware.RequireAuth())
	orders.GET("/:id", orderHandler.Get, middleware.RequireAuth())
	orders.PATCH("/:id/advance", orderHandler.Advance, middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin))
	orders.POST("/:id/cancel", orderHandler.Cancel, middleware.RequireRoles(domain.RoleCustomer))
	orders.POST("/:id/review", reviewHandler.Create, middleware.RequireRoles(domain.RoleCustomer))

	// --- Payments ---
	e.POST("/api/payments/sepay/webhook", paymentHandler.Webhook)

	return e, &Background{Dispatcher: dispatcher, OTPCleaner: cleaner}
}

// corsOrigins merges the static allow list with the optional dev tunnel.
func corsOrigins(cfg *config.Config) []string {
	origins := cfg.CORS.AllowOrigins
	if cfg.CORS.TunnelOrigin != "" {
		origins = append(origins, cfg.CORS.TunnelOrigin)
	}
	return origins
}
