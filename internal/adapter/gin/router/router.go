package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/adapter/gin/handler"
	"grocery-delivery-service/internal/adapter/gin/middleware"
	grpcmiddleware "grocery-delivery-service/internal/adapter/grpc/middleware"
	"grocery-delivery-service/internal/adapter/health"
	"grocery-delivery-service/internal/adapter/storage"
	"grocery-delivery-service/pkg/metrics"
	"grocery-delivery-service/pkg/token"
)

// Handlers groups the REST handlers.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Admin   *handler.AdminHandler
	Driver  *handler.DriverHandler
	Catalog *handler.CatalogHandler
	Banner  *handler.BannerHandler
	Order   *handler.OrderHandler
	Payout  *handler.PayoutHandler
	Report  *handler.ReportHandler
	Audit   *handler.AuditHandler
}

// Config carries everything the router wires besides the handlers.
type Config struct {
	Tokens      middleware.TokenParser
	CookieName  string
	RateLimiter *grpcmiddleware.RateLimiter
	Metrics     *metrics.Metrics
	Audit       middleware.AuditRecorder
	Health      *health.Checker
	UploadDir   string
	SwaggerFile string
	ServiceName string
	Release     bool

	// TrustedProxies lists the proxies whose X-Forwarded-For is believed
	// when resolving the client IP. Empty means the socket address is used.
	TrustedProxies []string
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(h Handlers, cfg Config, log *zap.Logger) *gin.Engine {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics(cfg.Metrics))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.Response{Error: "not_found", Message: "route not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.Response{Error: "method_not_allowed", Message: "method not allowed"})
	})

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "healthy", "service": cfg.ServiceName}
		if cfg.Health != nil {
			report := cfg.Health.Check(c.Request.Context())
			body["components"] = report.Components
			if !report.Healthy {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
			}
		}
		c.JSON(status, body)
	})

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.SwaggerFile != "" {
		router.GET("/swagger/doc.json", func(c *gin.Context) { c.File(cfg.SwaggerFile) })
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	if cfg.UploadDir != "" {
		router.Static(storage.PublicPrefix, cfg.UploadDir)
	}

	api := router.Group("/api", middleware.RateLimiter(cfg.RateLimiter))
	authn := middleware.Authenticate(cfg.Tokens, cfg.CookieName)

	// Public
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.GET("/me", authn, h.Auth.Me)
	}
	api.GET("/products", h.Catalog.ListProducts)
	api.GET("/products/:id", h.Catalog.GetProduct)
	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/categories/:id", h.Catalog.GetCategory)
	api.GET("/banners", h.Banner.List)

	// Customers
	users := api.Group("/users/me", authn, middleware.RequireRoles(token.RoleUser))
	{
		users.PUT("", h.User.UpdateMe)
		users.PUT("/password", h.User.ChangePassword)
		users.GET("/orders", h.Order.ListMine)
	}

	orders := api.Group("/orders", authn)
	{
		orders.POST("", middleware.RequireRoles(token.RoleUser), h.Order.Place)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/cancel", middleware.RequireRoles(token.RoleUser), h.Order.Cancel)
	}

	// Drivers
	drivers := api.Group("/drivers/me", authn, middleware.RequireRoles(token.RoleDriver))
	{
		drivers.GET("", h.Driver.Me)
		drivers.PUT("/duty", h.Driver.SetDuty)
		drivers.GET("/orders", h.Order.ListAssigned)
		drivers.POST("/orders/:id/pickup", h.Order.PickUp)
		drivers.POST("/orders/:id/deliver", h.Order.Deliver)
		drivers.GET("/earnings", h.Payout.Earnings)
		drivers.GET("/payments", h.Payout.Payments)
		drivers.GET("/cash-summary", h.Payout.CashSummary)
	}

	// Admin
	admin := api.Group("/admin", authn, middleware.RequireAdmin(), middleware.Audit(cfg.Audit, log))
	{
		admin.GET("/users", h.User.List)
		admin.GET("/users/:id", h.User.Get)
		admin.PATCH("/users/:id/block", h.User.SetBlocked)
		admin.DELETE("/users/:id", h.User.Delete)

		admins := admin.Group("/admins", middleware.RequireRoles(token.RoleSuperAdmin))
		admins.POST("", h.Admin.Create)
		admins.GET("", h.Admin.List)
		admins.DELETE("/:id", h.Admin.Delete)

		admin.POST("/drivers", h.Driver.Create)
		admin.GET("/drivers", h.Driver.List)
		admin.GET("/drivers/:id", h.Driver.Get)
		admin.PUT("/drivers/:id", h.Driver.Update)
		admin.PATCH("/drivers/:id/active", h.Driver.SetActive)
		admin.DELETE("/drivers/:id", h.Driver.Delete)
		admin.GET("/drivers/:id/earnings", h.Payout.Earnings)
		admin.GET("/drivers/:id/payments", h.Payout.Payments)
		admin.GET("/drivers/:id/cash-summary", h.Payout.CashSummary)
		admin.POST("/drivers/:id/pay", h.Payout.Pay)

		admin.GET("/categories", h.Catalog.AdminListCategories)
		admin.GET("/categories/:id", h.Catalog.AdminGetCategory)
		admin.POST("/categories", h.Catalog.CreateCategory)
		admin.PUT("/categories/:id", h.Catalog.UpdateCategory)
		admin.DELETE("/categories/:id", h.Catalog.DeleteCategory)
		admin.POST("/categories/:id/image", h.Catalog.UploadCategoryImage)

		admin.GET("/products", h.Catalog.AdminListProducts)
		admin.GET("/products/:id", h.Catalog.AdminGetProduct)
		admin.POST("/products", h.Catalog.CreateProduct)
		admin.PUT("/products/:id", h.Catalog.UpdateProduct)
		admin.DELETE("/products/:id", h.Catalog.DeleteProduct)
		admin.PATCH("/products/:id/price", h.Catalog.AdjustPrice)
		admin.PATCH("/products/:id/stock", h.Catalog.AdjustStock)
		admin.POST("/products/:id/image", h.Catalog.UploadProductImage)

		admin.GET("/banners", h.Banner.AdminList)
		admin.GET("/banners/:id", h.Banner.Get)
		admin.POST("/banners", h.Banner.Create)
		admin.PUT("/banners/:id", h.Banner.Update)
		admin.DELETE("/banners/:id", h.Banner.Delete)
		admin.POST("/banners/:id/image", h.Banner.UploadImage)

		admin.GET("/orders", h.Order.List)
		admin.GET("/orders/:id", h.Order.Get)
		admin.POST("/orders/:id/assign", h.Order.Assign)
		admin.POST("/orders/:id/cancel", h.Order.Cancel)

		admin.GET("/reports/dashboard", h.Report.Dashboard)
		admin.GET("/reports/sales", h.Report.Sales)
		admin.GET("/reports/sales.pdf", h.Report.SalesPDF)
		admin.GET("/reports/low-stock", h.Report.LowStock)
		admin.POST("/reports/low-stock/alert", h.Report.SendLowStockAlert)

		admin.GET("/audit", h.Audit.List)
	}

	return router
}
