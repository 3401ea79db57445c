package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/cmd/api/infrastructure"
	"grocery-delivery-service/internal/adapter/audit"
	"grocery-delivery-service/internal/adapter/cache"
	"grocery-delivery-service/internal/adapter/db/postgres"
	ginhandler "grocery-delivery-service/internal/adapter/gin/handler"
	ginmiddleware "grocery-delivery-service/internal/adapter/gin/middleware"
	"grocery-delivery-service/internal/adapter/gin/router"
	"grocery-delivery-service/internal/adapter/grpc/middleware"
	"grocery-delivery-service/internal/adapter/health"
	"grocery-delivery-service/internal/adapter/mail"
	"grocery-delivery-service/internal/adapter/notify"
	"grocery-delivery-service/internal/adapter/pdf"
	"grocery-delivery-service/internal/adapter/repository/cached"
	"grocery-delivery-service/internal/adapter/scheduler"
	"grocery-delivery-service/internal/adapter/storage"
	"grocery-delivery-service/internal/config"
	"grocery-delivery-service/internal/usecase/admin"
	"grocery-delivery-service/internal/usecase/auth"
	"grocery-delivery-service/internal/usecase/banner"
	"grocery-delivery-service/internal/usecase/catalog"
	"grocery-delivery-service/internal/usecase/driver"
	"grocery-delivery-service/internal/usecase/order"
	"grocery-delivery-service/internal/usecase/payout"
	"grocery-delivery-service/internal/usecase/report"
	"grocery-delivery-service/internal/usecase/shared"
	"grocery-delivery-service/internal/usecase/user"
	"grocery-delivery-service/pkg/metrics"
	redisclient "grocery-delivery-service/pkg/redis"
	"grocery-delivery-service/pkg/security"
	"grocery-delivery-service/pkg/token"
)

const (
	tokenIssuer      = "grocery-delivery-service"
	maxOTPAttempts   = 5
	lowStockJobLimit = 2 * time.Minute
)

// The handlers only see consumer-side interfaces; these keep the usecases honest.
var (
	_ ginhandler.AuthUsecase    = (*auth.Usecase)(nil)
	_ ginhandler.UserUsecase    = (*user.Usecase)(nil)
	_ ginhandler.AdminUsecase   = (*admin.Usecase)(nil)
	_ ginhandler.DriverUsecase  = (*driver.Usecase)(nil)
	_ ginhandler.CatalogUsecase = (*catalog.Usecase)(nil)
	_ ginhandler.BannerUsecase  = (*banner.Usecase)(nil)
	_ ginhandler.OrderUsecase   = (*order.Usecase)(nil)
	_ ginhandler.PayoutUsecase  = (*payout.Usecase)(nil)
	_ ginhandler.ReportUsecase  = (*report.Usecase)(nil)
)

// AuditStore is what both the audit middleware and the audit listing need.
type AuditStore interface {
	ginmiddleware.AuditRecorder
	ginhandler.AuditLister
}

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Mongo       *mongo.Client
	Metrics     *metrics.Metrics
	Tokens      *token.Manager
	RateLimiter *middleware.RateLimiter
	Health      *health.Checker
	Scheduler   *scheduler.Scheduler
	Audit       AuditStore
	Admins      *admin.Usecase
	Reports     *report.Usecase
	Handlers    router.Handlers
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l, Metrics: metrics.New()}

	if cfg.DB.RunMigrations {
		if err := infrastructure.RunMigrations(cfg, l); err != nil {
			return nil, err
		}
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = c.Close(ctx)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	if err := c.initAudit(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	mailer := newMailer(cfg, l)
	notifier, err := newNotifier(cfg, l)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	images, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.MaxMB, l)
	if err != nil {
		_ = c.Close(ctx)
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}
	images = images.WithBaseURL(cfg.App.PublicBaseURL)

	// Repositories
	tx := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepoPG(db, l)
	adminRepo := postgres.NewAdminRepoPG(db, l)
	driverRepo := postgres.NewDriverRepoPG(db, l)
	dbProducts := postgres.NewProductRepoPG(db, l)
	productCache := cache.NewRedisProductCache(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
	productRepo := cached.NewCachedProductRepository(dbProducts, productCache, l)
	categoryRepo := cached.NewCachedCategoryRepository(postgres.NewCategoryRepoPG(db, l), productCache, l)
	bannerRepo := postgres.NewBannerRepoPG(db, l)
	orderRepo := postgres.NewOrderRepoPG(db, l)
	payoutRepo := postgres.NewPayoutRepoPG(db, l)
	reportRepo := postgres.NewReportRepoPG(db, l)

	// Use cases
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	c.Tokens = token.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTTTLHours)*time.Hour, tokenIssuer)
	otp := cache.NewRedisOTPStore(rdb.Client, maxOTPAttempts, l)

	authUC := auth.New(userRepo, adminRepo, driverRepo, c.Tokens, hasher, otp, mailer, l)
	userUC := user.New(userRepo, hasher, l)
	c.Admins = admin.New(adminRepo, hasher, l)
	driverUC := driver.New(driverRepo, hasher, l)
	catalogUC := catalog.New(categoryRepo, productRepo, tx, l)
	bannerUC := banner.New(bannerRepo, l)
	orderUC := order.New(orderRepo, productRepo, userRepo, driverRepo, payoutRepo, tx, notifier, c.Metrics, order.Settings{
		DeliveryFee:           cfg.Business.DeliveryFee,
		FreeDeliveryThreshold: cfg.Business.FreeDeliveryThreshold,
		DriverEarningRate:     cfg.Business.DriverEarningRate,
		LegalDrinkingAge:      cfg.Business.LegalDrinkingAge,
	}, l)
	payoutUC := payout.New(payoutRepo, driverRepo, orderRepo, tx, c.Metrics, l)
	c.Reports = report.New(reportRepo, dbProducts, adminRepo, pdf.NewSalesRenderer("Sales report"), mailer, cfg.Business.LowStockThreshold, l)

	c.RateLimiter = middleware.NewRateLimiter(
		rdb.Client,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	).WithRecorder(c.Metrics)

	c.Health = health.NewChecker(l)
	c.Health.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	c.Health.Register("redis", infrastructure.RedisProbe(rdb))
	if c.Mongo != nil {
		client := c.Mongo
		c.Health.Register("mongodb", func(ctx context.Context) error { return client.Ping(ctx, nil) })
	}

	c.Scheduler = scheduler.New(l, lowStockJobLimit)
	if spec := cfg.Scheduler.LowStockCron; spec != "" {
		reports := c.Reports
		if err := c.Scheduler.Add("low_stock_alert", spec, func(ctx context.Context) error {
			_, err := reports.SendLowStockAlert(ctx)
			return err
		}); err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
	}

	c.Handlers = router.Handlers{
		Auth: ginhandler.NewAuthHandler(authUC, ginhandler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.Auth.CookieSecure,
		}, l),
		User:    ginhandler.NewUserHandler(userUC, l),
		Admin:   ginhandler.NewAdminHandler(c.Admins, l),
		Driver:  ginhandler.NewDriverHandler(driverUC, l),
		Catalog: ginhandler.NewCatalogHandler(catalogUC, images, l),
		Banner:  ginhandler.NewBannerHandler(bannerUC, images, l),
		Order:   ginhandler.NewOrderHandler(orderUC, l),
		Payout:  ginhandler.NewPayoutHandler(payoutUC, l),
		Report:  ginhandler.NewReportHandler(c.Reports, l),
		Audit:   ginhandler.NewAuditHandler(c.Audit, l),
	}

	return c, nil
}

// Bootstrap creates the configured superadmin if it does not exist yet.
func (c *Container) Bootstrap(ctx context.Context) error {
	return c.Admins.Seed(ctx, admin.SeedRequest{
		Name:     c.Config.Seed.AdminName,
		Email:    c.Config.Seed.AdminEmail,
		Password: c.Config.Seed.AdminPassword,
	})
}

// RouterConfig returns the non-handler router dependencies.
func (c *Container) RouterConfig() router.Config {
	return router.Config{
		Tokens:      c.Tokens,
		CookieName:  c.Config.Auth.CookieName,
		RateLimiter: c.RateLimiter,
		Metrics:     c.Metrics,
		Audit:       c.Audit,
		Health:      c.Health,
		UploadDir:   c.Config.Upload.Dir,
		SwaggerFile: "./api/swagger/grocery.swagger.json",
		ServiceName: c.Config.Logger.ServiceName,
		Release:     c.Config.IsProduction(),

		TrustedProxies: c.Config.App.TrustedProxies,
	}
}

func (c *Container) initAudit(ctx context.Context) error {
	client, err := infrastructure.NewMongoClient(ctx, c.Config, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize audit store: %w", err)
	}
	if client == nil {
		c.Audit = audit.Noop{}
		return nil
	}
	c.Mongo = client

	store := audit.NewMongoStore(client.Database(c.Config.Mongo.Database), c.Logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}
	c.Audit = store
	return nil
}

func newMailer(cfg *config.Config, l *zap.Logger) shared.Mailer {
	if cfg.SMTP.Host == "" {
		l.Warn("SMTP_HOST is empty, outgoing mail is only logged")
		return mail.NewLogSender(l)
	}
	return mail.NewSMTPSender(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, l)
}

func newNotifier(cfg *config.Config, l *zap.Logger) (order.Notifier, error) {
	if cfg.Telegram.Token == "" {
		l.Info("driver notifications disabled, TELEGRAM_BOT_TOKEN is empty")
		return notify.Noop{}, nil
	}
	n, err := notify.NewTelegramNotifier(cfg.Telegram.Token, "", l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
	}
	return n, nil
}

// Close closes all resources held by the container
func (c *Container) Close(ctx context.Context) error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if err := infrastructure.CloseMongo(ctx, c.Mongo); err != nil {
		errs = append(errs, fmt.Errorf("failed to close MongoDB: %w", err))
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
