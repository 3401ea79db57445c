package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Upload    UploadConfig
	Business  BusinessConfig
	Mongo     MongoConfig
	Telegram  TelegramConfig
	Scheduler SchedulerConfig
	Seed      SeedConfig
}

// AppConfig holds configuration for the application servers
type AppConfig struct {
	Env                    string
	HTTPPort               string
	GRPCPort               string
	ShutdownTimeoutSeconds int
	PublicBaseURL          string

	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
	ConnMaxIdleTime int // seconds
	RunMigrations   bool
	MigrationsPath  string
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	CacheTTL    int // seconds
}

// RateLimitConfig holds configuration for request rate limiting
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstCapacity     int
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string
	Format           string
	OutputPath       string
	SlowQuerySeconds float64
	EnableSampling   bool
	ServiceName      string
	ServiceVersion   string
}

// AuthConfig holds session configuration
type AuthConfig struct {
	JWTSecret    string
	JWTTTLHours  int
	CookieName   string
	CookieSecure bool
	CookieDomain string
	BcryptCost   int
}

// SMTPConfig holds outgoing mail configuration. Mail is disabled when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// UploadConfig holds image upload configuration
type UploadConfig struct {
	Dir   string
	MaxMB int
}

// BusinessConfig holds pricing and policy knobs
type BusinessConfig struct {
	DeliveryFee           float64
	FreeDeliveryThreshold float64
	DriverEarningRate     float64
	LowStockThreshold     int64
	LegalDrinkingAge      int
}

// MongoConfig holds the audit store configuration. Auditing is disabled when URI is empty.
type MongoConfig struct {
	URI      string
	Database string
}

// TelegramConfig holds the driver notification bot. Disabled when Token is empty.
type TelegramConfig struct {
	Token string
}

// SchedulerConfig holds background job schedules. An empty schedule disables a job.
type SchedulerConfig struct {
	LowStockCron string
}

// SeedConfig holds the bootstrap superadmin account.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// LoadConfig reads configuration from <path>/.env, <path>/app.env and the environment.
func LoadConfig(path string) (*Config, error) {
	// .env only fills variables that are not already set
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config

	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.GRPCPort = v.GetString("GRPC_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	config.App.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")
	config.App.TrustedProxies = splitList(v.GetString("TRUSTED_PROXIES"))

	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME")
	config.DB.RunMigrations = v.GetBool("DB_RUN_MIGRATIONS")
	config.DB.MigrationsPath = v.GetString("DB_MIGRATIONS_PATH")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.Auth.JWTSecret = v.GetString("JWT_SECRET")
	config.Auth.JWTTTLHours = v.GetInt("JWT_TTL_HOURS")
	config.Auth.CookieName = v.GetString("COOKIE_NAME")
	config.Auth.CookieSecure = v.GetBool("COOKIE_SECURE")
	config.Auth.CookieDomain = v.GetString("COOKIE_DOMAIN")
	config.Auth.BcryptCost = v.GetInt("BCRYPT_COST")

	config.SMTP.Host = v.GetString("SMTP_HOST")
	config.SMTP.Port = v.GetInt("SMTP_PORT")
	config.SMTP.Username = v.GetString("SMTP_USERNAME")
	config.SMTP.Password = v.GetString("SMTP_PASSWORD")
	config.SMTP.From = v.GetString("SMTP_FROM")

	config.Upload.Dir = v.GetString("UPLOAD_DIR")
	config.Upload.MaxMB = v.GetInt("UPLOAD_MAX_MB")

	config.Business.DeliveryFee = v.GetFloat64("DELIVERY_FEE")
	config.Business.FreeDeliveryThreshold = v.GetFloat64("FREE_DELIVERY_THRESHOLD")
	config.Business.DriverEarningRate = v.GetFloat64("DRIVER_EARNING_RATE")
	config.Business.LowStockThreshold = v.GetInt64("LOW_STOCK_THRESHOLD")
	config.Business.LegalDrinkingAge = v.GetInt("LEGAL_DRINKING_AGE")

	config.Mongo.URI = v.GetString("MONGO_URI")
	config.Mongo.Database = v.GetString("MONGO_DATABASE")

	config.Telegram.Token = v.GetString("TELEGRAM_BOT_TOKEN")

	config.Scheduler.LowStockCron = v.GetString("LOW_STOCK_CRON")

	config.Seed.AdminName = v.GetString("ADMIN_NAME")
	config.Seed.AdminEmail = v.GetString("ADMIN_EMAIL")
	config.Seed.AdminPassword = v.GetString("ADMIN_PASSWORD")

	return &config, nil
}

// splitList parses a comma separated value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 15)
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "grocery_delivery")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("DB_RUN_MIGRATIONS", true)
	v.SetDefault("DB_MIGRATIONS_PATH", "migrations")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("REDIS_CACHE_TTL", 300)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	// Logger defaults depend on the environment
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
		v.SetDefault("COOKIE_SECURE", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
		v.SetDefault("COOKIE_SECURE", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "grocery-delivery-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("JWT_TTL_HOURS", 72)
	v.SetDefault("COOKIE_NAME", "token")
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "no-reply@localhost")

	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_MB", 5)

	v.SetDefault("DELIVERY_FEE", 5.0)
	v.SetDefault("FREE_DELIVERY_THRESHOLD", 50.0)
	v.SetDefault("DRIVER_EARNING_RATE", 0.8)
	v.SetDefault("LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("LEGAL_DRINKING_AGE", 21)

	v.SetDefault("MONGO_DATABASE", "grocery_audit")
	v.SetDefault("LOW_STOCK_CRON", "0 8 * * *")

	v.SetDefault("ADMIN_NAME", "Super Admin")
}

// Validate checks that the configuration can run the service
func (c *Config) Validate() error {
	var errs []error

	for name, port := range map[string]string{"HTTP_PORT": c.App.HTTPPort, "GRPC_PORT": c.App.GRPCPort} {
		if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
			errs = append(errs, fmt.Errorf("%s must be a valid port, got %q", name, port))
		}
	}
	if c.App.HTTPPort == c.App.GRPCPort {
		errs = append(errs, errors.New("HTTP_PORT and GRPC_PORT must differ"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.Auth.JWTTTLHours <= 0 {
		errs = append(errs, errors.New("JWT_TTL_HOURS must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstCapacity <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
	}
	if c.Business.DeliveryFee < 0 || c.Business.FreeDeliveryThreshold < 0 {
		errs = append(errs, errors.New("DELIVERY_FEE and FREE_DELIVERY_THRESHOLD must not be negative"))
	}
	if c.Business.DriverEarningRate < 0 || c.Business.DriverEarningRate > 1 {
		errs = append(errs, errors.New("DRIVER_EARNING_RATE must be between 0 and 1"))
	}
	if c.Upload.MaxMB <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_MB must be positive"))
	}
	if c.Redis.CacheTTL <= 0 {
		errs = append(errs, errors.New("REDIS_CACHE_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// URL returns the PostgreSQL connection URL used by the migration runner
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
