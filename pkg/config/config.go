package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Backend      BackendConfig
	KV           KVConfig
	Redis        RedisConfig
	DB           DBConfig
	Session      SessionConfig
	AuthLimit    AuthRateLimitConfig
	Wizard       WizardConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validateKV(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEALER_APP_ENV" required:"true"`
	Port         string `envconfig:"DEALER_APP_PORT" required:"true"`
	PublicURL    string `envconfig:"DEALER_APP_PUBLIC_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"DEALER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEALER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the dealership REST API every page is rendered from.
type BackendConfig struct {
	BaseURL string        `envconfig:"DEALER_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"DEALER_BACKEND_TIMEOUT" default:"10s"`
}

type KVConfig struct {
	Driver string        `envconfig:"DEALER_KV_DRIVER" default:"redis"`
	TTL    time.Duration `envconfig:"DEALER_KV_TTL" default:"720h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEALER_REDIS_URL"`
	Address      string        `envconfig:"DEALER_REDIS_ADDR"`
	Password     string        `envconfig:"DEALER_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEALER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEALER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEALER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEALER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEALER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEALER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN    string `envconfig:"DEALER_DB_DSN"`
	Driver string `envconfig:"DEALER_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"DEALER_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DEALER_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DEALER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEALER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type SessionConfig struct {
	VisitorCookie string        `envconfig:"DEALER_SESSION_VISITOR_COOKIE" default:"jc_vid"`
	CookieSecure  bool          `envconfig:"DEALER_SESSION_COOKIE_SECURE" default:"false"`
	CookieMaxAge  time.Duration `envconfig:"DEALER_SESSION_COOKIE_MAX_AGE" default:"8760h"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DEALER_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DEALER_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DEALER_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type WizardConfig struct {
	MaxUploadMB   int64  `envconfig:"DEALER_WIZARD_MAX_UPLOAD_MB" default:"10"`
	SuccessTarget string `envconfig:"DEALER_WIZARD_SUCCESS_PATH" default:"/"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DEALER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DEALER_AUTO_MIGRATE" default:"false"`
}

// MaxUploadBytes returns the multipart limit for wizard image uploads.
func (w WizardConfig) MaxUploadBytes() int64 {
	if w.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return w.MaxUploadMB << 20
}

func (c *Config) validateKV() error {
	driver := strings.ToLower(strings.TrimSpace(c.KV.Driver))
	if driver == "" {
		driver = KVDriverRedis
	}
	switch driver {
	case KVDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for kv driver %q", EnvRedisURL, EnvRedisAddr, driver)
		}
	case KVDriverMemory:
	case KVDriverSQLite, KVDriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for kv driver %q", EnvDBDSN, driver)
		}
		c.DB.Driver = driver
	default:
		return fmt.Errorf("unsupported kv driver %q", c.KV.Driver)
	}
	c.KV.Driver = driver
	return nil
}
