package config

const EnvPrefix = "DEALER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	KVDriverRedis    = "redis"
	KVDriverSQLite   = "sqlite"
	KVDriverPostgres = "postgres"
	KVDriverMemory   = "memory"
)

const (
	EnvAppEnv         = "DEALER_APP_ENV"
	EnvPort           = "DEALER_APP_PORT"
	EnvBackendBaseURL = "DEALER_BACKEND_BASE_URL"
	EnvKVDriver       = "DEALER_KV_DRIVER"
	EnvRedisURL       = "DEALER_REDIS_URL"
	EnvRedisAddr      = "DEALER_REDIS_ADDR"
	EnvDBDSN          = "DEALER_DB_DSN"
	EnvCORSOrigins    = "DEALER_CORS_ALLOWED_ORIGINS"
)
