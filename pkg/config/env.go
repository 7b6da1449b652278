package config

// EnvPrefix is passed to envconfig; every field carries an explicit key so it only affects error text.
const EnvPrefix = "IDEABOARD"

const (
	EnvAppEnv       = "IDEABOARD_APP_ENV"
	EnvPort         = "IDEABOARD_APP_PORT"
	EnvLogLevel     = "IDEABOARD_LOG_LEVEL"
	EnvLogWarnStack = "IDEABOARD_LOG_WARN_STACK"
	EnvCORSOrigins  = "IDEABOARD_CORS_ORIGINS"
	EnvShutdown     = "IDEABOARD_SHUTDOWN_TIMEOUT"

	EnvBackendURL     = "IDEABOARD_BACKEND_URL"
	EnvBackendAnonKey = "IDEABOARD_BACKEND_ANON_KEY"
	EnvBackendJWTKey  = "IDEABOARD_BACKEND_JWT_SECRET"
	EnvBackendTimeout = "IDEABOARD_BACKEND_TIMEOUT"
	EnvBackendRPS     = "IDEABOARD_BACKEND_RPS"
	EnvIdeasTable     = "IDEABOARD_IDEAS_TABLE"

	EnvStorageBucket = "IDEABOARD_STORAGE_BUCKET"
	EnvMaxLogoMB     = "IDEABOARD_MAX_LOGO_MB"

	EnvSessionStore     = "IDEABOARD_SESSION_STORE"
	EnvSessionKey       = "IDEABOARD_SESSION_KEY"
	EnvSingleFlightAuth = "IDEABOARD_SINGLE_FLIGHT_AUTH"

	EnvRedisURL  = "IDEABOARD_REDIS_URL"
	EnvRedisAddr = "IDEABOARD_REDIS_ADDR"
)
