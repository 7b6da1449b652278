package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Storage StorageConfig
	Session SessionConfig
	Redis   RedisConfig
}

// Load reads the IDEABOARD_* environment into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"IDEABOARD_APP_ENV" required:"true"`
	Port         string `envconfig:"IDEABOARD_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"IDEABOARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"IDEABOARD_LOG_WARN_STACK" default:"false"`

	CORSOrigins     []string      `envconfig:"IDEABOARD_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"IDEABOARD_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the hosted backend project (auth, rows and blob storage).
type BackendConfig struct {
	URL        string        `envconfig:"IDEABOARD_BACKEND_URL" required:"true"`
	AnonKey    string        `envconfig:"IDEABOARD_BACKEND_ANON_KEY" required:"true"`
	JWTSecret  string        `envconfig:"IDEABOARD_BACKEND_JWT_SECRET"`
	Timeout    time.Duration `envconfig:"IDEABOARD_BACKEND_TIMEOUT" default:"10s"`
	RPS        float64       `envconfig:"IDEABOARD_BACKEND_RPS" default:"0"`
	IdeasTable string        `envconfig:"IDEABOARD_IDEAS_TABLE" default:"ideas"`
}

func (b *BackendConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(b.URL))
	if err != nil {
		return fmt.Errorf("%s is not a valid url: %w", EnvBackendURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", EnvBackendURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", EnvBackendURL)
	}
	b.URL = strings.TrimRight(parsed.String(), "/")
	if strings.TrimSpace(b.IdeasTable) == "" {
		b.IdeasTable = "ideas"
	}
	return nil
}

type StorageConfig struct {
	Bucket    string `envconfig:"IDEABOARD_STORAGE_BUCKET" default:"startup-logos"`
	MaxLogoMB int    `envconfig:"IDEABOARD_MAX_LOGO_MB" default:"5"`
}

// MaxLogoBytes returns the configured logo size cap in bytes.
func (s StorageConfig) MaxLogoBytes() int64 {
	if s.MaxLogoMB <= 0 {
		return 5 << 20
	}
	return int64(s.MaxLogoMB) << 20
}

type SessionConfig struct {
	Store            string `envconfig:"IDEABOARD_SESSION_STORE" default:"memory"`
	Key              string `envconfig:"IDEABOARD_SESSION_KEY" default:"default"`
	SingleFlightAuth bool   `envconfig:"IDEABOARD_SINGLE_FLIGHT_AUTH" default:"false"`
}

func (s *SessionConfig) validate(redis RedisConfig) error {
	s.Store = strings.ToLower(strings.TrimSpace(s.Store))
	switch s.Store {
	case "", SessionStoreMemory:
		s.Store = SessionStoreMemory
	case SessionStoreRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("%s=redis requires %s or %s", EnvSessionStore, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvSessionStore, SessionStoreMemory, SessionStoreRedis, s.Store)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"IDEABOARD_REDIS_URL"`
	Address      string        `envconfig:"IDEABOARD_REDIS_ADDR"`
	Password     string        `envconfig:"IDEABOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"IDEABOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"IDEABOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"IDEABOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"IDEABOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"IDEABOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"IDEABOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
	SessionTTL   time.Duration `envconfig:"IDEABOARD_REDIS_SESSION_TTL" default:"720h"`
}
