package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every variable read by envconfig.
const EnvPrefix = "GS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv              = "GS_APP_ENV"
	EnvPort                = "GS_APP_PORT"
	EnvGatewayURL          = "GS_GATEWAY_URL"
	EnvLocalStoreBackend   = "GS_LOCAL_STORE_BACKEND"
	EnvLocalStorePath      = "GS_LOCAL_STORE_PATH"
	EnvSyncTransport       = "GS_SYNC_TRANSPORT"
	EnvSyncTopic           = "GS_SYNC_TOPIC"
	EnvSyncSubscription    = "GS_SYNC_SUBSCRIPTION"
	EnvRedisURL            = "GS_REDIS_URL"
	EnvGCPProjectID        = "GS_GCP_PROJECT_ID"
	EnvDBDriver            = "GS_DB_DRIVER"
	EnvDBDSN               = "GS_DB_DSN"
	DefaultSyncTopic       = "gs_cloud_sync_bus"
	DefaultLocalStorePath  = "~/.config/gs-storefront/session.toml"
	DefaultGatewayBaseURL  = "http://127.0.0.1:8090"
	DefaultLocalProfile    = "default"
	DefaultGatewayTimeout  = 10 * time.Second
	DefaultDBDriverSQLite  = "sqlite"
	DefaultDBDriverPostgre = "postgres"
)

type Config struct {
	App        AppConfig
	Gateway    GatewayConfig
	LocalStore LocalStoreConfig
	SyncBus    SyncBusConfig
	Redis      RedisConfig
	GCP        GCPConfig
	DB         DBConfig
	Metrics    MetricsConfig
}

// Load reads the process environment into a Config and validates cross-field requirements.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	backend, err := enums.ParseLocalStoreBackend(c.LocalStore.Backend)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvLocalStoreBackend, err)
	}
	transport, err := enums.ParseSyncTransport(c.SyncBus.Transport)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvSyncTransport, err)
	}
	needsRedis := backend == enums.LocalStoreRedis || transport == enums.SyncTransportRedis
	if needsRedis && strings.TrimSpace(c.Redis.URL) == "" && strings.TrimSpace(c.Redis.Address) == "" {
		return fmt.Errorf("%s is required when redis is selected", EnvRedisURL)
	}
	if transport == enums.SyncTransportPubSub {
		if strings.TrimSpace(c.GCP.ProjectID) == "" {
			return fmt.Errorf("%s is required for the pubsub sync transport", EnvGCPProjectID)
		}
		if strings.TrimSpace(c.SyncBus.Subscription) == "" {
			return fmt.Errorf("%s is required for the pubsub sync transport", EnvSyncSubscription)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case DefaultDBDriverSQLite, DefaultDBDriverPostgre:
	default:
		return fmt.Errorf("%s: unsupported driver %q", EnvDBDriver, c.DB.Driver)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"GS_APP_ENV" required:"true"`
	Port         string `envconfig:"GS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GS_LOG_WARN_STACK" default:"false"`
	// CORSOrigins lists the browser origins allowed to call the storefront API.
	CORSOrigins []string `envconfig:"GS_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	// ContextID names this storefront context; empty means one is generated at start.
	ContextID string `envconfig:"GS_CONTEXT_ID"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type GatewayConfig struct {
	BaseURL string        `envconfig:"GS_GATEWAY_URL" default:"http://127.0.0.1:8090"`
	Timeout time.Duration `envconfig:"GS_GATEWAY_TIMEOUT" default:"10s"`
	// Port is the listen port of the reference gateway server.
	Port string `envconfig:"GS_GATEWAY_PORT" default:"8090"`
}

type LocalStoreConfig struct {
	Backend string `envconfig:"GS_LOCAL_STORE_BACKEND" default:"file"`
	Path    string `envconfig:"GS_LOCAL_STORE_PATH" default:"~/.config/gs-storefront/session.toml"`
	Profile string `envconfig:"GS_LOCAL_STORE_PROFILE" default:"default"`
}

// BackendKind returns the parsed backend; Load has already rejected invalid values.
func (l LocalStoreConfig) BackendKind() enums.LocalStoreBackend {
	backend, _ := enums.ParseLocalStoreBackend(l.Backend)
	return backend
}

type SyncBusConfig struct {
	Transport    string `envconfig:"GS_SYNC_TRANSPORT" default:"memory"`
	Topic        string `envconfig:"GS_SYNC_TOPIC" default:"gs_cloud_sync_bus"`
	Subscription string `envconfig:"GS_SYNC_SUBSCRIPTION"`
}

// TransportKind returns the parsed transport; Load has already rejected invalid values.
func (s SyncBusConfig) TransportKind() enums.SyncTransport {
	transport, _ := enums.ParseSyncTransport(s.Transport)
	return transport
}

type RedisConfig struct {
	URL          string        `envconfig:"GS_REDIS_URL"`
	Address      string        `envconfig:"GS_REDIS_ADDR"`
	Password     string        `envconfig:"GS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"GS_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"GS_GCP_CREDENTIALS_JSON"`
}

type DBConfig struct {
	Driver          string        `envconfig:"GS_DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"GS_DB_DSN" default:"file:gs-gateway.db?cache=shared"`
	AutoMigrate     bool          `envconfig:"GS_DB_AUTO_MIGRATE" default:"true"`
	MaxOpenConns    int           `envconfig:"GS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"GS_METRICS_ENABLED" default:"true"`
}
