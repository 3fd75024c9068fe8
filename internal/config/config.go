package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Auth modes.
const (
	AuthFirebase = "firebase"
	AuthLocal    = "local"
)

// DefaultFirebaseCertsURL serves the x509 certificates Firebase signs ID tokens with.
const DefaultFirebaseCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// Config holds all application configuration.
type Config struct {
	Env      string
	Server   ServerConfig
	Store    StoreConfig
	Auth     AuthConfig
	RabbitMQ RabbitMQConfig
	Cache    CacheConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	BasePath        string
	CORSOrigins     string
	ShutdownTimeout time.Duration
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	DSN           string
}

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	Mode              string
	FirebaseProjectID string
	FirebaseCertsURL  string
	JWTSecret         string
}

// RabbitMQConfig holds the event broker URL. Empty disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// CacheConfig holds the feed cache settings. Empty Addr disables caching.
type CacheConfig struct {
	RedisAddr string
	TTL       time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "production")
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("API_BASE_PATH", "/api")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "my-blog")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("AUTH_MODE", AuthFirebase)
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_CERTS_URL", DefaultFirebaseCertsURL)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "blog_events")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads configuration from v, which should already have AutomaticEnv
// or a config file applied.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:            v.GetString("APP_PORT"),
			BasePath:        v.GetString("API_BASE_PATH"),
			CORSOrigins:     v.GetString("CORS_ORIGINS"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("STORE_DRIVER")),
			MongoURI:      v.GetString("MONGODB_URI"),
			MongoDatabase: v.GetString("MONGODB_DATABASE"),
			DSN:           v.GetString("DATABASE_DSN"),
		},
		Auth: AuthConfig{
			Mode:              strings.ToLower(v.GetString("AUTH_MODE")),
			FirebaseProjectID: v.GetString("FIREBASE_PROJECT_ID"),
			FirebaseCertsURL:  v.GetString("FIREBASE_CERTS_URL"),
			JWTSecret:         v.GetString("JWT_SECRET"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Cache: CacheConfig{
			RedisAddr: v.GetString("REDIS_ADDR"),
			TTL:       v.GetDuration("CACHE_TTL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the driver and auth specific requirements.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_URI and MONGODB_DATABASE are required for the mongo driver")
		}
	case DriverPostgres, DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the %s driver", c.Store.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Auth.Mode {
	case AuthFirebase:
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for firebase auth")
		}
	case AuthLocal:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for local auth")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

// Development reports whether pretty logging should be used.
func (c *Config) Development() bool {
	return c.Env == "development"
}
