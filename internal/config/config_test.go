package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsNeedProjectID(t *testing.T) {
	_, err := Load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_PROJECT_ID")
}

func TestLoadLocalMemory(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("AUTH_MODE", "local")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("CACHE_TTL", "5m")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, AuthLocal, cfg.Auth.Mode)
	assert.Equal(t, ":3000", cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "blog_events", cfg.RabbitMQ.Exchange)
	assert.False(t, cfg.Development())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Store: StoreConfig{Driver: DriverMemory},
			Auth:  AuthConfig{Mode: AuthLocal, JWTSecret: "x"},
			Cache: CacheConfig{TTL: time.Second},
		}
	}

	cfg := base()
	cfg.Store.Driver = DriverSQLite
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_DSN")

	cfg = base()
	cfg.Store.Driver = "cassandra"
	assert.ErrorContains(t, cfg.Validate(), "unknown STORE_DRIVER")

	cfg = base()
	cfg.Auth.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg = base()
	cfg.Auth.Mode = "saml"
	assert.ErrorContains(t, cfg.Validate(), "unknown AUTH_MODE")

	assert.NoError(t, base().Validate())
}
