package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AUTH_SVC_URL", "http://auth:3000/")
	t.Setenv("DB_NAME", "staff")
	t.Setenv("API_PREFIX", "/api/v1/")
	t.Setenv("AUTH_SVC_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://auth:3000", cfg.AuthSvc.URL)
	assert.Equal(t, 3*time.Second, cfg.AuthSvc.Timeout)
	assert.Equal(t, "/api/v1", cfg.App.APIPrefix)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoadConfig_RequiresSecrets(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_SVC_URL", "http://auth:3000")
	t.Setenv("DB_NAME", "staff")

	_, err := LoadConfig()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoadConfig_MemoryDriverSkipsDatabaseName(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AUTH_SVC_URL", "http://auth:3000")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_DRIVER", "Memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)

	viper.Reset()
	t.Setenv("DB_DRIVER", "sqlite")
	_, err = LoadConfig()
	assert.EqualError(t, err, `unsupported DB_DRIVER "sqlite"`)
}
