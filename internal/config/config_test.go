package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{"missing port", Config{Env: "development"}, true},
		{"development defaults pass", Config{Env: "development", Port: "8480", DBPassword: "password"}, false},
		{"production with default password", Config{Env: "production", Port: "8480", DBPassword: "password"}, true},
		{"production with empty password", Config{Env: "production", Port: "8480"}, true},
		{"production with strong password", Config{Env: "production", Port: "8480", DBPassword: "s3cure-and-long"}, false},
		{"prod alias gets the same strictness", Config{Env: "prod", Port: "8480"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: "test"}).IsProduction())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8480", cfg.Port)
	assert.Equal(t, "collabhub", cfg.DBName)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.InDelta(t, 0.1, cfg.TraceSampling, 0.0001)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "9999")
	t.Setenv("REDIS_URL", "redis.internal:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "redis.internal:6379", cfg.RedisURL)
}
