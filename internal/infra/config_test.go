package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("API_PORT", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.APIPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("API_PORT", "8081")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("CRON_SECRET", "cron-secret-value-123")
	t.Setenv("KAFKA_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.APIPort)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, "cron-secret-value-123", cfg.CronSecret)
	assert.True(t, cfg.KafkaEnabled)
}

func TestConfigValidate(t *testing.T) {
	strong := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"insecure default", Config{JWTSecret: insecureJWTSecret}, "insecure default"},
		{"short secret", Config{JWTSecret: "short"}, "too short"},
		{"short cron secret", Config{JWTSecret: strong, CronSecret: "abc"}, "CRON_SECRET"},
		{"ok", Config{JWTSecret: strong, CronSecret: "a-long-cron-secret"}, ""},
		{"bypass", Config{JWTSecret: insecureJWTSecret, AllowInsecureDefaults: true}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{PGUser: "u", PGPassword: "p", PGHost: "db", PGPort: 5433, PGDatabase: "abr"}
	assert.Equal(t, "postgres://u:p@db:5433/abr?sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.DSN())
}

func TestConfigLocation(t *testing.T) {
	cfg := Config{Timezone: "Europe/Berlin"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	cfg.Timezone = "Mars/Olympus"
	loc, err = cfg.Location()
	assert.Error(t, err)
	assert.Equal(t, time.UTC, loc)
}
