package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateProductionHardening(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		driver      string
		secret      string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", "postgres", "secure-secret-at-least-32-chars-long", true},
		{"Production with disable SSL mode", "production", "disable", "postgres", "secure-secret-at-least-32-chars-long", true},
		{"Production with require SSL mode", "production", "require", "postgres", "secure-secret-at-least-32-chars-long", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", "postgres", "secure-secret-at-least-32-chars-long", false},
		{"Production with sqlite driver", "production", "require", "sqlite", "secure-secret-at-least-32-chars-long", true},
		{"Production with default secret", "production", "require", "postgres", defaultJWTSecret, true},
		{"Production with short secret", "production", "require", "postgres", "short", true},
		{"Development with disable SSL mode", "development", "disable", "postgres", "short", false},
		{"Test with sqlite driver", "test", "", "sqlite", "short", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:                      tt.env,
				DBDriver:                 tt.driver,
				DBSSLMode:                tt.sslMode,
				JWTSecret:                tt.secret,
				DBPassword:               "secure-password",
				Port:                     "8080",
				AvatarMaxUploadSizeMB:    5,
				DBConnMaxLifetimeMinutes: 1,
				RedisURL:                 "redis://localhost:6379",
			}

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRejectsUnknownDriver(t *testing.T) {
	c := &Config{Port: "8080", JWTSecret: "x", DBDriver: "mysql"}
	assert.Error(t, c.Validate())
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_DRIVER", " SQLite ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "skill_moderation_search=on", c.FeatureFlags)
	assert.Equal(t, 5, c.AvatarMaxUploadSizeMB)
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	defer viper.Reset()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	require.NoError(t, os.WriteFile(".env", []byte("PORT=9911\n"), 0o600))
	t.Setenv("APP_ENV", "test")
	// godotenv never overrides variables already present in the environment.
	os.Unsetenv("PORT")
	defer os.Unsetenv("PORT")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9911", c.Port)
}
