package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 60*time.Minute, cfg.JWT.Expiry())
	assert.Equal(t, 10, cfg.Password.BcryptCost)
	assert.True(t, cfg.Database.Migrate)
	assert.False(t, cfg.Storage.Enabled())
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_EXPIRY_MINUTES", "30")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("STORAGE_S3_BUCKET", "documents")
	t.Setenv("STORAGE_S3_ENDPOINT", "http://localhost:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiry())
	assert.Equal(t, 12, cfg.Password.BcryptCost)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "http://localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiry())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Env: "production"},
			JWT:      JWTConfig{Secret: "s3cret", ExpiryMinutes: 60},
			Password: PasswordConfig{BcryptCost: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid production config",
			mutate: func(c *Config) {},
		},
		{
			name:    "default secret in production",
			mutate:  func(c *Config) { c.JWT.Secret = DefaultJWTSecret },
			wantErr: "JWT_SECRET must be set outside development",
		},
		{
			name: "default secret in development",
			mutate: func(c *Config) {
				c.Server.Env = "development"
				c.JWT.Secret = DefaultJWTSecret
			},
		},
		{
			name:    "empty secret",
			mutate:  func(c *Config) { c.JWT.Secret = "" },
			wantErr: "JWT_SECRET must not be empty",
		},
		{
			name:    "zero expiry",
			mutate:  func(c *Config) { c.JWT.ExpiryMinutes = 0 },
			wantErr: "JWT_EXPIRY_MINUTES",
		},
		{
			name:    "bcrypt cost too high",
			mutate:  func(c *Config) { c.Password.BcryptCost = 40 },
			wantErr: "BCRYPT_COST",
		},
		{
			name: "storage without presign expiry",
			mutate: func(c *Config) {
				c.Storage.Bucket = "documents"
				c.Storage.PresignMinutes = 0
			},
			wantErr: "STORAGE_PRESIGN_MINUTES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
