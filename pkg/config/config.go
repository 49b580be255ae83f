package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret is only acceptable in development.
const DefaultJWTSecret = "change-me-in-production"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Password PasswordConfig
	CORS     CORSConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
}

type JWTConfig struct {
	Secret        string
	ExpiryMinutes int
}

type PasswordConfig struct {
	BcryptCost int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig points at the S3-compatible bucket holding document contents.
// An empty Bucket disables download links.
type StorageConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	PresignMinutes int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryMinutes) * time.Minute
}

func (s *StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

func (s *StorageConfig) PresignExpiry() time.Duration {
	return time.Duration(s.PresignMinutes) * time.Minute
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

// Validate rejects settings that must never reach a running server.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	} else if c.JWT.Secret == DefaultJWTSecret && !c.Server.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET must be set outside development"))
	}
	if c.JWT.ExpiryMinutes <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_MINUTES must be positive"))
	}
	if c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Storage.Enabled() && c.Storage.PresignMinutes <= 0 {
		errs = append(errs, errors.New("STORAGE_PRESIGN_MINUTES must be positive"))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "collab")
	v.SetDefault("DATABASE_PASSWORD", "collab_secret")
	v.SetDefault("DATABASE_NAME", "collab")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MIGRATE", true)
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_MINUTES", 60)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("STORAGE_S3_REGION", "us-east-1")
	v.SetDefault("STORAGE_PRESIGN_MINUTES", 15)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
			Migrate:  v.GetBool("DATABASE_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			ExpiryMinutes: v.GetInt("JWT_EXPIRY_MINUTES"),
		},
		Password: PasswordConfig{
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Bucket:         v.GetString("STORAGE_S3_BUCKET"),
			Region:         v.GetString("STORAGE_S3_REGION"),
			Endpoint:       v.GetString("STORAGE_S3_ENDPOINT"),
			AccessKey:      v.GetString("STORAGE_S3_ACCESS_KEY"),
			SecretKey:      v.GetString("STORAGE_S3_SECRET_KEY"),
			PresignMinutes: v.GetInt("STORAGE_PRESIGN_MINUTES"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
