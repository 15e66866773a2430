package config

import (
	"fmt"

	"studyhall-backend/internal/shared/utils"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        utils.GetEnvVariable("APP_NAME", "Studyhall API"),
			Environment: utils.GetEnvVariable("APP_ENV", "development"),
			Port:        utils.GetEnvVariable("APP_PORT", "8080"),
			Version:     utils.GetEnvVariable("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     utils.GetEnvVariable("DB_HOST", "localhost"),
			Port:     utils.GetEnvInt("DB_PORT", 5432),
			User:     utils.GetEnvVariable("DB_USER", "postgres"),
			Password: utils.GetEnvVariable("DB_PASSWORD", ""),
			Database: utils.GetEnvVariable("DB_NAME", "studyhall"),
			SSLMode:  utils.GetEnvVariable("DB_SSLMODE", "disable"),
			MaxConns: utils.GetEnvInt("DB_MAX_CONNS", 25),
			MinConns: utils.GetEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
			Password: utils.GetEnvVariable("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: utils.GetEnvVariable("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		MinIO: MinIOConfig{
			Endpoint:  utils.GetEnvVariable("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: utils.GetEnvVariable("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: utils.GetEnvVariable("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    utils.GetEnvVariable("MINIO_BUCKET", "studyhall"),
			UseSSL:    false,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configs that must never reach production.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}
