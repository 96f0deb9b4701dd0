package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Sitebook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Storage struct {
		Driver string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
		// Async queues writes on a background goroutine.
		Async bool `envconfig:"STORAGE_ASYNC" default:"false"`
	}

	SQLite struct {
		Path string `envconfig:"SQLITE_PATH" default:"sitebook.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"sitebook"`
	}

	DynamoDB struct {
		Table     string `envconfig:"DYNAMODB_TABLE" default:"sitebook"`
		Region    string `envconfig:"AWS_REGION" default:"us-east-1"`
		Endpoint  string `envconfig:"DYNAMODB_ENDPOINT"`
		AccessKey string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
		SecretKey string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
	}

	Seed struct {
		// File is a TOML project file. Empty means the built-in project.
		File string `envconfig:"SEED_FILE"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverSQLite, DriverPostgres, DriverDynamoDB, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}
