package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver      string `env:"DB_DRIVER" env-default:"mysql"`
	DBHost        string `env:"DB_HOST" env-default:"localhost"`
	DBPort        string `env:"DB_PORT" env-default:"3306"`
	DBUser        string `env:"DB_USER" env-default:"projectdesk"`
	DBPassword    string `env:"DB_PASSWORD" env-default:"projectdesk"`
	DBName        string `env:"DB_NAME" env-default:"projectdesk"`
	DBPath        string `env:"DB_PATH" env-default:"projectdesk.db"`
	RedisHost     string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     string `env:"REDIS_PORT" env-default:"6379"`
	SessionSecret string `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`
	GinMode       string `env:"GIN_MODE" env-default:"debug"`
	HTTPAddr      string `env:"HTTP_ADDR" env-default:":8080"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`
	LogDir        string `env:"LOG_DIR" env-default:"logs"`
	ReportDir     string `env:"REPORT_DIR" env-default:"reports"`
}

// Load reads an optional .env file and then binds environment variables.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}
