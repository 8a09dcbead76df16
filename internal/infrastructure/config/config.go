package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config carries process-level settings read from the environment.
// Callers are expected to load a .env file (godotenv) before Load.
type Config struct {
	Addr        string `envconfig:"ADDR" default:":8000"`
	DatabaseURL string `envconfig:"DB_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	AsynqConcurrency int    `envconfig:"ASYNQ_CONCURRENCY" default:"10"`
	AsynqQueues      string `envconfig:"ASYNQ_QUEUES"`
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
