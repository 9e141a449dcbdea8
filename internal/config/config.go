package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend modes.
const (
	BackendRemote = "remote"
	BackendMemory = "memory"
)

// Config is the storefront configuration.
type Config struct {
	AppPort                string
	BackendURL             string
	BackendMode            string
	MediaBaseURL           string
	RequestTimeout         time.Duration
	WorkspaceIdleTTL       time.Duration
	NotificationTTL        time.Duration
	DropStaleCartResponses bool
	RabbitMQURL            string
	RabbitMQQueue          string
	Debug                  bool
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BACKEND_URL", "http://localhost:8000")
	v.SetDefault("BACKEND_MODE", BackendRemote)
	v.SetDefault("MEDIA_BASE_URL", "")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("WORKSPACE_IDLE_TTL", "30m")
	v.SetDefault("NOTIFICATION_TTL", "3s")
	v.SetDefault("CART_DROP_STALE_RESPONSES", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "order_events")
	v.SetDefault("DEBUG", false)
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
		log.Printf("Loaded environment from %s", f)
	}
	return nil
}

// Load reads the configuration from v, which should already have its
// defaults set and AutomaticEnv enabled.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:                v.GetString("APP_PORT"),
		BackendURL:             v.GetString("BACKEND_URL"),
		BackendMode:            v.GetString("BACKEND_MODE"),
		MediaBaseURL:           v.GetString("MEDIA_BASE_URL"),
		RequestTimeout:         v.GetDuration("REQUEST_TIMEOUT"),
		WorkspaceIdleTTL:       v.GetDuration("WORKSPACE_IDLE_TTL"),
		NotificationTTL:        v.GetDuration("NOTIFICATION_TTL"),
		DropStaleCartResponses: v.GetBool("CART_DROP_STALE_RESPONSES"),
		RabbitMQURL:            v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:          v.GetString("RABBITMQ_QUEUE"),
		Debug:                  v.GetBool("DEBUG"),
	}
	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = cfg.BackendURL
	}

	if cfg.AppPort == "" {
		return Config{}, fmt.Errorf("APP_PORT is required")
	}
	switch cfg.BackendMode {
	case BackendRemote:
		if cfg.BackendURL == "" {
			return Config{}, fmt.Errorf("BACKEND_URL is required in %s mode", BackendRemote)
		}
	case BackendMemory:
	default:
		return Config{}, fmt.Errorf("BACKEND_MODE must be %q or %q, got %q", BackendRemote, BackendMemory, cfg.BackendMode)
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if cfg.WorkspaceIdleTTL <= 0 {
		return Config{}, fmt.Errorf("WORKSPACE_IDLE_TTL must be positive")
	}
	return cfg, nil
}
