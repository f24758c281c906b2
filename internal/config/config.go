package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOREFRONT"

// Runtime targets select the persistent key-value backend for the session.
const (
	TargetWeb    = "web"
	TargetNative = "native"
	TargetRedis  = "redis"
)

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	APIBaseURL        string        `envconfig:"API_BASE_URL" required:"true"`
	UploadsBaseURL    string        `envconfig:"UPLOADS_BASE_URL"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"10"`
	RequestBurst      int           `envconfig:"REQUEST_BURST" default:"20"`

	RuntimeTarget string `envconfig:"RUNTIME_TARGET" default:"native"`
	WebStorePath  string `envconfig:"WEB_STORE_PATH" default:"./storefront-session.json"`
	StorageKeyHex string `envconfig:"STORAGE_KEY_HEX"`
	NativeDSN     string `envconfig:"NATIVE_DSN" default:"file:storefront.db?_busy_timeout=5000"`
	RedisURL      string `envconfig:"REDIS_URL"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"storefront"`
}

// LoadConfig reads an optional .env file and then the STOREFRONT_* environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.UploadsBaseURL == "" {
		// uploads are served next to /api, not under it
		cfg.UploadsBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/api")
	}
	cfg.UploadsBaseURL = strings.TrimRight(cfg.UploadsBaseURL, "/")
	cfg.RuntimeTarget = strings.ToLower(strings.TrimSpace(cfg.RuntimeTarget))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%s_API_BASE_URL is required", EnvPrefix)
	}

	switch c.RuntimeTarget {
	case TargetWeb, TargetNative:
	case TargetRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("runtime target %q requires %s_REDIS_URL", c.RuntimeTarget, EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown runtime target %q", c.RuntimeTarget)
	}

	if c.StorageKeyHex != "" {
		if _, err := c.StorageKey(); err != nil {
			return err
		}
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	return nil
}

// StorageKey decodes the at-rest sealing key for the web store (nil when unset).
func (c *Config) StorageKey() ([]byte, error) {
	if c.StorageKeyHex == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(c.StorageKeyHex)
	if err != nil {
		return nil, fmt.Errorf("storage key hex decode error: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("storage key length must be 32 bytes (hex 64 chars)")
	}
	return b, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
