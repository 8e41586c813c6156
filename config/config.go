package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type SlackConfig struct {
	SigningSecret   string   `env:"SLACK_SIGNING_SECRET"`
	ClientID        string   `env:"SLACK_CLIENT_ID"`
	ClientSecret    string   `env:"SLACK_CLIENT_SECRET"`
	Scopes          []string `env:"SLACK_SCOPES"            envDefault:"commands,chat:write,team:read" envSeparator:","`
	AlertWebhookURL string   `env:"SLACK_ALERT_WEBHOOK_URL"`
	SalesWebhookURL string   `env:"SLACK_SALES_WEBHOOK_URL"`
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.SigningSecret != "" &&
		c.ClientID != "" &&
		c.ClientSecret != ""
	// Note: AlertWebhookURL and SalesWebhookURL are optional
}

type DispatchConfig struct {
	Timeout time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`
	Workers int           `env:"DISPATCH_WORKERS" envDefault:"16"`
}

type TTLConfig struct {
	Permissions time.Duration `env:"PERMISSIONS_TTL" envDefault:"48h"`
	Order       time.Duration `env:"ORDER_TTL"       envDefault:"10m"`
	Selection   time.Duration `env:"SELECTION_TTL"   envDefault:"15m"`
	OAuthState  time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string `env:"DB_URL,required,notEmpty"`
	DatabaseSchema     string `env:"DB_SCHEMA,required,notEmpty"`
	RedisURL           string `env:"REDIS_URL,required,notEmpty"`
	Port               string `env:"PORT"                 envDefault:"8080"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	Environment        string `env:"ENVIRONMENT"          envDefault:"dev"`
	ServerLogsURL      string `env:"SERVER_LOGS_URL"`
	UseStrictConfig    bool   `env:"USE_STRICT_CONFIG"    envDefault:"true"`

	// ProxyURI is the public base URL of this proxy. Wikis call it back and
	// Slack redirects to it after OAuth.
	ProxyURI string `env:"PROXY_URI"`

	SlackConfig    SlackConfig
	DispatchConfig DispatchConfig
	TTLConfig      TTLConfig
}

// IsDev reports whether invariant violations should crash the process.
func (c *AppConfig) IsDev() bool {
	return c.Environment == "dev"
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	return ParseConfig()
}

// ParseConfig reads the configuration from the process environment only.
func ParseConfig() (*AppConfig, error) {
	config := &AppConfig{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.DispatchConfig.Workers < 1 {
		return nil, fmt.Errorf("DISPATCH_WORKERS must be positive, got %d", config.DispatchConfig.Workers)
	}
	if config.DispatchConfig.Timeout <= 0 {
		return nil, fmt.Errorf("DISPATCH_TIMEOUT must be positive, got %s", config.DispatchConfig.Timeout)
	}

	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack integration configured")
	} else {
		log.Printf("⚠️ Slack integration not configured - Slack requests will be rejected")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.ProxyURI == "" {
		log.Printf("⚠️ PROXY_URI not set - registration instructions and OAuth redirects will be incomplete")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("PROXY_URI is not set (USE_STRICT_CONFIG=true)")
		}
	}

	return config, nil
}
