package env

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	AppConfig AppConfig
}

type AppConfig struct {
	Name          string
	Env           string
	Port          uint
	LogFormat     string
	LogLevel      string
	SentryDSN     string
	MetricsPrefix string

	NodeRpcURL        string
	NodeRpcUser       string
	NodeRpcPassword   string
	RpcTimeoutSeconds uint

	CORSAllowedOrigins []string
}

var (
	cfg Config

	onceDefaultClient sync.Once
)

func Read(configPath string) (*Config, error) {
	var err error

	onceDefaultClient.Do(func() {
		viper.SetConfigType("env")

		if len(configPath) != 0 {
			viper.SetConfigFile(configPath)
		} else {
			viper.AddConfigPath(".")
			viper.SetConfigFile(".env")
		}

		viper.AutomaticEnv()
		if viperErr := viper.ReadInConfig(); viperErr != nil {
			if _, ok := viperErr.(viper.ConfigFileNotFoundError); !ok {
				err = viperErr
				return
			}
		}

		cfg = Config{
			AppConfig: AppConfig{
				Name:          viper.GetString("APP_NAME"),
				Env:           viper.GetString("ENV"),
				Port:          viper.GetUint("PORT"),
				LogFormat:     viper.GetString("LOG_FORMAT"),
				LogLevel:      viper.GetString("LOG_LEVEL"),
				SentryDSN:     viper.GetString("SENTRY_DSN"),
				MetricsPrefix: strings.ReplaceAll(viper.GetString("METRICS_PREFIX"), `-`, `_`),

				NodeRpcURL:        viper.GetString("NODE_RPC_URL"),
				NodeRpcUser:       viper.GetString("NODE_RPC_USER"),
				NodeRpcPassword:   viper.GetString("NODE_RPC_PASSWORD"),
				RpcTimeoutSeconds: viper.GetUint("RPC_TIMEOUT_SECONDS"),

				CORSAllowedOrigins: splitOrigins(viper.GetString("CORS_ALLOWED_ORIGINS")),
			},
		}

		if cfg.AppConfig.RpcTimeoutSeconds == 0 {
			cfg.AppConfig.RpcTimeoutSeconds = 30
		}

		if validationErr := cfg.AppConfig.Validate(); validationErr != nil {
			err = validationErr
		}
	})

	return &cfg, err
}

// Validate rejects a config the gateway cannot start with. A bad config is
// fatal at startup, never a per-request error.
func (c *AppConfig) Validate() error {
	if c.Port == 0 {
		return errors.New("PORT must be set")
	}

	if c.NodeRpcURL == "" {
		return errors.New("NODE_RPC_URL must be set")
	}

	u, parseErr := url.Parse(c.NodeRpcURL)
	if parseErr != nil {
		return fmt.Errorf("NODE_RPC_URL is not a valid url: %w", parseErr)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("NODE_RPC_URL must be http or https, got %q", u.Scheme)
	}

	if c.NodeRpcUser == "" || c.NodeRpcPassword == "" {
		return errors.New("NODE_RPC_USER and NODE_RPC_PASSWORD must be set")
	}

	return nil
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
